// Package credstore holds the credential record handed from the portal (or
// the terminal configure front-end) to the installer. The record is a single
// JSON document that is always replaced as a whole.
package credstore

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/runtipios/firstboot/internal/jsondb"
)

const (
	DefaultPath     = "/tmp/runtipios-config.json"
	DefaultUsername = "runtipi"
)

// Record is the credential snapshot consumed by the installer. The WiFi
// fields are nil when the appliance is on a wired link.
type Record struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	WifiSSID     *string `json:"wifi_ssid"`
	WifiPassword *string `json:"wifi_password"`
}

// ValidationError names the first field of a record that is not acceptable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks the record as it is about to be stored. minPasswordLength
// of zero disables the length check.
func (r *Record) Validate(minPasswordLength int) error {
	if r.Username == "" {
		return &ValidationError{"username", "is required"}
	}
	if r.Password == "" {
		return &ValidationError{"password", "is required"}
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLength {
		return &ValidationError{"password", fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	if r.WifiSSID != nil && *r.WifiSSID == "" {
		return &ValidationError{"wifi_ssid", "is required"}
	}
	if (r.WifiSSID == nil) != (r.WifiPassword == nil) {
		return &ValidationError{"wifi_password", "must be set together with wifi_ssid"}
	}
	return nil
}

// DecodeError is returned by Read when the store exists but is not a valid
// record.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed configuration store %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Store reads and writes the record at exactly the path it was created with.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Write replaces the stored record.
func (s *Store) Write(record Record) error {
	if err := jsondb.WriteDocument(s.path, 0600, record); err != nil {
		return fmt.Errorf("cannot write configuration store: %w", err)
	}
	return nil
}

// Read returns the stored record. A missing store is reported with exists
// set to false and no error.
func (s *Store) Read() (record *Record, exists bool, err error) {
	var r Record
	exists, err = jsondb.ReadDocument(s.path, &r)
	if err != nil {
		var decodeErr *jsondb.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, true, &DecodeError{Path: s.path, Err: decodeErr.Err}
		}
		return nil, exists, err
	}
	if !exists {
		return nil, false, nil
	}
	return &r, true, nil
}

// Username returns the configured username, or DefaultUsername if the store
// is absent, malformed or has no username.
func (s *Store) Username() string {
	record, exists, err := s.Read()
	if err != nil || !exists || record.Username == "" {
		return DefaultUsername
	}
	return record.Username
}
