// Package jsondb implements a simple way to persist JSON documents in a
// directory. Every document lives in its own file and is replaced as a whole:
// readers either see the previous contents or the new ones, never a mix.
//
// There is no locking. Concurrent writers of the same document race at the
// rename and the last one wins.
package jsondb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type JSONDatabase struct {
	dir  string
	perm os.FileMode
}

// New creates a database which stores documents in dir with the given
// permissions. The directory is not created until the first write.
func New(dir string, perm os.FileMode) *JSONDatabase {
	return &JSONDatabase{dir, perm}
}

// Path returns the file backing the document called name.
func (db *JSONDatabase) Path(name string) string {
	return filepath.Join(db.dir, name+".json")
}

// Read reads the document name into document. It returns false and no error
// when the document does not exist.
func (db *JSONDatabase) Read(name string, document interface{}) (bool, error) {
	return readDocument(db.Path(name), name, document)
}

// Write replaces the document name with document.
func (db *JSONDatabase) Write(name string, document interface{}) error {
	return WriteDocument(db.Path(name), db.perm, document)
}

// ReadDocument decodes the JSON file at path into document. A missing file
// is reported as false and no error.
func ReadDocument(path string, document interface{}) (bool, error) {
	return readDocument(path, filepath.Base(path), document)
}

func readDocument(path, name string, document interface{}) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("error accessing db file %s: %w", path, err)
	}
	defer f.Close()

	err = json.NewDecoder(f).Decode(document)
	if err != nil {
		return true, &DecodeError{Name: name, Err: err}
	}

	return true, nil
}

// WriteDocument atomically replaces the file at path, exactly as named, with
// document encoded as JSON. Missing parent directories are created.
func WriteDocument(path string, perm os.FileMode, document interface{}) error {
	dir, filename := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create db directory: %w", err)
	}

	return WriteFileAtomically(dir, filename, perm, func(f *os.File) error {
		return json.NewEncoder(f).Encode(document)
	})
}

// DecodeError is returned by Read when a document exists but does not parse.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode document %s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// WriteFileAtomically creates a temporary file in dir, lets writer fill it and
// renames it to filename once it was closed successfully. The temporary file
// is removed on every error path.
func WriteFileAtomically(dir, filename string, mode os.FileMode, writer func(f *os.File) error) error {
	tmpfile, err := os.CreateTemp(dir, filename+"-*.tmp")
	if err != nil {
		return err
	}

	// remove the temporary file if anything below fails; after a successful
	// rename this is a no-op
	defer os.Remove(tmpfile.Name())

	err = writer(tmpfile)
	if err != nil {
		tmpfile.Close()
		return err
	}

	err = tmpfile.Chmod(mode)
	if err != nil {
		tmpfile.Close()
		return err
	}

	err = tmpfile.Sync()
	if err != nil {
		tmpfile.Close()
		return err
	}

	err = tmpfile.Close()
	if err != nil {
		return err
	}

	return os.Rename(tmpfile.Name(), filepath.Join(dir, filename))
}
