// Package ledger reads and writes the installation state ledger: a file that
// holds exactly one phase token. The installer is the only writer; the status
// page polls it.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/runtipios/firstboot/internal/jsondb"
)

const DefaultPath = "/var/lib/runtipios/wifi-connect-state"

type Ledger struct {
	path string
}

func New(path string) *Ledger {
	return &Ledger{path: path}
}

func (l *Ledger) Path() string {
	return l.path
}

// Read returns the current phase. A missing, unreadable or unrecognised
// ledger is reported as NotStarted.
func (l *Ledger) Read() Phase {
	phase, _ := l.read()
	return phase
}

func (l *Ledger) read() (Phase, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NotStarted, nil
		}
		return NotStarted, err
	}
	return ParsePhase(string(data))
}

// Write replaces the ledger with phase, regardless of the current contents.
func (l *Ledger) Write(phase Phase) error {
	if !phase.valid() {
		return fmt.Errorf("cannot write unknown phase %d", int(phase))
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create ledger directory: %w", err)
	}

	return jsondb.WriteFileAtomically(dir, filepath.Base(l.path), 0644, func(f *os.File) error {
		_, err := fmt.Fprintln(f, phase.String())
		return err
	})
}

// RegressionError is returned by Advance when the requested phase lies before
// the one already recorded.
type RegressionError struct {
	Current   Phase
	Requested Phase
}

func (e *RegressionError) Error() string {
	return fmt.Sprintf("refusing to move installation phase back from %s to %s", e.Current, e.Requested)
}

// Advance moves the ledger to phase. Moving backwards fails with a
// RegressionError unless force is set. Re-recording the current phase is a
// no-op.
func (l *Ledger) Advance(phase Phase, force bool) error {
	current := l.Read()
	if phase == current {
		return nil
	}
	if phase < current && !force {
		return &RegressionError{Current: current, Requested: phase}
	}
	return l.Write(phase)
}
