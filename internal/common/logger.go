package common

import (
	"io"
	"os"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger for service. When the process runs
// under systemd with its stderr connected to the journal, entries go to the
// journal with structured fields instead of being written as text.
func NewLogger(service string, debug bool, getenv func(string) string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.AddHook(&BuildHook{})
	if service != "" {
		logger.AddHook(&ServiceHook{Service: service})
	}

	if getenv != nil && getenv("JOURNAL_STREAM") != "" && journal.Enabled() {
		logger.AddHook(&JournalHook{Identifier: "runtipios-" + service})
		logger.SetOutput(io.Discard)
	}

	return logger
}
