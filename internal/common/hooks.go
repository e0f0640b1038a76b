package common

import (
	"github.com/sirupsen/logrus"
)

var allLevels = []logrus.Level{
	logrus.DebugLevel,
	logrus.InfoLevel,
	logrus.WarnLevel,
	logrus.ErrorLevel,
	logrus.FatalLevel,
	logrus.PanicLevel,
}

// BuildHook stamps every entry with the build the process runs.
type BuildHook struct {
}

func (h *BuildHook) Levels() []logrus.Level {
	return allLevels
}

func (h *BuildHook) Fire(e *logrus.Entry) error {
	e.Data["build_commit"] = BuildCommit
	e.Data["build_time"] = BuildTime
	return nil
}

// ServiceHook adds the name of the first-boot service to every entry, so the
// portal and the status page can be told apart in a shared journal.
type ServiceHook struct {
	Service string
}

func (h *ServiceHook) Levels() []logrus.Level {
	return allLevels
}

func (h *ServiceHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = h.Service
	return nil
}
