package main

import (
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
)

var (
	Run = run
)

func MockLogger() (hook *logrusTest.Hook, restore func()) {
	saved := newLogger
	logger, hook := logrusTest.NewNullLogger()
	newLogger = func(string, bool, func(string) string) *logrus.Logger {
		return logger
	}
	logger.SetLevel(logrus.DebugLevel)

	return hook, func() {
		newLogger = saved
	}
}

func MockLinkCommand(command []string) (restore func()) {
	saved := linkCommand
	linkCommand = command
	return func() {
		linkCommand = saved
	}
}
