package common

import (
	"encoding/json"
	"io"

	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
)

// EchoLogrusLogger lets echo log through a logrus entry, so echo's own
// messages carry the same fields (operation id, service) as ours.
type EchoLogrusLogger struct {
	*logrus.Entry
}

func NewEchoLogrusLogger(entry *logrus.Entry) *EchoLogrusLogger {
	return &EchoLogrusLogger{Entry: entry}
}

func toEchoLevel(level logrus.Level) log.Lvl {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return log.DEBUG
	case logrus.InfoLevel:
		return log.INFO
	case logrus.WarnLevel:
		return log.WARN
	case logrus.ErrorLevel:
		return log.ERROR
	}

	return log.OFF
}

func (l *EchoLogrusLogger) marshal(j log.JSON) string {
	b, err := json.Marshal(j)
	if err != nil {
		return err.Error()
	}
	return string(b)
}

func (l *EchoLogrusLogger) Output() io.Writer {
	return l.Logger.Out
}

// SetOutput, SetLevel, SetHeader and SetPrefix are ignored; the logrus logger
// is configured once at startup and shared by everything in the process.
func (l *EchoLogrusLogger) SetOutput(w io.Writer) {
}

func (l *EchoLogrusLogger) Level() log.Lvl {
	return toEchoLevel(l.Logger.GetLevel())
}

func (l *EchoLogrusLogger) SetLevel(v log.Lvl) {
}

func (l *EchoLogrusLogger) SetHeader(h string) {
}

func (l *EchoLogrusLogger) Prefix() string {
	return ""
}

func (l *EchoLogrusLogger) SetPrefix(p string) {
}

func (l *EchoLogrusLogger) Printj(j log.JSON) {
	l.Entry.Println(l.marshal(j))
}

func (l *EchoLogrusLogger) Debugj(j log.JSON) {
	l.Entry.Debugln(l.marshal(j))
}

func (l *EchoLogrusLogger) Infoj(j log.JSON) {
	l.Entry.Infoln(l.marshal(j))
}

func (l *EchoLogrusLogger) Warnj(j log.JSON) {
	l.Entry.Warnln(l.marshal(j))
}

func (l *EchoLogrusLogger) Errorj(j log.JSON) {
	l.Entry.Errorln(l.marshal(j))
}

func (l *EchoLogrusLogger) Fatalj(j log.JSON) {
	l.Entry.Fatalln(l.marshal(j))
}

func (l *EchoLogrusLogger) Panicj(j log.JSON) {
	l.Entry.Panicln(l.marshal(j))
}
