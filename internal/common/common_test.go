package common

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLogrus(buf *bytes.Buffer) *logrus.Logger {
	return &logrus.Logger{
		Out: buf,
		Formatter: &logrus.TextFormatter{
			DisableTimestamp: true,
			DisableColors:    true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.DebugLevel,
	}
}

func TestServiceHook(t *testing.T) {
	buf := &bytes.Buffer{}
	l := makeLogrus(buf)
	l.AddHook(&ServiceHook{Service: "portal"})
	l.Info("test message")
	require.Equal(t, "level=info msg=\"test message\" service=portal\n", buf.String())
}

func TestBuildHook(t *testing.T) {
	logger, hook := logrusTest.NewNullLogger()
	logger.AddHook(&BuildHook{})
	logger.Info("hello")
	require.Equal(t, BuildCommit, hook.LastEntry().Data["build_commit"])
	require.Equal(t, BuildTime, hook.LastEntry().Data["build_time"])
	require.NotEmpty(t, BuildTime)
}

func TestStringifyKey(t *testing.T) {
	assert.Equal(t, "OPERATION_ID", stringifyKey("operation_id"))
	assert.Equal(t, "BUILD_COMMIT", stringifyKey("_build-commit"))
	assert.Equal(t, "STATUS", stringifyKey("status"))

	hook := &JournalHook{Identifier: "runtipios-status"}
	fields := hook.fields(logrus.Fields{"status": 200, "path": "/"})
	assert.Equal(t, map[string]string{"STATUS": "200", "PATH": "/", "SYSLOG_IDENTIFIER": "runtipios-status"}, fields)
}

func TestNewLoggerOutsideJournal(t *testing.T) {
	logger := NewLogger("status", true, func(string) string { return "" })
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.Len(t, logger.Hooks[logrus.InfoLevel], 2)
}

func TestEchoLogrusLevel(t *testing.T) {
	logger, hook := logrusTest.NewNullLogger()
	logger.SetLevel(logrus.WarnLevel)
	ell := NewEchoLogrusLogger(logger.WithField("operation_id", "abc"))
	assert.Equal(t, log.WARN, ell.Level())

	ell.Warnj(log.JSON{"answer": 42})
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, `{"answer":42}`, hook.LastEntry().Message)
	assert.Equal(t, "abc", hook.LastEntry().Data["operation_id"])
}

func TestOperationIDMiddleware(t *testing.T) {
	logger, hook := logrusTest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	e := echo.New()
	e.Pre(OperationIDMiddleware)
	e.Use(LoggerMiddleware(logger))

	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = OperationID(c.Request().Context())
		RequestLogger(c, logger).Info("inside")
		return c.NoContent(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Len(t, seen, 27)
	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "inside", entries[0].Message)
	assert.Equal(t, seen, entries[0].Data["operation_id"])
	assert.Equal(t, http.StatusTeapot, entries[1].Data["status"])
}

func TestOperationIDHandler(t *testing.T) {
	logger, hook := logrusTest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	var seen string
	handler := OperationIDHandler(LoggingHandler(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = OperationID(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, hook.LastEntry().Data["operation_id"])
	assert.Equal(t, http.StatusAccepted, hook.LastEntry().Data["status"])
	assert.Equal(t, "", OperationID(context.Background()))
}
