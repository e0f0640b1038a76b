package common

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func requestEntry(logger logrus.FieldLogger, r *http.Request) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"operation_id": OperationID(r.Context()),
		"method":       r.Method,
		"path":         r.URL.Path,
	})
}

// LoggerMiddleware gives every request a logger carrying its operation id and
// logs the request once it was handled. It has to run after
// OperationIDMiddleware.
func LoggerMiddleware(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			entry := requestEntry(logger, c.Request())
			c.SetLogger(NewEchoLogrusLogger(entry))

			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the error response so the status is known
				c.Error(err)
			}

			entry.WithFields(logrus.Fields{
				"status":   c.Response().Status,
				"duration": time.Since(start).String(),
			}).Debug("request handled")
			return nil
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingHandler is the net/http counterpart of LoggerMiddleware.
func LoggingHandler(logger logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(recorder, r)

		requestEntry(logger, r).WithFields(logrus.Fields{
			"status":   recorder.status,
			"duration": time.Since(start).String(),
		}).Debug("request handled")
	})
}

// RequestLogger returns the logger for the request handled in c, falling back
// to logger when the middleware did not run.
func RequestLogger(c echo.Context, logger logrus.FieldLogger) logrus.FieldLogger {
	if l, ok := c.Logger().(*EchoLogrusLogger); ok {
		return l.Entry
	}
	return logger
}
