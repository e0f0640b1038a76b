package prometheus

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMiddleware counts and times requests handled by an echo server. The
// route pattern is used as the path label so unknown URLs do not create new
// series.
func MetricsMiddleware(subsystem string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			timer := prometheus.NewTimer(httpDuration.WithLabelValues(subsystem, ctx.Path()))
			defer timer.ObserveDuration()

			err := next(ctx)
			status := ctx.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			TotalRequests.WithLabelValues(subsystem, ctx.Path(), strconv.Itoa(status)).Inc()
			return err
		}
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// MetricsHandler is the net/http counterpart of MetricsMiddleware. path is
// the label recorded for every request the handler serves.
func MetricsHandler(subsystem, path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(httpDuration.WithLabelValues(subsystem, path))
		defer timer.ObserveDuration()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		TotalRequests.WithLabelValues(subsystem, path, strconv.Itoa(sw.status)).Inc()
	})
}
