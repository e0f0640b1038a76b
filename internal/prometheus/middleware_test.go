package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(MetricsMiddleware("test-echo"))
	e.GET("/api/scan", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/scan", nil))
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(TotalRequests.WithLabelValues("test-echo", "/api/scan", "200")))
}

func TestMetricsHandler(t *testing.T) {
	handler := MetricsHandler("test-http", "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/whatever", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(TotalRequests.WithLabelValues("test-http", "/", "404")))
}
