// Package portal serves the captive portal: the setup form, the WiFi scan
// endpoint and the endpoint that stores the submitted credentials.
package portal

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/runtipios/firstboot/internal/common"
	"github.com/runtipios/firstboot/internal/credstore"
	"github.com/runtipios/firstboot/internal/prometheus"
	"github.com/runtipios/firstboot/internal/scan"
)

// NetworkScanner lists the networks offered on the setup form.
type NetworkScanner interface {
	Scan(ctx context.Context) []scan.Network
}

type Config struct {
	// Passwords shorter than this are rejected.
	MinPasswordLength int
	// Serve /metrics.
	Metrics bool
}

type Server struct {
	config  Config
	store   *credstore.Store
	scanner NetworkScanner
	logger  *logrus.Logger
}

func NewServer(config Config, store *credstore.Store, scanner NetworkScanner, logger *logrus.Logger) *Server {
	return &Server{
		config:  config,
		store:   store,
		scanner: scanner,
		logger:  logger,
	}
}

func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.Binder = binder{}
	e.Renderer = newRenderer()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		s.httpErrorHandler(e, err, c)
	}
	e.Logger = common.NewEchoLogrusLogger(logrus.NewEntry(s.logger))

	e.Pre(common.OperationIDMiddleware)
	e.Use(common.LoggerMiddleware(s.logger))
	e.Use(prometheus.MetricsMiddleware(prometheus.PortalSubsystem))
	e.Use(middleware.Recover())

	h := handlers{server: s}
	e.GET("/", h.index)
	e.GET("/success", h.success)
	e.GET("/api/scan", h.scan)
	e.POST("/api/configure", h.configure)

	if s.config.Metrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	return e
}

// httpErrorHandler logs what went wrong and lets echo write its default
// response, which carries only the status text.
func (s *Server) httpErrorHandler(e *echo.Echo, err error, c echo.Context) {
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code >= http.StatusInternalServerError {
		common.RequestLogger(c, s.logger).Errorf("request failed: %v", err)
	}
	if !ok {
		err = echo.NewHTTPError(http.StatusInternalServerError)
	}
	e.DefaultHTTPErrorHandler(err, c)
}
