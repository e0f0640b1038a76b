// Package status serves the page that follows the background installation.
// Everything shown is derived from the installation ledger, the credential
// store and a few host facts at request time.
package status

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/runtipios/firstboot/internal/common"
	"github.com/runtipios/firstboot/internal/credstore"
	"github.com/runtipios/firstboot/internal/hostinfo"
	"github.com/runtipios/firstboot/internal/ledger"
	"github.com/runtipios/firstboot/internal/prometheus"
)

//go:embed templates/status.html
var templateFS embed.FS

var statusTemplate = template.Must(template.ParseFS(templateFS, "templates/status.html"))

type Config struct {
	// Directory the application is installed into.
	AppDir          string
	RefreshInterval time.Duration
	Metrics         bool
}

type Server struct {
	config   Config
	ledger   *ledger.Ledger
	store    *credstore.Store
	resolver hostinfo.IPResolver
	logger   *logrus.Logger
}

func NewServer(config Config, ledger *ledger.Ledger, store *credstore.Store, resolver hostinfo.IPResolver, logger *logrus.Logger) *Server {
	return &Server{
		config:   config,
		ledger:   ledger,
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.MethodNotAllowed = http.HandlerFunc(methodNotAllowedHandler)
	router.NotFound = http.HandlerFunc(notFoundHandler)

	router.Handler(http.MethodGet, "/", prometheus.MetricsHandler(prometheus.StatusSubsystem, "/", http.HandlerFunc(s.statusHandler)))
	router.Handler(http.MethodGet, "/api/status", prometheus.MetricsHandler(prometheus.StatusSubsystem, "/api/status", http.HandlerFunc(s.statusJSONHandler)))
	if s.config.Metrics {
		router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	}

	return common.OperationIDHandler(common.LoggingHandler(s.logger, router))
}

func methodNotAllowedHandler(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusMethodNotAllowed)
}

func notFoundHandler(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusNotFound)
}

func (s *Server) appInstalled() bool {
	info, err := os.Stat(s.config.AppDir)
	return err == nil && info.IsDir()
}

func (s *Server) view(request *http.Request) View {
	view := NewView(
		s.ledger.Read(),
		s.appInstalled(),
		s.resolver.IPAddress(request.Context()),
		s.store.Username(),
		s.config.RefreshInterval,
	)
	prometheus.InstallationStep.Set(float64(view.Step))
	return view
}

func (s *Server) statusHandler(writer http.ResponseWriter, request *http.Request) {
	view := s.view(request)

	var buf bytes.Buffer
	if err := statusTemplate.Execute(&buf, view); err != nil {
		s.logger.WithField("operation_id", common.OperationID(request.Context())).Errorf("cannot render status page: %v", err)
		http.Error(writer, "Status temporarily unavailable", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.Header().Set("Cache-Control", "no-store")
	if view.RefreshSeconds > 0 {
		writer.Header().Set("Refresh", strconv.Itoa(view.RefreshSeconds))
	}
	writer.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(writer)
}

func (s *Server) statusJSONHandler(writer http.ResponseWriter, request *http.Request) {
	view := s.view(request)

	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.Header().Set("Cache-Control", "no-store")
	writer.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(writer).Encode(view); err != nil {
		s.logger.Warnf("cannot write status: %v", err)
	}
}
