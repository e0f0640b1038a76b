package portal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/runtipios/firstboot/internal/common"
	"github.com/runtipios/firstboot/internal/credstore"
	"github.com/runtipios/firstboot/internal/prometheus"
	"github.com/runtipios/firstboot/internal/scan"
)

const (
	errScanFailed = "Failed to scan for networks"
	errSaveFailed = "Failed to save configuration"
	errMismatch   = "Passwords do not match"
)

// binder decodes JSON bodies whatever content type the browser announced.
type binder struct{}

func (b binder) Bind(i interface{}, ctx echo.Context) error {
	return json.NewDecoder(ctx.Request().Body).Decode(i)
}

type scanResponse struct {
	Success  bool           `json:"success"`
	Networks []scan.Network `json:"networks"`
	Error    string         `json:"error,omitempty"`
}

type configureRequest struct {
	WifiSSID           string  `json:"wifi_ssid"`
	WifiPassword       string  `json:"wifi_password"`
	SSHUsername        string  `json:"ssh_username"`
	SSHPassword        string  `json:"ssh_password"`
	SSHPasswordConfirm *string `json:"ssh_password_confirm"`
}

type configureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type handlers struct {
	server *Server
}

type formData struct {
	MinPasswordLength int
	DefaultUsername   string
}

func (h *handlers) index(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "index.html", formData{
		MinPasswordLength: h.server.config.MinPasswordLength,
		DefaultUsername:   credstore.DefaultUsername,
	})
}

func (h *handlers) success(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "success.html", nil)
}

func (h *handlers) scan(ctx echo.Context) (err error) {
	logger := common.RequestLogger(ctx, h.server.logger)

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("wifi scan panicked: %v", r)
			err = ctx.JSON(http.StatusOK, scanResponse{
				Success:  false,
				Networks: []scan.Network{},
				Error:    errScanFailed,
			})
		}
	}()

	start := time.Now()
	networks := h.server.scanner.Scan(ctx.Request().Context())
	prometheus.ScanDuration.Observe(time.Since(start).Seconds())
	if networks == nil {
		networks = []scan.Network{}
	}
	prometheus.NetworksFound.Set(float64(len(networks)))

	logger.Debugf("wifi scan found %d networks", len(networks))
	return ctx.JSON(http.StatusOK, scanResponse{Success: true, Networks: networks})
}

// missingField returns the name of the first required field that is empty.
func (r *configureRequest) missingField() string {
	required := []struct {
		name  string
		value string
	}{
		{"wifi_ssid", r.WifiSSID},
		{"wifi_password", r.WifiPassword},
		{"ssh_username", r.SSHUsername},
		{"ssh_password", r.SSHPassword},
	}
	for _, field := range required {
		if field.value == "" {
			return field.name
		}
	}
	return ""
}

// check returns the message shown to the user when the request cannot be
// stored, or an empty string.
func (r *configureRequest) check(minPasswordLength int) string {
	if field := r.missingField(); field != "" {
		return fmt.Sprintf("Missing required field: %s", field)
	}
	if r.SSHPasswordConfirm != nil && *r.SSHPasswordConfirm != r.SSHPassword {
		return errMismatch
	}
	if utf8.RuneCountInString(r.SSHPassword) < minPasswordLength {
		return fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}
	return ""
}

func (h *handlers) configure(ctx echo.Context) error {
	logger := common.RequestLogger(ctx, h.server.logger)

	reject := func(result, message string) error {
		prometheus.ConfigureSubmissions.WithLabelValues(result).Inc()
		return ctx.JSON(http.StatusOK, configureResponse{Success: false, Error: message})
	}

	var request configureRequest
	if err := ctx.Bind(&request); err != nil {
		logger.Warnf("cannot decode configuration request: %v", err)
		return reject(prometheus.ConfigureRejected, errSaveFailed)
	}

	if message := request.check(h.server.config.MinPasswordLength); message != "" {
		logger.Infof("configuration rejected: %s", message)
		return reject(prometheus.ConfigureRejected, message)
	}

	record := credstore.Record{
		Username:     request.SSHUsername,
		Password:     request.SSHPassword,
		WifiSSID:     common.ToPtr(request.WifiSSID),
		WifiPassword: common.ToPtr(request.WifiPassword),
	}
	if err := record.Validate(h.server.config.MinPasswordLength); err != nil {
		logger.Errorf("configuration passed the form checks but is invalid: %v", err)
		return reject(prometheus.ConfigureRejected, errSaveFailed)
	}

	if err := h.server.store.Write(record); err != nil {
		logger.Errorf("cannot store configuration: %v", err)
		return reject(prometheus.ConfigureFailed, errSaveFailed)
	}

	logger.WithField("username", record.Username).Infof("configuration saved for network %q", request.WifiSSID)
	prometheus.ConfigureSubmissions.WithLabelValues(prometheus.ConfigureAccepted).Inc()
	return ctx.JSON(http.StatusOK, configureResponse{Success: true})
}
