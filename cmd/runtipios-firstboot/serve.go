package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runtipios/firstboot/internal/common"
	"github.com/runtipios/firstboot/internal/credstore"
	"github.com/runtipios/firstboot/internal/hostinfo"
	"github.com/runtipios/firstboot/internal/ledger"
	"github.com/runtipios/firstboot/internal/portal"
	"github.com/runtipios/firstboot/internal/scan"
	"github.com/runtipios/firstboot/internal/status"
)

const shutdownTimeout = 10 * time.Second

// serve runs handler until ctx is cancelled. socket names the systemd socket
// to take over if the service was socket activated.
func serve(ctx context.Context, logger *logrus.Logger, socket, addr string, handler http.Handler) error {
	listener, err := common.Listen(logger, socket, addr)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", listener.Addr())
		errs <- httpServer.Serve(listener)
	}()
	common.NotifyReady(logger)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	common.NotifyStopping()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("error shutting down http server: %v", err)
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newPortalCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "portal",
		Short: "Serve the captive portal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger("portal")
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			scanner := scan.New(logger)
			if len(cfg.Scan.Command) > 0 {
				scanner.Command = cfg.Scan.Command
			}
			scanner.Timeout = cfg.Scan.Timeout

			server := portal.NewServer(portal.Config{
				MinPasswordLength: cfg.Portal.MinPasswordLength,
				Metrics:           cfg.Portal.Metrics,
			}, credstore.New(cfg.ConfigFile), scanner, logger)

			logger.WithField("store", cfg.ConfigFile).Info("starting captive portal")
			return serve(cmd.Context(), logger, cfg.Portal.Socket, cfg.PortalAddr(), server.Handler())
		},
	}
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Serve the installation status page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger("status")
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			server := status.NewServer(status.Config{
				AppDir:          cfg.Status.AppDir,
				RefreshInterval: cfg.Status.RefreshInterval,
				Metrics:         cfg.Status.Metrics,
			}, ledger.New(cfg.StateFile), credstore.New(cfg.ConfigFile), hostinfo.NewIPResolver(), logger)

			logger.WithField("ledger", cfg.StateFile).Info("starting status page")
			return serve(cmd.Context(), logger, cfg.Status.Socket, cfg.StatusAddr(), server.Handler())
		},
	}
}
