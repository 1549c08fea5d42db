package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/dockgate/internal/api"
	"github.com/darmiel/dockgate/internal/audit"
	"github.com/darmiel/dockgate/internal/auth"
	"github.com/darmiel/dockgate/internal/config"
	"github.com/darmiel/dockgate/internal/core"
	"github.com/darmiel/dockgate/internal/gateway"
	"github.com/darmiel/dockgate/internal/logging"
	"github.com/darmiel/dockgate/internal/runtime"
	"github.com/darmiel/dockgate/internal/tasks"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Dockgate server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addrOverride, _ := cmd.Flags().GetString("addr")

		store, err := config.NewStore(cfgDir, configEnv())
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg := store.Current()

		store.Subscribe(func(newCfg *config.Config) {
			log.Info().
				Str("filter_mode", string(newCfg.Filter.Mode)).
				Bool("auth_enabled", newCfg.Auth.Enabled).
				Msg("configuration reloaded")
		})

		var watcher *config.Watcher
		if cfg.Server.HotReload {
			watcher, err = config.StartWatcher(store, logging.NewZLogger(log.Logger))
			if err != nil {
				return fmt.Errorf("starting config watcher: %w", err)
			}
			defer func() {
				_ = watcher.Close()
			}()
		}

		log.Info().Msg("Initializing audit trail...")
		auditor, query, fileAuditor, err := buildAuditor(cfg)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			_ = auditor.Close()
		}()

		taskManager := tasks.NewManager()
		defer func() {
			_ = taskManager.Close()
		}()
		if fileAuditor != nil && cfg.Audit.MaxSizeMB > 0 {
			taskManager.Register("audit-rotate", time.Hour, audit.RotationTask(
				fileAuditor,
				int64(cfg.Audit.MaxSizeMB)*1024*1024,
				cfg.Audit.KeepFiles,
			))
		}

		gw := gateway.New(store, auditor, gateway.WithLogger(logging.NewZLogger(log.Logger)))
		defer func() {
			_ = gw.Close()
		}()

		rt := runtime.NewStub()

		// setup server
		srv := api.NewServer(store, gw, auth.New(store), rt, query, taskManager)

		addr := cfg.Server.Addr()
		if addrOverride != "" {
			addr = addrOverride
		}

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes(),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

// buildAuditor assembles the audit sink from the config: the durable file
// trail paired with an in-memory buffer for the admin query endpoint. The
// file auditor is also returned separately so rotation can be scheduled.
func buildAuditor(cfg *config.Config) (core.Auditor, core.AuditQuerier, *audit.FileAuditor, error) {
	if !cfg.Audit.Enabled {
		return audit.NewNoopAuditor(), nil, nil, nil
	}

	fileAuditor, err := audit.NewFileAuditor(cfg.Audit.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	memAuditor := audit.NewInMemoryAuditor()

	return audit.NewMultiAuditor(fileAuditor, memAuditor), memAuditor, fileAuditor, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address override (default from config)")
}
