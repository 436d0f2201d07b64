package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/darkrelay/internal/auth"
	"github.com/vovakirdan/darkrelay/internal/censor"
	"github.com/vovakirdan/darkrelay/internal/config"
	"github.com/vovakirdan/darkrelay/internal/core"
	"github.com/vovakirdan/darkrelay/internal/metrics"
	"github.com/vovakirdan/darkrelay/internal/store"
	"github.com/vovakirdan/darkrelay/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/darkrelay/internal/transport/http"
)

const auditQueueSize = 256

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	audit           store.AuditLog
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	sentinel, err := auth.NewSentinel(cfg.Admin.Sentinel, cfg.Admin.SentinelHash)
	if err != nil {
		return nil, fmt.Errorf("init sentinel: %w", err)
	}
	if !sentinel.Enabled() {
		logger.Warn().Msg("no admin sentinel configured, moderation is disabled")
	}

	filter, err := censor.New(cfg.Moderation.CensoredWords, cfg.CensorRune())
	if err != nil {
		return nil, fmt.Errorf("init censor: %w", err)
	}

	var audit store.AuditLog = store.NopAuditLog{}
	if cfg.Audit.Path != "" {
		st, err := sqlite.New(cfg.Audit.Path)
		if err != nil {
			return nil, fmt.Errorf("init audit store: %w", err)
		}
		audit = store.NewAsync(st, auditQueueSize, logger)
		logger.Info().Str("db_path", cfg.Audit.Path).Msg("audit journal initialized")
	}

	deps := transporthttp.Deps{Sentinel: sentinel, Audit: audit}
	opts := core.Options{
		Logger: logger,
		Audit:  audit,
		Filter: filter,
		Media:  core.MediaPolicy{MaxBytes: cfg.Media.MaxBytes},
	}
	if cfg.Metrics.Enabled {
		m := metrics.New()
		opts.Observer = m
		deps.Metrics = m.Handler()
	}

	hub := core.NewHub(opts)
	server := transporthttp.NewServer(hub, *cfg, deps, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		audit:           audit,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup flushes the audit journal.
func (a *App) cleanup() {
	if a.audit != nil {
		if err := a.audit.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close audit journal")
		} else {
			a.log.Info().Msg("audit journal closed")
		}
	}
}
