package http

import (
	"context"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/darkrelay/internal/config"
	"github.com/vovakirdan/darkrelay/internal/core"
	"github.com/vovakirdan/darkrelay/internal/store"
)

// Hub is the part of the core engine the transport talks to.
type Hub interface {
	RegisterClient(c *core.Client)
	UnregisterClient(c *core.Client)
	Channels(ctx context.Context) ([]core.ChannelInfo, error)
	Roster(ctx context.Context, channel string) ([]core.RosterEntry, error)
}

// Deps are optional collaborators of the HTTP layer.
type Deps struct {
	Sentinel Matcher
	Audit    store.AuditLog
	// Metrics is mounted at /metrics when non-nil.
	Metrics stdhttp.Handler
}

// NewServer builds the HTTP server. The websocket endpoint is served from
// the outer mux because gin refuses to hijack after the upgrade response is
// written; every other route goes through the gin engine.
func NewServer(hub Hub, cfg config.Config, deps Deps, logger *zerolog.Logger) *stdhttp.Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, WSOptions{
		ReadLimit:      cfg.MaxMessageBytes,
		EventBuffer:    cfg.EventBuffer,
		OriginPatterns: cfg.AllowedOrigins,
		Sentinel:       deps.Sentinel,
	}, logger))
	mux.Handle("/", NewRouter(hub, deps, logger))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter registers the plain HTTP routes on a fresh gin engine.
func NewRouter(hub Hub, deps Deps, logger *zerolog.Logger) *gin.Engine {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(hub, deps.Audit, logger)
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/channels", api.ListChannels)
		apiGroup.GET("/channels/:name/online", api.ListOnline)
		apiGroup.GET("/audit", AdminMiddleware(deps.Sentinel, logger), api.RecentAudit)
	}

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
