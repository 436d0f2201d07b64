package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/darkrelay/internal/core"
	"github.com/vovakirdan/darkrelay/internal/proto"
	"github.com/vovakirdan/darkrelay/internal/store"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// APIHandlers serves read-only views of hub state.
type APIHandlers struct {
	hub   Hub
	audit store.AuditLog
	log   *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub Hub, audit store.AuditLog, logger *zerolog.Logger) *APIHandlers {
	if audit == nil {
		audit = store.NopAuditLog{}
	}
	return &APIHandlers{
		hub:   hub,
		audit: audit,
		log:   logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RosterResponse is the body of the online listing.
type RosterResponse struct {
	Channel string             `json:"channel"`
	Users   []proto.RosterUser `json:"users"`
}

// AuditResponse is the body of the audit listing.
type AuditResponse struct {
	Entries []store.AuditEntry `json:"entries"`
}

// ListChannels returns the channel catalog.
// GET /api/channels
func (h *APIHandlers) ListChannels(c *gin.Context) {
	channels, err := h.hub.Channels(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list channels")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "hub unavailable"})
		return
	}
	c.JSON(http.StatusOK, proto.ChannelList{Channels: channelsDTO(channels)})
}

// ListOnline returns the roster of one channel.
// GET /api/channels/:name/online
func (h *APIHandlers) ListOnline(c *gin.Context) {
	name := c.Param("name")
	roster, err := h.hub.Roster(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, core.ErrChannelNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "channel not found"})
			return
		}
		h.log.Error().Err(err).Str("channel", name).Msg("failed to list roster")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "hub unavailable"})
		return
	}
	c.JSON(http.StatusOK, RosterResponse{Channel: name, Users: rosterDTO(roster)})
}

// RecentAudit returns the newest audit entries.
// GET /api/audit?limit=N
func (h *APIHandlers) RecentAudit(c *gin.Context) {
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxAuditLimit)
	}

	entries, err := h.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read audit log")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if entries == nil {
		entries = []store.AuditEntry{}
	}
	c.JSON(http.StatusOK, AuditResponse{Entries: entries})
}
