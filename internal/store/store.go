package store

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by an audit log after Close.
var ErrClosed = errors.New("audit log closed")

// AuditEntry is one privileged or directory-changing action.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Target    string    `json:"target,omitempty"`
	Channel   string    `json:"channel,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditLog persists moderation and channel-creation history.
type AuditLog interface {
	// Record appends one entry.
	Record(ctx context.Context, entry AuditEntry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]AuditEntry, error)
	Close() error
}

// NopAuditLog discards everything.
type NopAuditLog struct{}

func (NopAuditLog) Record(context.Context, AuditEntry) error { return nil }

func (NopAuditLog) Recent(context.Context, int) ([]AuditEntry, error) { return nil, nil }

func (NopAuditLog) Close() error { return nil }
