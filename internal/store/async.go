package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const defaultAsyncBuffer = 128

// AsyncAuditLog queues entries in memory and writes them from a single
// background goroutine, so Record never waits on disk. When the queue is
// full the entry is dropped and counted.
type AsyncAuditLog struct {
	inner   AuditLog
	queue   chan AuditEntry
	done    chan struct{}
	log     *zerolog.Logger
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// NewAsync wraps inner and starts the writer goroutine.
func NewAsync(inner AuditLog, buffer int, logger *zerolog.Logger) *AsyncAuditLog {
	if buffer <= 0 {
		buffer = defaultAsyncBuffer
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	a := &AsyncAuditLog{
		inner: inner,
		queue: make(chan AuditEntry, buffer),
		done:  make(chan struct{}),
		log:   logger,
	}
	go a.run()
	return a
}

func (a *AsyncAuditLog) run() {
	defer close(a.done)
	for entry := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.inner.Record(ctx, entry); err != nil {
			a.log.Error().Err(err).Str("action", entry.Action).Msg("write audit entry")
		}
		cancel()
	}
}

// Record enqueues entry without blocking.
func (a *AsyncAuditLog) Record(_ context.Context, entry AuditEntry) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- entry:
	default:
		a.dropped.Add(1)
		a.log.Warn().Str("action", entry.Action).Msg("audit queue full, entry dropped")
	}
	return nil
}

// Recent reads through to the wrapped log.
func (a *AsyncAuditLog) Recent(ctx context.Context, limit int) ([]AuditEntry, error) {
	return a.inner.Recent(ctx, limit)
}

// Dropped returns how many entries were discarded because the queue was full.
func (a *AsyncAuditLog) Dropped() int64 {
	return a.dropped.Load()
}

// Close flushes queued entries and closes the wrapped log.
func (a *AsyncAuditLog) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	return a.inner.Close()
}
