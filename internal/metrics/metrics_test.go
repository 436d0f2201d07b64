package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/darkrelay/internal/core"
)

var _ core.Observer = (*Metrics)(nil)

func TestMetricsObserver(t *testing.T) {
	m := New()

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.IdentityRegistered()
	m.ChannelCreated()
	m.MessageBroadcast("text")
	m.MessageBroadcast("text")
	m.MessageBroadcast("image")
	m.ModerationAction("kick")
	m.EventsDropped(3)

	require.Equal(t, 1.0, testutil.ToFloat64(m.connections))
	require.Equal(t, 2.0, testutil.ToFloat64(m.connectionsAll))
	require.Equal(t, 1.0, testutil.ToFloat64(m.identities))
	require.Equal(t, 2.0, testutil.ToFloat64(m.messages.WithLabelValues("text")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.messages.WithLabelValues("image")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.moderation.WithLabelValues("kick")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.droppedEvents))
}

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.MessageBroadcast("video")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, `darkrelay_messages_broadcast_total{kind="video"} 1`), body)
	require.Contains(t, body, "go_goroutines")
}
