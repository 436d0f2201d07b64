package http

import (
	"context"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/darkrelay/internal/auth"
	"github.com/vovakirdan/darkrelay/internal/config"
	"github.com/vovakirdan/darkrelay/internal/core"
	"github.com/vovakirdan/darkrelay/internal/store"
)

type fakeHub struct {
	channels []core.ChannelInfo
	rosters  map[string][]core.RosterEntry
}

func (f *fakeHub) RegisterClient(*core.Client)   {}
func (f *fakeHub) UnregisterClient(*core.Client) {}

func (f *fakeHub) Channels(context.Context) ([]core.ChannelInfo, error) {
	return f.channels, nil
}

func (f *fakeHub) Roster(_ context.Context, name string) ([]core.RosterEntry, error) {
	roster, ok := f.rosters[name]
	if !ok {
		return nil, fmt.Errorf("roster %q: %w", name, core.ErrChannelNotFound)
	}
	return roster, nil
}

type memoryAudit struct {
	entries []store.AuditEntry
}

func (m *memoryAudit) Record(_ context.Context, e store.AuditEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryAudit) Recent(_ context.Context, limit int) ([]store.AuditEntry, error) {
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[:limit], nil
}

func (m *memoryAudit) Close() error { return nil }

func newTestRouter(t *testing.T, audit store.AuditLog, metrics stdhttp.Handler) stdhttp.Handler {
	t.Helper()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hub := &fakeHub{
		channels: []core.ChannelInfo{
			{Name: "general", Icon: "💬", Builtin: true, CreatedAt: created, Online: 1},
			{Name: "my-room", Icon: "#", Creator: "alice", CreatedAt: created},
		},
		rosters: map[string][]core.RosterEntry{
			"general": {{ConnectionID: "c1", Name: "alice", Profile: core.Profile{ConnectionID: "c1", DisplayName: "alice"}}},
			"my-room": {},
		},
	}
	sentinel, err := auth.NewSentinel(testSentinel, "")
	require.NoError(t, err)
	return NewServer(hub, config.Default(), Deps{Sentinel: sentinel, Audit: audit, Metrics: metrics}, nil).Handler
}

func doRequest(h stdhttp.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListChannels(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rec := doRequest(router, stdhttp.MethodGet, "/api/channels", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var body struct {
		Channels []struct {
			Name    string `json:"name"`
			Builtin bool   `json:"builtin"`
			Creator string `json:"creator"`
			Online  int    `json:"online"`
		} `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Channels, 2)
	require.Equal(t, "general", body.Channels[0].Name)
	require.True(t, body.Channels[0].Builtin)
	require.Equal(t, 1, body.Channels[0].Online)
	require.Equal(t, "alice", body.Channels[1].Creator)
}

func TestListOnline(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rec := doRequest(router, stdhttp.MethodGet, "/api/channels/general/online", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	var body RosterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "general", body.Channel)
	require.Len(t, body.Users, 1)
	require.Equal(t, "alice", body.Users[0].Name)

	rec = doRequest(router, stdhttp.MethodGet, "/api/channels/my-room/online", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	require.JSONEq(t, `{"channel":"my-room","users":[]}`, rec.Body.String())

	rec = doRequest(router, stdhttp.MethodGet, "/api/channels/nowhere/online", nil)
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestAuditRequiresSentinel(t *testing.T) {
	audit := &memoryAudit{}
	require.NoError(t, audit.Record(context.Background(), store.AuditEntry{ID: 2, Action: "kick", Actor: "Admin", Target: "bob"}))
	require.NoError(t, audit.Record(context.Background(), store.AuditEntry{ID: 1, Action: "clear", Actor: "Admin"}))
	router := newTestRouter(t, audit, nil)

	rec := doRequest(router, stdhttp.MethodGet, "/api/audit", nil)
	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	rec = doRequest(router, stdhttp.MethodGet, "/api/audit", map[string]string{HeaderAdminSentinel: "guess"})
	require.Equal(t, stdhttp.StatusForbidden, rec.Code)

	rec = doRequest(router, stdhttp.MethodGet, "/api/audit?limit=zero", map[string]string{HeaderAdminSentinel: testSentinel})
	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	rec = doRequest(router, stdhttp.MethodGet, "/api/audit?limit=1", map[string]string{HeaderAdminSentinel: testSentinel})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	var body AuditResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Entries, 1)
	require.Equal(t, "kick", body.Entries[0].Action)
}

func TestAuditEmptyIsArray(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rec := doRequest(router, stdhttp.MethodGet, "/api/audit", map[string]string{HeaderAdminSentinel: testSentinel})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	require.JSONEq(t, `{"entries":[]}`, rec.Body.String())
}

func TestMetricsRouteMountedWhenProvided(t *testing.T) {
	router := newTestRouter(t, nil, nil)
	rec := doRequest(router, stdhttp.MethodGet, "/metrics", nil)
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)

	metrics := stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		_, _ = w.Write([]byte("darkrelay_connections 0\n"))
	})
	router = newTestRouter(t, nil, metrics)
	rec = doRequest(router, stdhttp.MethodGet, "/metrics", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "darkrelay_connections")
}
