package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, path, resolved)
	require.Equal(t, Default().Addr, cfg.Addr)
	require.Equal(t, 5<<20, cfg.Media.MaxBytes)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "max_message_bytes")
	require.Contains(t, string(data), "censor_char")
}

func TestDefaultShipsWithoutSentinel(t *testing.T) {
	cfg, _, err := Load(nil, filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.Empty(t, cfg.Admin.Sentinel)
	require.Empty(t, cfg.Admin.SentinelHash)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
addr: ":9000"
shutdown_timeout: 9s
log:
  level: debug
moderation:
  censored_words: [spam, scam]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("DARKRELAY_ADDR", ":9100")
	t.Setenv("DARKRELAY_ADMIN_SENTINEL", "open-sesame")
	t.Setenv("DARKRELAY_ALLOWED_ORIGINS", "example.com,*.example.org")

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, ":9100", cfg.Addr)
	require.Equal(t, 9*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "open-sesame", cfg.Admin.Sentinel)
	require.Equal(t, []string{"spam", "scam"}, cfg.Moderation.CensoredWords)
	require.Equal(t, []string{"example.com", "*.example.org"}, cfg.AllowedOrigins)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_message_bytes: 1024\n"), 0o600))

	_, _, err := Load(nil, path)
	require.ErrorContains(t, err, "max_message_bytes")
}

func TestUpdateFrom(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Addr: ":7000", Log: LogConfig{Level: "warn"}})

	require.Equal(t, ":7000", cfg.Addr)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
	require.Equal(t, Default().ShutdownTimeout, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Admin = AdminConfig{Sentinel: "a", SentinelHash: "b"}
	require.Error(t, bad.Validate())

	bad = cfg
	bad.Log.Format = "xml"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.EventBuffer = 0
	require.Error(t, bad.Validate())
}

func TestCensorRune(t *testing.T) {
	cfg := Default()
	require.Equal(t, '*', cfg.CensorRune())

	cfg.Moderation.CensorChar = "█x"
	require.Equal(t, '█', cfg.CensorRune())

	cfg.Moderation.CensorChar = ""
	require.Equal(t, '*', cfg.CensorRune())
}
