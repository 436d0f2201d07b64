package config

import (
	"encoding/base64"
	"fmt"
	"time"
	"unicode/utf8"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// MaxMessageBytes is the websocket read limit. It must fit an encoded
	// media payload plus its envelope.
	MaxMessageBytes int64    `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	EventBuffer     int      `mapstructure:"event_buffer" yaml:"event_buffer"`
	AllowedOrigins  []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Admin      AdminConfig      `mapstructure:"admin" yaml:"admin"`
	Media      MediaConfig      `mapstructure:"media" yaml:"media"`
	Moderation ModerationConfig `mapstructure:"moderation" yaml:"moderation"`
	Audit      AuditConfig      `mapstructure:"audit" yaml:"audit"`
	Metrics    MetricsConfig    `mapstructure:"metrics" yaml:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AdminConfig holds the privileged registration marker. Set at most one.
// There is no built-in marker: with both empty nobody is privileged.
type AdminConfig struct {
	Sentinel     string `mapstructure:"sentinel" yaml:"sentinel"`
	SentinelHash string `mapstructure:"sentinel_hash" yaml:"sentinel_hash"`
}

type MediaConfig struct {
	MaxBytes int `mapstructure:"max_bytes" yaml:"max_bytes"`
}

type ModerationConfig struct {
	CensoredWords []string `mapstructure:"censored_words" yaml:"censored_words"`
	CensorChar    string   `mapstructure:"censor_char" yaml:"censor_char"`
}

// AuditConfig points at the sqlite journal. An empty path disables it.
type AuditConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		MaxMessageBytes:   8 << 20,
		EventBuffer:       64,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Media: MediaConfig{
			MaxBytes: 5 << 20,
		},
		Moderation: ModerationConfig{
			CensorChar: "*",
		},
		Audit: AuditConfig{
			Path: "darkrelay-audit.db",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.EventBuffer != 0 {
		c.EventBuffer = other.EventBuffer
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
	if other.Admin.Sentinel != "" {
		c.Admin.Sentinel = other.Admin.Sentinel
	}
	if other.Admin.SentinelHash != "" {
		c.Admin.SentinelHash = other.Admin.SentinelHash
	}
	if other.Media.MaxBytes != 0 {
		c.Media.MaxBytes = other.Media.MaxBytes
	}
	if len(other.Moderation.CensoredWords) > 0 {
		c.Moderation.CensoredWords = other.Moderation.CensoredWords
	}
	if other.Moderation.CensorChar != "" {
		c.Moderation.CensorChar = other.Moderation.CensorChar
	}
	if other.Audit.Path != "" {
		c.Audit.Path = other.Audit.Path
	}
}

// CensorRune returns the first rune of CensorChar, or '*'.
func (c Config) CensorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Moderation.CensorChar)
	if r == utf8.RuneError {
		return '*'
	}
	return r
}

// Validate rejects combinations the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("event_buffer must be positive, got %d", c.EventBuffer)
	}
	if c.Media.MaxBytes <= 0 {
		return fmt.Errorf("media.max_bytes must be positive, got %d", c.Media.MaxBytes)
	}
	if need := int64(base64.StdEncoding.EncodedLen(c.Media.MaxBytes)); c.MaxMessageBytes <= need {
		return fmt.Errorf("max_message_bytes (%d) must exceed encoded media ceiling (%d)", c.MaxMessageBytes, need)
	}
	if c.Admin.Sentinel != "" && c.Admin.SentinelHash != "" {
		return fmt.Errorf("admin.sentinel and admin.sentinel_hash are mutually exclusive")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
