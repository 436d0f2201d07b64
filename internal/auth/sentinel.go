// Package auth decides whether a registration claims the privileged identity.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrSentinelConflict = errors.New("admin.sentinel and admin.sentinel_hash are mutually exclusive")

// Sentinel matches registration names against the configured privileged
// marker. A zero Sentinel matches nothing.
type Sentinel struct {
	plain []byte
	hash  []byte
}

// NewSentinel accepts either a plaintext marker or a bcrypt hash of it.
// Both empty disables the privileged identity.
func NewSentinel(plain, hash string) (*Sentinel, error) {
	plain = strings.TrimSpace(plain)
	hash = strings.TrimSpace(hash)
	switch {
	case plain != "" && hash != "":
		return nil, ErrSentinelConflict
	case hash != "":
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("admin.sentinel_hash: %w", err)
		}
		return &Sentinel{hash: []byte(hash)}, nil
	case plain != "":
		return &Sentinel{plain: []byte(plain)}, nil
	default:
		return &Sentinel{}, nil
	}
}

// Enabled reports whether any marker is configured.
func (s *Sentinel) Enabled() bool {
	return s != nil && (len(s.plain) > 0 || len(s.hash) > 0)
}

// Match reports whether candidate, trimmed, is the privileged marker.
func (s *Sentinel) Match(candidate string) bool {
	if !s.Enabled() {
		return false
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}
	if len(s.hash) > 0 {
		return compareSentinel(s.hash, candidate)
	}
	return subtle.ConstantTimeCompare(s.plain, []byte(candidate)) == 1
}
