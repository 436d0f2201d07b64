package auth

import (
	"errors"
	"testing"
)

func TestSentinelPlain(t *testing.T) {
	s, err := NewSentinel(" open-sesame ", "")
	if err != nil {
		t.Fatalf("new sentinel: %v", err)
	}
	if !s.Enabled() {
		t.Fatal("expected sentinel to be enabled")
	}
	if !s.Match("open-sesame") || !s.Match("  open-sesame\t") {
		t.Fatal("expected marker to match")
	}
	if s.Match("Open-Sesame") || s.Match("open") || s.Match("") {
		t.Fatal("unexpected match")
	}
}

func TestSentinelHash(t *testing.T) {
	hash, err := HashSentinel("open-sesame")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	s, err := NewSentinel("", hash)
	if err != nil {
		t.Fatalf("new sentinel: %v", err)
	}
	if !s.Match("open-sesame") {
		t.Fatal("expected hashed marker to match")
	}
	if s.Match(hash) || s.Match("alice") {
		t.Fatal("unexpected match")
	}
}

func TestSentinelDisabledAndInvalid(t *testing.T) {
	s, err := NewSentinel("", "")
	if err != nil {
		t.Fatalf("new sentinel: %v", err)
	}
	if s.Enabled() || s.Match("anything") {
		t.Fatal("empty sentinel must match nothing")
	}

	var nilSentinel *Sentinel
	if nilSentinel.Match("anything") {
		t.Fatal("nil sentinel must match nothing")
	}

	if _, err := NewSentinel("", "not-a-hash"); err == nil {
		t.Fatal("expected invalid hash to be rejected")
	}
	if _, err := NewSentinel("a", "b"); !errors.Is(err, ErrSentinelConflict) {
		t.Fatalf("expected ErrSentinelConflict, got %v", err)
	}
}
