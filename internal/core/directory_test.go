package core

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNormalizeChannelName(t *testing.T) {
	cases := map[string]string{
		"My Room!!":        "my-room",
		"MY ROOM":          "my-room",
		"  spaced   out  ": "spaced-out",
		"dev--ops":         "dev--ops",
		"-edge-":           "edge",
		"émoji 🎉 party":    "moji-party",
		"!!":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeChannelName(in), "input %q", in)
	}
}

func TestDirectoryBuiltinsFirst(t *testing.T) {
	now := time.Unix(1700000000, 0)
	d := NewDirectory(now)

	_, err := d.Create("zeta", "alice", now)
	require.NoError(t, err)
	_, err = d.Create("alpha", "bob", now)
	require.NoError(t, err)

	names := make([]string, 0, d.Len())
	for _, info := range d.List() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"general", "gaming", "music", "tech", "random", "zeta", "alpha"}, names)

	general, ok := d.Lookup("general")
	require.True(t, ok)
	assert.True(t, general.Builtin)
	assert.Equal(t, "💬", general.Icon)

	_, err = d.Create("General", "carol", now)
	assert.ErrorIs(t, err, ErrChannelExists)

	_, ok = d.Lookup("General")
	assert.False(t, ok, "lookup is exact")
}

func TestDirectoryCreateLengthBounds(t *testing.T) {
	d := NewDirectory(time.Now())

	_, err := d.Create("a", "x", time.Now())
	assert.ErrorIs(t, err, ErrInvalidChannelName)

	_, err = d.Create(strings.Repeat("a", 21), "x", time.Now())
	assert.ErrorIs(t, err, ErrInvalidChannelName)

	ch, err := d.Create(strings.Repeat("a", 20), "x", time.Now())
	require.NoError(t, err)
	assert.Equal(t, customChannelIcon, ch.Icon)
	assert.Equal(t, "x", ch.Creator)
}

func TestNormalizeChannelNameProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")
		name := NormalizeChannelName(raw)

		for _, r := range name {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				t.Fatalf("normalized %q contains %q", name, r)
			}
		}
		if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
			t.Fatalf("normalized %q has edge dash", name)
		}
		if again := NormalizeChannelName(name); again != name {
			t.Fatalf("not idempotent: %q -> %q", name, again)
		}
	})
}

func TestDirectoryCreateProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := NewDirectory(time.Now())
		seen := map[string]bool{}
		for _, b := range builtinChannels {
			seen[b.name] = true
		}

		raws := rapid.SliceOf(rapid.StringMatching(`[A-Za-z0-9 !-]{0,24}`)).Draw(t, "raws")
		for _, raw := range raws {
			name := NormalizeChannelName(raw)
			ch, err := d.Create(raw, "creator", time.Now())
			n := utf8.RuneCountInString(name)
			switch {
			case n < minChannelName || n > maxChannelName:
				if err == nil {
					t.Fatalf("%q accepted with invalid length", raw)
				}
			case seen[name]:
				if err == nil {
					t.Fatalf("%q created twice", name)
				}
			default:
				if err != nil || ch.Name != name {
					t.Fatalf("create %q: %v", raw, err)
				}
				seen[name] = true
			}
		}
		if d.Len() != len(seen) {
			t.Fatalf("directory has %d channels, expected %d", d.Len(), len(seen))
		}
	})
}
