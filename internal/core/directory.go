package core

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	minChannelName    = 2
	maxChannelName    = 20
	customChannelIcon = "#"
)

type builtinChannel struct {
	name string
	icon string
}

// builtinChannels are always valid, listed first in this order.
var builtinChannels = []builtinChannel{
	{name: "general", icon: "💬"},
	{name: "gaming", icon: "🎮"},
	{name: "music", icon: "🎵"},
	{name: "tech", icon: "💻"},
	{name: "random", icon: "🎲"},
}

// Directory is the catalog of valid channels and their rosters.
// Channels are never removed.
type Directory struct {
	channels map[string]*Channel
	order    []string
}

// NewDirectory seeds the built-in channels.
func NewDirectory(now time.Time) *Directory {
	d := &Directory{channels: make(map[string]*Channel, len(builtinChannels))}
	for _, b := range builtinChannels {
		d.add(NewChannel(b.name, b.icon, true, "", now))
	}
	return d
}

func (d *Directory) add(ch *Channel) {
	d.channels[ch.Name] = ch
	d.order = append(d.order, ch.Name)
}

// Lookup returns the channel with the exact canonical name.
func (d *Directory) Lookup(name string) (*Channel, bool) {
	ch, ok := d.channels[name]
	return ch, ok
}

// Create claims a new custom channel. The raw name is normalized first and
// the canonical channel is returned.
func (d *Directory) Create(raw, creator string, at time.Time) (*Channel, error) {
	name := NormalizeChannelName(raw)
	if n := utf8.RuneCountInString(name); n < minChannelName || n > maxChannelName {
		return nil, fmt.Errorf("create %q: %w", raw, ErrInvalidChannelName)
	}
	if _, exists := d.channels[name]; exists {
		return nil, fmt.Errorf("create %q: %w", name, ErrChannelExists)
	}
	ch := NewChannel(name, customChannelIcon, false, creator, at)
	d.add(ch)
	return ch, nil
}

// List returns built-ins in canonical order followed by custom channels in
// creation order, with online counts computed now.
func (d *Directory) List() []ChannelInfo {
	return lo.Map(d.order, func(name string, _ int) ChannelInfo {
		return d.channels[name].Info()
	})
}

// Len returns the number of known channels.
func (d *Directory) Len() int {
	return len(d.order)
}

// NormalizeChannelName lowercases the name, turns whitespace runs into a
// single dash and drops every character outside [a-z0-9-].
func NormalizeChannelName(raw string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case unicode.IsSpace(r):
			pendingDash = true
			continue
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "-")
}
