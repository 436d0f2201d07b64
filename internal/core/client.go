package core

import "sync"

const (
	defaultEventBuffer   = 64
	defaultCommandBuffer = 8
)

// Client is one live connection as seen by the core layer.
// Name stays empty until registration succeeds. All fields except ID are
// owned by the hub goroutine.
type Client struct {
	ID         string
	Name       string
	Avatar     string
	Privileged bool
	Commands   chan *Command
	Events     chan *Event
	Rooms      map[string]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient constructs a client with initialized channels. A non-positive
// buffer falls back to the default event buffer size.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, defaultCommandBuffer),
		Events:   make(chan *Event, buffer),
		Rooms:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}
}

// Registered reports whether the client completed identity registration.
func (c *Client) Registered() bool {
	return c.Name != ""
}

// Done is closed when the connection must go away, either because the
// transport left or because a moderator removed it.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) disconnect() {
	c.closeOnce.Do(func() { close(c.done) })
}

// deliver queues an event without blocking. It returns false when the
// consumer is too slow and the event was dropped.
func (c *Client) deliver(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
