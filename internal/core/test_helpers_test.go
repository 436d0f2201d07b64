package core

import (
	"context"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// mustChat waits for a chat message whose text matches.
func mustChat(t *testing.T, ch <-chan *Event, text string) *Message {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == EventChatMessage && ev.Message.Text == text {
				return ev.Message
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected chat message %q not received", text)
	return nil
}

// mustAck waits for the ack of requestID.
func mustAck(t *testing.T, ch <-chan *Event, requestID string) *Ack {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == EventAck && ev.RequestID == requestID {
				return ev.Ack
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected ack %q not received", requestID)
	return nil
}

// expectQuiet fails if any event matching pred arrives within the window.
func expectQuiet(t *testing.T, ch <-chan *Event, window time.Duration, pred func(*Event) bool) {
	t.Helper()

	timer := time.NewTimer(window)
	defer timer.Stop()
	for {
		select {
		case ev := <-ch:
			if ev != nil && pred(ev) {
				t.Fatalf("unexpected event: %+v", ev)
			}
		case <-timer.C:
			return
		}
	}
}

func drain(ch <-chan *Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func startHub(t *testing.T, opts Options) (*Hub, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	hub := NewHub(opts)
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func connect(hub *Hub, id string) *Client {
	c := NewClient(id, 256)
	hub.RegisterClient(c)
	return c
}

// register connects a client and claims name, failing the test on error.
func register(t *testing.T, hub *Hub, id, name string) *Client {
	t.Helper()

	c := connect(hub, id)
	c.Commands <- &Command{Kind: CommandRegister, RequestID: "reg-" + id, Registration: RegistrationRequest{Name: name}}
	ack := mustAck(t, c.Events, "reg-"+id)
	if !ack.OK() {
		t.Fatalf("register %s: %+v", name, ack.Error)
	}
	return c
}

// joinAndSync joins channel and waits until c observes its own join.
func joinAndSync(t *testing.T, c *Client, channel string) {
	t.Helper()

	c.Commands <- &Command{Kind: CommandJoinChannel, Channel: channel}
	mustChat(t, c.Events, c.Name+" joined #"+channel)
}

func strptr(s string) *string { return &s }
