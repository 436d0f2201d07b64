package core

import (
	"strings"

	"github.com/google/uuid"
)

// MaxMessageRunes caps chat text length server-side.
const MaxMessageRunes = 2000

// route validates a send-message command and fans it out to channel
// members. Precondition failures drop the message silently; media
// validation failures are reported to the sender only.
func (h *Hub) route(c *Client, cmd *Command) {
	if !c.Registered() {
		return
	}
	ch, ok := h.directory.Lookup(cmd.Channel)
	if !ok || !ch.Has(c) {
		return
	}

	avatar := cmd.Avatar
	if avatar == "" {
		avatar = c.Avatar
	}
	msg := &Message{
		ID:         uuid.NewString(),
		Channel:    ch.Name,
		From:       c.Name,
		Avatar:     avatar,
		Privileged: c.Privileged,
		CreatedAt:  h.now(),
	}

	if cmd.Media != nil {
		kind, mime, err := h.media.Validate(*cmd.Media)
		if err != nil {
			h.log.Debug().Err(err).Str("client_id", c.ID).Str("channel", ch.Name).Msg("media rejected")
			h.send(c, &Event{Kind: EventError, RequestID: cmd.RequestID, Channel: ch.Name, Error: toCoreError(err)})
			return
		}
		msg.Kind = kind
		msg.MIME = mime
		msg.Data = cmd.Media.Data
		h.publish(ch, msg)
		return
	}

	text := truncateRunes(strings.TrimSpace(cmd.Text), MaxMessageRunes)
	if text == "" {
		return
	}
	if c.Privileged && strings.HasPrefix(text, "/") {
		h.moderate(c, ch, text)
		return
	}
	if h.filter != nil {
		text = h.filter.Censor(text)
	}
	msg.Kind = MessageText
	msg.Text = text
	h.publish(ch, msg)
}

func (h *Hub) publish(ch *Channel, msg *Message) {
	h.broadcastChannel(ch, &Event{Kind: EventChatMessage, Channel: ch.Name, Message: msg})
	h.observer.MessageBroadcast(string(msg.Kind))
}

func truncateRunes(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
