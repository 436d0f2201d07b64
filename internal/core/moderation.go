package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vovakirdan/darkrelay/internal/store"
)

// ModerationVerb is a privileged in-band command.
type ModerationVerb string

const (
	VerbKick     ModerationVerb = "kick"
	VerbBan      ModerationVerb = "ban"
	VerbAnnounce ModerationVerb = "announce"
	VerbClear    ModerationVerb = "clear"
	VerbUnknown  ModerationVerb = "unknown"
)

const (
	kickReason = "You have been kicked by an admin"
	banReason  = "You have been banned by an admin"

	moderationHelp = "Available commands: /kick <name>, /ban <name>, /announce <text>, /clear"
)

// ModerationAction is a parsed moderation command.
type ModerationAction struct {
	Verb ModerationVerb
	Arg  string
}

// ParseModeration splits text on whitespace and recognizes the verb case
// insensitively. Malformed usage parses as VerbUnknown.
func ParseModeration(text string) ModerationAction {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ModerationAction{Verb: VerbUnknown}
	}
	rest := strings.Join(fields[1:], " ")

	switch strings.ToLower(fields[0]) {
	case "/kick":
		if rest != "" {
			return ModerationAction{Verb: VerbKick, Arg: rest}
		}
	case "/ban":
		if rest != "" {
			return ModerationAction{Verb: VerbBan, Arg: rest}
		}
	case "/announce":
		if rest != "" {
			return ModerationAction{Verb: VerbAnnounce, Arg: rest}
		}
	case "/clear":
		return ModerationAction{Verb: VerbClear}
	}
	return ModerationAction{Verb: VerbUnknown}
}

// moderate executes a command issued by a privileged member of ch.
func (h *Hub) moderate(admin *Client, ch *Channel, text string) {
	action := ParseModeration(text)

	switch action.Verb {
	case VerbKick, VerbBan:
		target, ok := h.identities.Lookup(action.Arg)
		if !ok {
			return
		}
		reason, verbPast := kickReason, "kicked"
		if action.Verb == VerbBan {
			reason, verbPast = banReason, "banned"
		}
		h.send(target, &Event{Kind: EventKicked, Channel: ch.Name, Reason: reason})
		h.broadcastChannel(ch, &Event{
			Kind:    EventChatMessage,
			Channel: ch.Name,
			Message: h.systemMessage(ch.Name, fmt.Sprintf("%s was %s by %s", target.Name, verbPast, admin.Name)),
		})
		h.log.Info().
			Str("admin", admin.Name).
			Str("target", target.Name).
			Str("channel", ch.Name).
			Str("action", string(action.Verb)).
			Msg("moderation removed connection")
		h.recordAudit(string(action.Verb), admin.Name, target.Name, ch.Name, reason)
		h.forceDisconnect(target)
	case VerbAnnounce:
		h.broadcastChannel(ch, &Event{
			Kind:    EventChatMessage,
			Channel: ch.Name,
			Message: &Message{
				ID:           uuid.NewString(),
				Channel:      ch.Name,
				From:         AnnouncementSender,
				Kind:         MessageText,
				Text:         action.Arg,
				Privileged:   true,
				Announcement: true,
				CreatedAt:    h.now(),
			},
		})
		h.recordAudit(string(action.Verb), admin.Name, "", ch.Name, action.Arg)
	case VerbClear:
		h.broadcastChannel(ch, &Event{Kind: EventChannelCleared, Channel: ch.Name})
		h.recordAudit(string(action.Verb), admin.Name, "", ch.Name, "")
	default:
		h.send(admin, &Event{
			Kind:    EventChatMessage,
			Channel: ch.Name,
			Message: h.systemMessage(ch.Name, moderationHelp),
		})
		return
	}
	h.observer.ModerationAction(string(action.Verb))
}

func (h *Hub) recordAudit(action, actor, target, channel, detail string) {
	entry := store.AuditEntry{
		Action:    action,
		Actor:     actor,
		Target:    target,
		Channel:   channel,
		Detail:    detail,
		CreatedAt: h.now(),
	}
	if err := h.audit.Record(h.ctx, entry); err != nil {
		h.log.Warn().Err(err).Str("action", action).Msg("audit record failed")
	}
}
