package core

import "time"

// SystemSender is the sender label of join/leave/moderation notices.
const SystemSender = "System"

// AnnouncementSender is the sender label of /announce broadcasts.
const AnnouncementSender = "📢 Announcement"

// MessageKind tells clients how to render a message body.
type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageImage MessageKind = "image"
	MessageVideo MessageKind = "video"
)

// Message is the domain model for a chat message.
type Message struct {
	ID           string
	Channel      string
	From         string
	Avatar       string
	Privileged   bool
	Kind         MessageKind
	Text         string
	MIME         string
	Data         string
	System       bool
	Announcement bool
	CreatedAt    time.Time
}
