package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventAck answers a command that carried a request id.
	EventAck EventKind = iota
	// EventChatMessage carries a chat, system or announcement message.
	EventChatMessage
	// EventRosterUpdated carries the current roster of a channel.
	EventRosterUpdated
	// EventChannelListUpdated carries the full channel catalog.
	EventChannelListUpdated
	// EventChannelCreated announces a new custom channel to everyone.
	EventChannelCreated
	// EventChannelCleared tells channel members to wipe their message view.
	EventChannelCleared
	// EventKicked tells a connection why it is about to be disconnected.
	EventKicked
	// EventSignal forwards a call-signaling payload.
	EventSignal
	// EventError notifies the caller about a scoped failure.
	EventError
)

// Event is sent to clients to describe what happened in the system.
// A single Event value may be shared by many recipients and must not be
// mutated after it is emitted.
type Event struct {
	Kind      EventKind
	RequestID string
	Channel   string
	Message   *Message
	Roster    []RosterEntry
	Channels  []ChannelInfo
	Created   *ChannelInfo
	Reason    string
	Signal    *SignalEvent
	Ack       *Ack
	Error     *CoreError
}

// Ack is the reply to one command. Error is set on failure; the other
// fields depend on Command.
type Ack struct {
	Command      CommandKind
	Error        *CoreError
	Registration *RegistrationResult
	Channels     []ChannelInfo
	ChannelName  string
	Roster       []RosterEntry
	Profile      *Profile
}

// OK reports whether the acknowledged command succeeded.
func (a *Ack) OK() bool {
	return a.Error == nil
}

// RegistrationResult describes a successful registration.
type RegistrationResult struct {
	Name       string
	Privileged bool
	Profile    Profile
}

// RosterEntry is one member of a channel roster.
type RosterEntry struct {
	ConnectionID string
	Name         string
	Avatar       string
	Privileged   bool
	Profile      Profile
}

// SignalEvent is a forwarded call-signaling payload.
type SignalEvent struct {
	Kind     SignalKind
	From     string
	FromName string
	Payload  json.RawMessage
}
