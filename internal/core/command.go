package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandRegister claims a display name for the connection.
	CommandRegister CommandKind = iota
	// CommandListChannels asks for the channel catalog.
	CommandListChannels
	// CommandCreateChannel adds a custom channel to the directory.
	CommandCreateChannel
	// CommandListOnline asks for the roster of one channel.
	CommandListOnline
	// CommandJoinChannel subscribes the client to a channel.
	CommandJoinChannel
	// CommandLeaveChannel unsubscribes the client from a channel.
	CommandLeaveChannel
	// CommandUpdateAvatar replaces the avatar reference silently.
	CommandUpdateAvatar
	// CommandGetProfile looks up a profile by connection id.
	CommandGetProfile
	// CommandUpdateProfile applies a profile patch.
	CommandUpdateProfile
	// CommandSendMessage delivers text or media to channel members.
	CommandSendMessage
	// CommandSignal forwards a call-signaling payload to one connection.
	CommandSignal
)

var commandNames = map[CommandKind]string{
	CommandRegister:      "register-identity",
	CommandListChannels:  "list-channels",
	CommandCreateChannel: "create-channel",
	CommandListOnline:    "list-online",
	CommandJoinChannel:   "join-channel",
	CommandLeaveChannel:  "leave-channel",
	CommandUpdateAvatar:  "update-avatar",
	CommandGetProfile:    "get-profile",
	CommandUpdateProfile: "update-profile",
	CommandSendMessage:   "send-message",
	CommandSignal:        "signal",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// RegistrationRequest is the single normalized shape of a registration
// attempt. Privileged is decided at the boundary by the sentinel matcher.
type RegistrationRequest struct {
	Name       string
	Avatar     string
	Privileged bool
}

// Command represents an action requested by a client.
type Command struct {
	Kind      CommandKind
	RequestID string

	Channel      string
	Registration RegistrationRequest
	Avatar       string
	Text         string
	Media        *MediaPayload
	Profile      ProfilePatch

	// Target is a connection id for profile lookups and signaling.
	Target  string
	Signal  SignalKind
	Payload json.RawMessage
}
