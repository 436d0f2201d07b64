package proto

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	ProtocolVersion = 1

	InboundTypeRegister           = "register-identity"
	InboundTypeListChannels       = "list-channels"
	InboundTypeCreateChannel      = "create-channel"
	InboundTypeListOnline         = "list-online"
	InboundTypeJoinChannel        = "join-channel"
	InboundTypeLeaveChannel       = "leave-channel"
	InboundTypeUpdateAvatar       = "update-avatar"
	InboundTypeGetProfile         = "get-profile"
	InboundTypeUpdateProfile      = "update-profile"
	InboundTypeSendMessage        = "send-message"
	InboundTypeSignalOffer        = "signal-offer"
	InboundTypeSignalAnswer       = "signal-answer"
	InboundTypeSignalICECandidate = "signal-ice-candidate"
	InboundTypeSignalCallInvite   = "signal-call-invite"
	InboundTypeSignalCallResponse = "signal-call-response"
	InboundTypeSignalCallEnd      = "signal-call-end"
	InboundTypePing               = "ping"

	OutboundTypeAck   = "ack"
	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventChatMessage        = "chat-message"
	EventRosterUpdated      = "roster-updated"
	EventChannelListUpdated = "channel-list-updated"
	EventChannelCreated     = "channel-created"
	EventChannelCleared     = "channel-cleared"
	EventKicked             = "kicked"
	EventPong               = "pong"
)

var errEmptyPayload = errors.New("empty payload")

// RegisterData is either a bare JSON string (the name) or an object.
type RegisterData struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

func (d *RegisterData) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		*d = RegisterData{}
		return json.Unmarshal(b, &d.Name)
	}
	type plain RegisterData
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = RegisterData(p)
	return nil
}

// ChannelRef names a channel either as a bare string or as an object with
// a channel or name field.
type ChannelRef struct {
	Channel string `json:"channel"`
}

func (r *ChannelRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return errEmptyPayload
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &r.Channel)
	}
	var obj struct {
		Channel string `json:"channel"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	r.Channel = obj.Channel
	if r.Channel == "" {
		r.Channel = obj.Name
	}
	return nil
}

// ProfileRef selects a profile by connection id. Empty means the caller.
type ProfileRef struct {
	ID string `json:"id"`
}

func (r *ProfileRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	type plain ProfileRef
	return json.Unmarshal(b, (*plain)(r))
}

// AvatarData replaces the caller's avatar.
type AvatarData struct {
	Avatar string `json:"avatar"`
}

// MediaData is an encoded media blob.
type MediaData struct {
	MIME string `json:"mime"`
	Data string `json:"data"`
}

// SendData is a chat message from the client.
type SendData struct {
	Channel string     `json:"channel"`
	Text    string     `json:"text,omitempty"`
	Media   *MediaData `json:"media,omitempty"`
	Avatar  string     `json:"avatar,omitempty"`
}

// SignalData addresses one connection with an opaque payload.
type SignalData struct {
	Target  string          `json:"target"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// AckData answers one request. Only the fields relevant to the command
// are set.
type AckData struct {
	Success      bool          `json:"success"`
	Code         string        `json:"code,omitempty"`
	Message      string        `json:"message,omitempty"`
	Name         string        `json:"name,omitempty"`
	IsPrivileged bool          `json:"isPrivileged,omitempty"`
	Profile      *Profile      `json:"profile,omitempty"`
	Channels     []ChannelInfo `json:"channels,omitempty"`
	Channel      string        `json:"channel,omitempty"`
	Users        []RosterUser  `json:"users,omitempty"`
}

// ChatMessage is a chat, system, announcement or media message.
type ChatMessage struct {
	ID             string `json:"id"`
	Channel        string `json:"channel"`
	User           string `json:"user"`
	Avatar         string `json:"avatar,omitempty"`
	Message        string `json:"message,omitempty"`
	Kind           string `json:"kind"`
	MIME           string `json:"mime,omitempty"`
	Data           string `json:"data,omitempty"`
	IsPrivileged   bool   `json:"isPrivileged,omitempty"`
	IsSystem       bool   `json:"isSystem,omitempty"`
	IsAnnouncement bool   `json:"isAnnouncement,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// Profile is the public view of a connection's profile.
type Profile struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"displayName"`
	Avatar        string   `json:"avatar,omitempty"`
	Bio           string   `json:"bio,omitempty"`
	CustomStatus  string   `json:"customStatus,omitempty"`
	Pronouns      string   `json:"pronouns,omitempty"`
	Location      string   `json:"location,omitempty"`
	Website       string   `json:"website,omitempty"`
	Birthday      string   `json:"birthday,omitempty"`
	FavoriteColor string   `json:"favoriteColor,omitempty"`
	Theme         string   `json:"theme,omitempty"`
	Badges        []string `json:"badges,omitempty"`
	JoinedAt      int64    `json:"joinedAt"`
}

// RosterUser is one member of a channel roster.
type RosterUser struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Avatar       string  `json:"avatar,omitempty"`
	IsPrivileged bool    `json:"isPrivileged,omitempty"`
	Profile      Profile `json:"profile"`
}

// RosterUpdated carries a full roster snapshot.
type RosterUpdated struct {
	Channel string       `json:"channel"`
	Users   []RosterUser `json:"users"`
}

// ChannelInfo is one catalog entry.
type ChannelInfo struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Builtin   bool   `json:"builtin"`
	Creator   string `json:"creator,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	Online    int    `json:"online"`
}

// ChannelList carries the full catalog.
type ChannelList struct {
	Channels []ChannelInfo `json:"channels"`
}

// ChannelCleared tells members to wipe their view of a channel.
type ChannelCleared struct {
	Channel string `json:"channel"`
}

// Kicked precedes a forced disconnect.
type Kicked struct {
	Channel string `json:"channel,omitempty"`
	Reason  string `json:"reason"`
}

// Signal is a forwarded call-signaling payload.
type Signal struct {
	From     string          `json:"from"`
	FromName string          `json:"fromName"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Pong answers ping.
type Pong struct {
	Protocol int   `json:"protocol"`
	TS       int64 `json:"ts"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
