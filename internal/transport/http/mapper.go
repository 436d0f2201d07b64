package http

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/vovakirdan/darkrelay/internal/core"
	"github.com/vovakirdan/darkrelay/internal/proto"
)

const errCodeInvalidMessage = "invalid_message"

var signalKinds = map[string]core.SignalKind{
	proto.InboundTypeSignalOffer:        core.SignalOffer,
	proto.InboundTypeSignalAnswer:       core.SignalAnswer,
	proto.InboundTypeSignalICECandidate: core.SignalICECandidate,
	proto.InboundTypeSignalCallInvite:   core.SignalCallInvite,
	proto.InboundTypeSignalCallResponse: core.SignalCallResponse,
	proto.InboundTypeSignalCallEnd:      core.SignalCallEnd,
}

// Matcher decides whether a registration name is the privileged marker.
type Matcher interface {
	Match(candidate string) bool
}

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: msg}
}

// inboundToCommand validates the envelope and normalizes it into one core
// command. Malformed input yields a protocol error for the caller only.
func inboundToCommand(inbound proto.Inbound, sentinel Matcher) (*core.Command, *proto.Error) {
	cmd := &core.Command{RequestID: inbound.ID}

	decode := func(dst any) *proto.Error {
		if len(inbound.Data) == 0 {
			return badRequest("data is required")
		}
		if err := json.Unmarshal(inbound.Data, dst); err != nil {
			return badRequest("malformed data: " + err.Error())
		}
		return nil
	}
	channelCommand := func(kind core.CommandKind) (*core.Command, *proto.Error) {
		var ref proto.ChannelRef
		if perr := decode(&ref); perr != nil {
			return nil, perr
		}
		if ref.Channel == "" {
			return nil, badRequest("channel is required")
		}
		cmd.Kind = kind
		cmd.Channel = ref.Channel
		return cmd, nil
	}

	switch inbound.Type {
	case proto.InboundTypeRegister:
		var reg proto.RegisterData
		if perr := decode(&reg); perr != nil {
			return nil, perr
		}
		cmd.Kind = core.CommandRegister
		cmd.Registration = core.RegistrationRequest{
			Name:       reg.Name,
			Avatar:     reg.Avatar,
			Privileged: sentinel != nil && sentinel.Match(reg.Name),
		}
		return cmd, nil
	case proto.InboundTypeListChannels:
		cmd.Kind = core.CommandListChannels
		return cmd, nil
	case proto.InboundTypeCreateChannel:
		return channelCommand(core.CommandCreateChannel)
	case proto.InboundTypeListOnline:
		return channelCommand(core.CommandListOnline)
	case proto.InboundTypeJoinChannel:
		return channelCommand(core.CommandJoinChannel)
	case proto.InboundTypeLeaveChannel:
		return channelCommand(core.CommandLeaveChannel)
	case proto.InboundTypeUpdateAvatar:
		var data proto.AvatarData
		if perr := decode(&data); perr != nil {
			return nil, perr
		}
		cmd.Kind = core.CommandUpdateAvatar
		cmd.Avatar = data.Avatar
		return cmd, nil
	case proto.InboundTypeGetProfile:
		var ref proto.ProfileRef
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &ref); err != nil {
				return nil, badRequest("malformed data: " + err.Error())
			}
		}
		cmd.Kind = core.CommandGetProfile
		cmd.Target = ref.ID
		return cmd, nil
	case proto.InboundTypeUpdateProfile:
		if perr := decode(&cmd.Profile); perr != nil {
			return nil, perr
		}
		cmd.Kind = core.CommandUpdateProfile
		return cmd, nil
	case proto.InboundTypeSendMessage:
		var data proto.SendData
		if perr := decode(&data); perr != nil {
			return nil, perr
		}
		if data.Channel == "" {
			return nil, badRequest("channel is required")
		}
		cmd.Kind = core.CommandSendMessage
		cmd.Channel = data.Channel
		cmd.Text = data.Text
		cmd.Avatar = data.Avatar
		if data.Media != nil {
			cmd.Media = &core.MediaPayload{MIME: data.Media.MIME, Data: data.Media.Data}
		}
		return cmd, nil
	default:
		if kind, ok := signalKinds[inbound.Type]; ok {
			var data proto.SignalData
			if perr := decode(&data); perr != nil {
				return nil, perr
			}
			if data.Target == "" {
				return nil, badRequest("target is required")
			}
			cmd.Kind = core.CommandSignal
			cmd.Signal = kind
			cmd.Target = data.Target
			cmd.Payload = data.Payload
			return cmd, nil
		}
		return nil, &proto.Error{Code: errCodeInvalidMessage, Msg: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventAck:
		return proto.Outbound{
			Type:  proto.OutboundTypeAck,
			ID:    event.RequestID,
			Event: event.Ack.Command.String(),
			Data:  ackData(event.Ack),
		}
	case core.EventChatMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChatMessage,
			Data:  chatMessageDTO(event.Message),
		}
	case core.EventRosterUpdated:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRosterUpdated,
			Data: proto.RosterUpdated{
				Channel: event.Channel,
				Users:   rosterDTO(event.Roster),
			},
		}
	case core.EventChannelListUpdated:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChannelListUpdated,
			Data:  proto.ChannelList{Channels: channelsDTO(event.Channels)},
		}
	case core.EventChannelCreated:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChannelCreated,
			Data:  channelDTO(*event.Created),
		}
	case core.EventChannelCleared:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChannelCleared,
			Data:  proto.ChannelCleared{Channel: event.Channel},
		}
	case core.EventKicked:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventKicked,
			Data:  proto.Kicked{Channel: event.Channel, Reason: event.Reason},
		}
	case core.EventSignal:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: event.Signal.Kind.String(),
			Data: proto.Signal{
				From:     event.Signal.From,
				FromName: event.Signal.FromName,
				Payload:  event.Signal.Payload,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, ID: event.RequestID, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			ID:    event.RequestID,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func ackData(ack *core.Ack) proto.AckData {
	if !ack.OK() {
		return proto.AckData{Success: false, Code: ack.Error.Code, Message: ack.Error.Message}
	}
	data := proto.AckData{Success: true}
	switch ack.Command {
	case core.CommandRegister:
		data.Name = ack.Registration.Name
		data.IsPrivileged = ack.Registration.Privileged
		p := profileDTO(ack.Registration.Profile)
		data.Profile = &p
	case core.CommandListChannels:
		data.Channels = channelsDTO(ack.Channels)
	case core.CommandCreateChannel:
		data.Channel = ack.ChannelName
	case core.CommandListOnline:
		data.Users = rosterDTO(ack.Roster)
	case core.CommandGetProfile, core.CommandUpdateProfile:
		if ack.Profile != nil {
			p := profileDTO(*ack.Profile)
			data.Profile = &p
		}
	}
	return data
}

func chatMessageDTO(m *core.Message) proto.ChatMessage {
	return proto.ChatMessage{
		ID:             m.ID,
		Channel:        m.Channel,
		User:           m.From,
		Avatar:         m.Avatar,
		Message:        m.Text,
		Kind:           string(m.Kind),
		MIME:           m.MIME,
		Data:           m.Data,
		IsPrivileged:   m.Privileged,
		IsSystem:       m.System,
		IsAnnouncement: m.Announcement,
		Timestamp:      m.CreatedAt.UnixMilli(),
	}
}

func profileDTO(p core.Profile) proto.Profile {
	return proto.Profile{
		ID:            p.ConnectionID,
		DisplayName:   p.DisplayName,
		Avatar:        p.Avatar,
		Bio:           p.Bio,
		CustomStatus:  p.CustomStatus,
		Pronouns:      p.Pronouns,
		Location:      p.Location,
		Website:       p.Website,
		Birthday:      p.Birthday,
		FavoriteColor: p.FavoriteColor,
		Theme:         p.Theme,
		Badges:        p.Badges,
		JoinedAt:      p.JoinedAt.UnixMilli(),
	}
}

func rosterDTO(entries []core.RosterEntry) []proto.RosterUser {
	users := make([]proto.RosterUser, 0, len(entries))
	for _, e := range entries {
		users = append(users, proto.RosterUser{
			ID:           e.ConnectionID,
			Name:         e.Name,
			Avatar:       e.Avatar,
			IsPrivileged: e.Privileged,
			Profile:      profileDTO(e.Profile),
		})
	}
	return users
}

func channelDTO(ch core.ChannelInfo) proto.ChannelInfo {
	return proto.ChannelInfo{
		Name:      ch.Name,
		Icon:      ch.Icon,
		Builtin:   ch.Builtin,
		Creator:   ch.Creator,
		CreatedAt: ch.CreatedAt.UnixMilli(),
		Online:    ch.Online,
	}
}

func channelsDTO(channels []core.ChannelInfo) []proto.ChannelInfo {
	return lo.Map(channels, func(ch core.ChannelInfo, _ int) proto.ChannelInfo {
		return channelDTO(ch)
	})
}
