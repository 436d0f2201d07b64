package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/darkrelay/internal/store"
)

const inboxSize = 256

// Options configures a Hub. Zero values select no-op collaborators.
type Options struct {
	Logger   *zerolog.Logger
	Observer Observer
	Audit    store.AuditLog
	Filter   TextFilter
	Media    MediaPolicy
	Clock    func() time.Time
}

type envelopeKind int

const (
	envConnect envelopeKind = iota
	envDisconnect
	envCommand
	envQuery
)

type envelope struct {
	kind   envelopeKind
	client *Client
	cmd    *Command
	query  func()
}

// Hub owns the identity registry, profile store and channel directory.
// Every mutation runs inside Run, one envelope at a time.
type Hub struct {
	inbox   chan envelope
	stopped chan struct{}

	clients    map[string]*Client
	identities *IdentityRegistry
	profiles   *ProfileStore
	directory  *Directory

	media    MediaPolicy
	filter   TextFilter
	audit    store.AuditLog
	observer Observer
	log      *zerolog.Logger
	now      func() time.Time
	ctx      context.Context
}

// NewHub creates a new chat hub instance with fresh registries.
func NewHub(opts Options) *Hub {
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Audit == nil {
		opts.Audit = store.NopAuditLog{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Hub{
		inbox:      make(chan envelope, inboxSize),
		stopped:    make(chan struct{}),
		clients:    make(map[string]*Client),
		identities: NewIdentityRegistry(),
		profiles:   NewProfileStore(),
		directory:  NewDirectory(opts.Clock()),
		media:      opts.Media,
		filter:     opts.Filter,
		audit:      opts.Audit,
		observer:   opts.Observer,
		log:        opts.Logger,
		now:        opts.Clock,
		ctx:        context.Background(),
	}
}

// Run processes envelopes until ctx is cancelled. On exit every live
// connection is told to go away.
func (h *Hub) Run(ctx context.Context) {
	h.ctx = ctx
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case env := <-h.inbox:
			h.dispatch(env)
		}
	}
}

// RegisterClient attaches a new connection and starts forwarding its
// commands into the hub.
func (h *Hub) RegisterClient(c *Client) {
	if !h.enqueue(envelope{kind: envConnect, client: c}) {
		c.disconnect()
		return
	}
	go h.pump(c)
}

// UnregisterClient runs disconnect cleanup for c. It is idempotent.
func (h *Hub) UnregisterClient(c *Client) {
	c.disconnect()
	h.enqueue(envelope{kind: envDisconnect, client: c})
}

// Channels returns the channel catalog.
func (h *Hub) Channels(ctx context.Context) ([]ChannelInfo, error) {
	return runQuery(ctx, h, func() []ChannelInfo {
		return h.directory.List()
	})
}

// Roster returns the roster snapshot of one channel.
func (h *Hub) Roster(ctx context.Context, channel string) ([]RosterEntry, error) {
	type result struct {
		roster []RosterEntry
		err    error
	}
	res, err := runQuery(ctx, h, func() result {
		ch, ok := h.directory.Lookup(channel)
		if !ok {
			return result{err: fmt.Errorf("roster %q: %w", channel, ErrChannelNotFound)}
		}
		return result{roster: h.roster(ch)}
	})
	if err != nil {
		return nil, err
	}
	return res.roster, res.err
}

func runQuery[T any](ctx context.Context, h *Hub, fn func() T) (T, error) {
	var zero T
	out := make(chan T, 1)
	env := envelope{kind: envQuery, query: func() { out <- fn() }}

	select {
	case h.inbox <- env:
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-h.stopped:
		return zero, ErrHubStopped
	}

	select {
	case v := <-out:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-h.stopped:
		return zero, ErrHubStopped
	}
}

func (h *Hub) enqueue(env envelope) bool {
	select {
	case h.inbox <- env:
		return true
	case <-h.stopped:
		return false
	}
}

func (h *Hub) pump(c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			if cmd == nil {
				continue
			}
			if !h.enqueue(envelope{kind: envCommand, client: c, cmd: cmd}) {
				return
			}
		case <-c.done:
			return
		case <-h.stopped:
			return
		}
	}
}

func (h *Hub) dispatch(env envelope) {
	switch env.kind {
	case envConnect:
		h.connect(env.client)
	case envDisconnect:
		h.disconnect(env.client)
	case envQuery:
		env.query()
	case envCommand:
		if h.clients[env.client.ID] != env.client {
			return
		}
		h.handleCommand(env.client, env.cmd)
	}
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandRegister:
		h.register(c, cmd)
	case CommandListChannels:
		h.ack(c, cmd, &Ack{Channels: h.directory.List()})
	case CommandCreateChannel:
		h.createChannel(c, cmd)
	case CommandListOnline:
		h.listOnline(c, cmd)
	case CommandJoinChannel:
		h.join(c, cmd.Channel)
	case CommandLeaveChannel:
		h.leave(c, cmd.Channel)
	case CommandUpdateAvatar:
		h.updateAvatar(c, cmd.Avatar)
	case CommandGetProfile:
		h.getProfile(c, cmd)
	case CommandUpdateProfile:
		h.updateProfile(c, cmd)
	case CommandSendMessage:
		h.route(c, cmd)
	case CommandSignal:
		h.relay(c, cmd)
	default:
		h.send(c, &Event{Kind: EventError, RequestID: cmd.RequestID, Error: coreError(ErrCodeBadRequest, "unknown command")})
	}
}

func (h *Hub) connect(c *Client) {
	if _, exists := h.clients[c.ID]; exists {
		c.disconnect()
		return
	}
	h.clients[c.ID] = c
	h.observer.ConnectionOpened()
	h.log.Debug().Str("client_id", c.ID).Int("connections", len(h.clients)).Msg("client connected")
}

// disconnect removes c from every channel and registry. Unknown or already
// removed clients are ignored.
func (h *Hub) disconnect(c *Client) {
	if h.clients[c.ID] != c {
		return
	}
	delete(h.clients, c.ID)
	c.disconnect()
	h.observer.ConnectionClosed()

	if !c.Registered() {
		return
	}

	left := 0
	for name := range c.Rooms {
		ch, ok := h.directory.Lookup(name)
		if !ok || !ch.RemoveClient(c) {
			continue
		}
		left++
		h.broadcastChannel(ch, &Event{
			Kind:    EventChatMessage,
			Channel: ch.Name,
			Message: h.systemMessage(ch.Name, fmt.Sprintf("%s disconnected", c.Name)),
		})
		h.broadcastRoster(ch)
	}
	clear(c.Rooms)

	if h.identities.Owns(c) {
		h.identities.Unregister(c.Name)
		h.observer.IdentityReleased()
	}
	h.profiles.Delete(c.ID)

	if left > 0 {
		h.broadcastChannelList()
	}
	h.log.Info().Str("client_id", c.ID).Str("name", c.Name).Msg("client disconnected")
}

func (h *Hub) forceDisconnect(c *Client) {
	c.disconnect()
	h.disconnect(c)
}

func (h *Hub) shutdown() {
	for _, c := range h.clients {
		c.disconnect()
	}
	h.log.Info().Int("connections", len(h.clients)).Msg("hub stopped")
}

func (h *Hub) register(c *Client, cmd *Command) {
	if c.Registered() {
		h.ack(c, cmd, &Ack{Error: toCoreError(ErrAlreadyRegistered)})
		return
	}
	name, err := ResolveName(cmd.Registration)
	if err == nil {
		err = h.identities.Register(name, c)
	}
	if err != nil {
		h.log.Debug().Err(err).Str("client_id", c.ID).Msg("registration rejected")
		h.ack(c, cmd, &Ack{Error: toCoreError(err)})
		return
	}

	c.Name = name
	c.Avatar = cmd.Registration.Avatar
	c.Privileged = cmd.Registration.Privileged
	profile := h.profiles.Create(c, h.now())
	h.observer.IdentityRegistered()
	h.log.Info().Str("client_id", c.ID).Str("name", name).Bool("privileged", c.Privileged).Msg("identity registered")

	h.ack(c, cmd, &Ack{Registration: &RegistrationResult{
		Name:       name,
		Privileged: c.Privileged,
		Profile:    profile,
	}})
}

func (h *Hub) createChannel(c *Client, cmd *Command) {
	if !c.Registered() {
		h.ack(c, cmd, &Ack{Error: toCoreError(ErrNotRegistered)})
		return
	}
	ch, err := h.directory.Create(cmd.Channel, c.Name, h.now())
	if err != nil {
		h.ack(c, cmd, &Ack{Error: toCoreError(err)})
		return
	}

	h.observer.ChannelCreated()
	h.log.Info().Str("channel", ch.Name).Str("creator", c.Name).Msg("channel created")
	h.recordAudit("create-channel", c.Name, "", ch.Name, "")

	h.ack(c, cmd, &Ack{ChannelName: ch.Name})
	info := ch.Info()
	h.broadcastAll(&Event{Kind: EventChannelCreated, Channel: ch.Name, Created: &info})
}

func (h *Hub) listOnline(c *Client, cmd *Command) {
	ch, ok := h.directory.Lookup(cmd.Channel)
	if !ok {
		h.ack(c, cmd, &Ack{Error: toCoreError(ErrChannelNotFound)})
		return
	}
	h.ack(c, cmd, &Ack{Roster: h.roster(ch)})
}

func (h *Hub) join(c *Client, channel string) {
	if !c.Registered() {
		return
	}
	ch, ok := h.directory.Lookup(channel)
	if !ok || !ch.AddClient(c) {
		return
	}
	c.Rooms[ch.Name] = struct{}{}

	h.broadcastChannel(ch, &Event{
		Kind:    EventChatMessage,
		Channel: ch.Name,
		Message: h.systemMessage(ch.Name, fmt.Sprintf("%s joined #%s", c.Name, ch.Name)),
	})
	h.broadcastRoster(ch)
	h.broadcastChannelList()
}

func (h *Hub) leave(c *Client, channel string) {
	if !c.Registered() {
		return
	}
	ch, ok := h.directory.Lookup(channel)
	if !ok || !ch.RemoveClient(c) {
		return
	}
	delete(c.Rooms, ch.Name)

	h.broadcastChannel(ch, &Event{
		Kind:    EventChatMessage,
		Channel: ch.Name,
		Message: h.systemMessage(ch.Name, fmt.Sprintf("%s left #%s", c.Name, ch.Name)),
	})
	h.broadcastRoster(ch)
	h.broadcastChannelList()
}

func (h *Hub) updateAvatar(c *Client, avatar string) {
	if !c.Registered() {
		return
	}
	c.Avatar = avatar
	h.profiles.SetAvatar(c.ID, avatar)
}

func (h *Hub) getProfile(c *Client, cmd *Command) {
	target := cmd.Target
	if target == "" {
		target = c.ID
	}
	profile, err := h.profiles.Get(target)
	if err != nil {
		h.ack(c, cmd, &Ack{Error: toCoreError(err)})
		return
	}
	h.ack(c, cmd, &Ack{Profile: &profile})
}

func (h *Hub) updateProfile(c *Client, cmd *Command) {
	if !c.Registered() {
		h.ack(c, cmd, &Ack{Error: toCoreError(ErrNotRegistered)})
		return
	}
	patch := cmd.Profile
	if err := h.profiles.Validate(&patch); err != nil {
		h.ack(c, cmd, &Ack{Error: toCoreError(err)})
		return
	}
	if patch.DisplayName != nil && *patch.DisplayName != c.Name {
		if err := h.identities.Rename(c.Name, *patch.DisplayName, c); err != nil {
			h.ack(c, cmd, &Ack{Error: toCoreError(err)})
			return
		}
		h.log.Info().Str("client_id", c.ID).Str("from", c.Name).Str("to", *patch.DisplayName).Msg("identity renamed")
		c.Name = *patch.DisplayName
	}
	profile, err := h.profiles.Apply(c.ID, patch)
	if err != nil {
		h.ack(c, cmd, &Ack{Error: toCoreError(err)})
		return
	}
	h.ack(c, cmd, &Ack{Profile: &profile})

	for name := range c.Rooms {
		if ch, ok := h.directory.Lookup(name); ok {
			h.broadcastRoster(ch)
		}
	}
}

// roster joins channel members against the identity registry so stale
// members never show up.
func (h *Hub) roster(ch *Channel) []RosterEntry {
	return lo.FilterMap(ch.Members(), func(m *Client, _ int) (RosterEntry, bool) {
		if !h.identities.Owns(m) {
			return RosterEntry{}, false
		}
		profile, err := h.profiles.Get(m.ID)
		if err != nil {
			return RosterEntry{}, false
		}
		return RosterEntry{
			ConnectionID: m.ID,
			Name:         m.Name,
			Avatar:       m.Avatar,
			Privileged:   m.Privileged,
			Profile:      profile,
		}, true
	})
}

func (h *Hub) systemMessage(channel, text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Channel:   channel,
		From:      SystemSender,
		Kind:      MessageText,
		Text:      text,
		System:    true,
		CreatedAt: h.now(),
	}
}

func (h *Hub) ack(c *Client, cmd *Command, ack *Ack) {
	ack.Command = cmd.Kind
	h.send(c, &Event{Kind: EventAck, RequestID: cmd.RequestID, Ack: ack})
}

func (h *Hub) send(c *Client, ev *Event) {
	if !c.deliver(ev) {
		h.observer.EventsDropped(1)
		h.log.Debug().Str("client_id", c.ID).Int("kind", int(ev.Kind)).Msg("event dropped for slow client")
	}
}

func (h *Hub) broadcastChannel(ch *Channel, ev *Event) {
	if dropped := ch.Broadcast(ev); dropped > 0 {
		h.observer.EventsDropped(dropped)
		h.log.Debug().Str("channel", ch.Name).Int("dropped", dropped).Msg("broadcast dropped for slow clients")
	}
}

func (h *Hub) broadcastAll(ev *Event) {
	for _, c := range h.clients {
		h.send(c, ev)
	}
}

func (h *Hub) broadcastRoster(ch *Channel) {
	h.broadcastChannel(ch, &Event{Kind: EventRosterUpdated, Channel: ch.Name, Roster: h.roster(ch)})
}

func (h *Hub) broadcastChannelList() {
	h.broadcastAll(&Event{Kind: EventChannelListUpdated, Channels: h.directory.List()})
}
