package core

import "time"

// Channel groups clients subscribed to the same named broadcast group.
// Members keep join order so roster snapshots are stable.
type Channel struct {
	Name      string
	Icon      string
	Builtin   bool
	Creator   string
	CreatedAt time.Time

	members []*Client
	index   map[*Client]struct{}
}

// ChannelInfo is a read-only view of a channel for catalogs.
type ChannelInfo struct {
	Name      string
	Icon      string
	Builtin   bool
	Creator   string
	CreatedAt time.Time
	Online    int
}

// NewChannel constructs a channel with no clients.
func NewChannel(name, icon string, builtin bool, creator string, createdAt time.Time) *Channel {
	return &Channel{
		Name:      name,
		Icon:      icon,
		Builtin:   builtin,
		Creator:   creator,
		CreatedAt: createdAt,
		index:     make(map[*Client]struct{}),
	}
}

// AddClient inserts a client into the channel. Returns true if newly added.
func (ch *Channel) AddClient(c *Client) bool {
	if _, exists := ch.index[c]; exists {
		return false
	}
	ch.index[c] = struct{}{}
	ch.members = append(ch.members, c)
	return true
}

// RemoveClient deletes a client from the channel. Returns true if removed.
func (ch *Channel) RemoveClient(c *Client) bool {
	if _, exists := ch.index[c]; !exists {
		return false
	}
	delete(ch.index, c)
	for i, m := range ch.members {
		if m == c {
			ch.members = append(ch.members[:i], ch.members[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether the client is a member.
func (ch *Channel) Has(c *Client) bool {
	_, ok := ch.index[c]
	return ok
}

// Members returns the members in join order.
func (ch *Channel) Members() []*Client {
	out := make([]*Client, len(ch.members))
	copy(out, ch.members)
	return out
}

// Len returns the number of members.
func (ch *Channel) Len() int {
	return len(ch.members)
}

// Broadcast sends an event to all clients in the channel and returns how
// many deliveries were dropped because of slow consumers.
func (ch *Channel) Broadcast(event *Event) int {
	dropped := 0
	for _, client := range ch.members {
		if !client.deliver(event) {
			dropped++
		}
	}
	return dropped
}

// Info returns the catalog view of the channel.
func (ch *Channel) Info() ChannelInfo {
	return ChannelInfo{
		Name:      ch.Name,
		Icon:      ch.Icon,
		Builtin:   ch.Builtin,
		Creator:   ch.Creator,
		CreatedAt: ch.CreatedAt,
		Online:    ch.Len(),
	}
}
