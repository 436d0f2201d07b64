package core

// Observer receives structured notifications about hub activity. It is
// called from the hub goroutine and must not block.
type Observer interface {
	ConnectionOpened()
	ConnectionClosed()
	IdentityRegistered()
	IdentityReleased()
	ChannelCreated()
	MessageBroadcast(kind string)
	ModerationAction(verb string)
	EventsDropped(n int)
}

// TextFilter rewrites chat text before it is broadcast.
type TextFilter interface {
	Censor(text string) string
}

type nopObserver struct{}

func (nopObserver) ConnectionOpened()       {}
func (nopObserver) ConnectionClosed()       {}
func (nopObserver) IdentityRegistered()     {}
func (nopObserver) IdentityReleased()       {}
func (nopObserver) ChannelCreated()         {}
func (nopObserver) MessageBroadcast(string) {}
func (nopObserver) ModerationAction(string) {}
func (nopObserver) EventsDropped(int)       {}
