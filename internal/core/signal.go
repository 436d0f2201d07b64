package core

// SignalKind is a voice-call handshake step.
type SignalKind int

const (
	SignalOffer SignalKind = iota
	SignalAnswer
	SignalICECandidate
	SignalCallInvite
	SignalCallResponse
	SignalCallEnd
)

var signalNames = [...]string{
	SignalOffer:        "call-offer",
	SignalAnswer:       "call-answer",
	SignalICECandidate: "ice-candidate",
	SignalCallInvite:   "call-invite",
	SignalCallResponse: "call-response",
	SignalCallEnd:      "call-end",
}

// String returns the outbound event name of the signal.
func (k SignalKind) String() string {
	if k < 0 || int(k) >= len(signalNames) {
		return "unknown"
	}
	return signalNames[k]
}

// relay forwards a signaling payload to exactly one live connection. It is
// channel-agnostic; a missing target drops the payload.
func (h *Hub) relay(from *Client, cmd *Command) {
	if !from.Registered() {
		return
	}
	target, ok := h.clients[cmd.Target]
	if !ok {
		h.log.Debug().Str("from", from.ID).Str("target", cmd.Target).Msg("signal target gone")
		return
	}
	h.send(target, &Event{
		Kind: EventSignal,
		Signal: &SignalEvent{
			Kind:     cmd.Signal,
			From:     from.ID,
			FromName: from.Name,
			Payload:  cmd.Payload,
		},
	})
}
