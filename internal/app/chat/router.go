package chat

import (
	"github.com/rs/zerolog"

	"parley/internal/pkg/logx"
)

// Router turns an inbound "message sent" event into zero or more deliveries.
// Moderation is enforced by silence: a muted or worse sender produces no
// deliveries and no error back to the sender.
type Router struct {
	registry *Registry
	history  *History
	logger   zerolog.Logger
}

// NewRouter wires a Router over the shared registry and history buffer.
func NewRouter(registry *Registry, history *History) *Router {
	return &Router{
		registry: registry,
		history:  history,
		logger:   logx.Logger().With().Str("component", "router").Logger(),
	}
}

// Route applies moderation checks, formats the outbound envelope, and decides
// between pairwise and broadcast delivery. sender may be nil only for system
// messages.
func (rt *Router) Route(sender *Client, p MessageSentPayload) {
	var envelope Envelope

	if p.IsSystem {
		envelope = newEnvelope(SystemSenderID, nil, p.Body, p.TargetID)
	} else {
		identity := sender.Identity()
		if !identity.AccountStatus.CanSend() {
			rt.logger.Debug().
				Str("connection_id", sender.ID()).
				Str("account_status", identity.AccountStatus.String()).
				Msg("Dropping message from restricted sender")
			return
		}

		profile := sender.Profile()
		envelope = newEnvelope(sender.ID(), &profile, p.Body, p.TargetID)
	}

	if p.TargetID != "" {
		rt.deliverPrivate(sender, envelope)
		return
	}

	rt.broadcast(envelope)
}

// deliverPrivate sends the envelope to exactly the target connection and
// echoes it back to the sender. A target that has since disconnected is
// dropped silently. Private messages never reach the history buffer.
func (rt *Router) deliverPrivate(sender *Client, envelope Envelope) {
	frame, err := NewFrame(EventPrivateMessage, envelope)
	if err != nil {
		rt.logger.Error().Err(err).Msg("Failed to build private message frame")
		return
	}

	if target := rt.registry.ByConnectionID(envelope.TargetID); target != nil {
		target.enqueue(frame)
	} else {
		rt.logger.Debug().
			Str("target_id", envelope.TargetID).
			Msg("Private message target no longer connected, dropping")
	}

	if sender != nil {
		sender.enqueue(frame)
	}
}

// broadcast delivers the envelope to every live connection, sender included,
// and appends a trimmed copy to the history buffer.
func (rt *Router) broadcast(envelope Envelope) {
	frame, err := NewFrame(EventBroadcast, envelope)
	if err != nil {
		rt.logger.Error().Err(err).Msg("Failed to build broadcast frame")
		return
	}

	rt.registry.Broadcast(frame)
	rt.history.Append(trimForHistory(envelope))
}

// trimForHistory keeps only the sender's public profile fields.
func trimForHistory(envelope Envelope) HistoryEntry {
	entry := HistoryEntry{
		ID:       envelope.ID,
		SenderID: envelope.SenderID,
		Body:     envelope.Body,
		Time:     envelope.Time,
	}

	if envelope.Sender != nil {
		entry.Sender = &HistorySender{
			UserID:   envelope.Sender.UserID,
			Username: envelope.Sender.Username,
			PhotoURL: envelope.Sender.PhotoURL,
		}
	}

	return entry
}
