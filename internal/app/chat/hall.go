/*
Package chat contains the core logic for the shared chat hall.

This file defines the Hall, the single shared room every authorized
connection joins. It owns the presence registry, the history buffer, the
message router, and the moderation service, and dispatches inbound events
through an explicit handler table.
*/
package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"parley/internal/app/user"
	"parley/internal/pkg/logx"
)

// Hall is the central coordinator for the chat service. It is constructed at
// server start, injected into handlers, and torn down at shutdown.
type Hall struct {
	registry   *Registry
	history    *History
	router     *Router
	moderation *Moderation
	store      user.Store

	// handlers is the dispatch table mapping inbound event names to handlers.
	handlers map[EventType]eventHandler

	// structured logger with Hall context.
	logger zerolog.Logger
}

// eventHandler processes one inbound event for a connection. Handlers receive
// their collaborators through the hall rather than captured globals.
type eventHandler func(h *Hall, c *Client, payload json.RawMessage)

// NewHall constructs a Hall with its registry, history buffer, router,
// moderation service, and dispatch table.
func NewHall(store user.Store) *Hall {
	registry := NewRegistry()
	history := NewHistory(HistoryCapacity)

	h := &Hall{
		registry:   registry,
		history:    history,
		router:     NewRouter(registry, history),
		moderation: NewModeration(store, registry),
		store:      store,
		logger:     logx.Logger().With().Str("component", "hall").Logger(),
	}
	h.handlers = defaultHandlers()

	return h
}

// Registry exposes the presence registry.
func (h *Hall) Registry() *Registry {
	return h.registry
}

// Join admits an authorized connection: the client receives the connected
// event carrying its profile and the history snapshot, and everyone receives
// the refreshed roster with a join notice.
func (h *Hall) Join(c *Client) {
	admitted := h.registry.Admit(c)
	if admitted != c {
		h.logger.Warn().
			Str("connection_id", c.id).
			Msg("Duplicate admit for live connection id ignored.")
		return
	}

	profile := c.Profile()

	c.Send(EventConnected, ConnectedPayload{
		Profile: profile,
		History: h.history.Snapshot(),
	})

	h.broadcastRoster(fmt.Sprintf("%s has entered the chat room.", profile.Username))

	h.logger.Info().
		Str("connection_id", c.id).
		Str("username", profile.Username).
		Int("total_users", h.registry.Len()).
		Msg("Client joined hall.")
}

// Leave removes the connection from presence. It is safe to call more than
// once and concurrently with in-flight routing: removal happens exactly once,
// and once it begins no further deliveries reach the connection.
func (h *Hall) Leave(c *Client) {
	if !h.registry.Remove(c.id) {
		return
	}

	c.closeSend()

	username := c.Identity().Username
	h.broadcastRoster(fmt.Sprintf("%s has left the chat room.", username))

	h.logger.Info().
		Str("connection_id", c.id).
		Str("username", username).
		Int("total_users", h.registry.Len()).
		Msg("Client left hall.")
}

// Dispatch routes one raw inbound frame through the handler table.
func (h *Hall) Dispatch(c *Client, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		h.logger.Warn().Err(err).
			Str("connection_id", c.id).
			Msg("Client sent invalid JSON")
		return
	}

	handler, ok := h.handlers[frame.Type]
	if !ok {
		h.logger.Warn().
			Str("connection_id", c.id).
			Str("event", string(frame.Type)).
			Msg("Client sent unsupported event type")
		return
	}

	handler(h, c, frame.Payload)
}

// SetUserPhoto persists the profile photo reference, refreshes any live
// sessions for the user, and broadcasts the updated roster. Shared by the
// websocket event and the REST endpoint.
func (h *Hall) SetUserPhoto(ctx context.Context, userID, url string) error {
	if _, err := h.store.SetProfilePhoto(ctx, userID, url); err != nil {
		return err
	}

	sessions := h.registry.AllByUserID(userID)
	for _, session := range sessions {
		session.UpdateIdentity(func(id *Identity) {
			id.PhotoURL = url
		})
	}

	if len(sessions) > 0 {
		h.broadcastRoster("")
	}

	return nil
}

// renameUser persists a username change, refreshes live sessions, and
// announces the change. Uniqueness is enforced by the store.
func (h *Hall) renameUser(ctx context.Context, c *Client, name string) error {
	oldName := c.Identity().Username

	updated, err := h.store.UpdateUsername(ctx, c.Identity().UserID, name)
	if err != nil {
		return err
	}

	identity := NewIdentity(updated)
	for _, session := range h.registry.AllByUserID(updated.ID) {
		session.UpdateIdentity(func(id *Identity) {
			id.Username = identity.Username
			id.Avatar = identity.Avatar
		})
	}

	h.broadcastRoster(fmt.Sprintf("%s is now %s.", oldName, updated.Username))
	return nil
}

// broadcastRoster sends the current user list to everyone, with an optional notice.
func (h *Hall) broadcastRoster(notice string) {
	frame, err := NewFrame(EventRosterChanged, RosterChangedPayload{
		Users:  h.registry.Users(),
		Notice: notice,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build roster frame")
		return
	}

	h.registry.Broadcast(frame)
}

// Announce routes a system broadcast into the hall.
func (h *Hall) Announce(body string) {
	h.router.Route(nil, MessageSentPayload{Body: body, IsSystem: true})
}

// Shutdown kicks every live connection and empties the registry.
func (h *Hall) Shutdown() {
	h.logger.Info().Int("total_users", h.registry.Len()).Msg("Shutting down hall...")

	for _, profile := range h.registry.Users() {
		if c := h.registry.ByConnectionID(profile.ConnectionID); c != nil {
			c.Kick("Server shutting down.")
			h.registry.Remove(c.id)
		}
	}

	h.logger.Info().Msg("Hall shutdown complete.")
}
