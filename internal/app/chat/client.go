/*
Package chat contains the core logic for the shared chat hall.

This file defines the Client struct, representing an active WebSocket
connection bound to an authorized identity. It manages the message
communication loops (ReadPump and WritePump) and cleanup on disconnect.
*/
package chat

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"parley/internal/pkg/errs"
	"parley/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// MaxBodyBytes is the maximum allowed size (in bytes) of a message body.
	MaxBodyBytes = 5000

	// sendQueueSize is the per-client outbound buffer length.
	sendQueueSize = 256

	// WsCloseCodeRemoved is a custom WebSocket Close Code (4000-4999 range)
	// signalling that the server removed the session (ban, shutdown).
	WsCloseCodeRemoved = 4001
)

// Client represents an active WebSocket connection and its identity snapshot.
type Client struct {
	// the hall this connection belongs to.
	hall *Hall

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// id is the ephemeral connection id assigned at connect time.
	id string

	// mu guards the identity snapshot, which moderation refreshes in place.
	mu sync.RWMutex

	// identity is the denormalized profile captured at admission.
	identity Identity

	// send is the buffered channel of frames waiting to go out.
	send chan []byte

	// sendMu guards sendClosed and closeReason. enqueue holds it shared for
	// the duration of the channel put, so the channel is never closed while a
	// send is in flight.
	sendMu     sync.RWMutex
	sendClosed bool

	// closeReason, when set, is emitted by the write pump as a Close Frame
	// with WsCloseCodeRemoved after the queue drains.
	closeReason string

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an authorized identity.
func NewClient(hall *Hall, wsConn *websocket.Conn, connectionID string, identity Identity) *Client {
	clientLogger := logx.Logger().With().
		Str("connection_id", connectionID).
		Str("user_id", identity.UserID).
		Logger()

	return &Client{
		hall:     hall,
		conn:     wsConn,
		id:       connectionID,
		identity: identity,
		send:     make(chan []byte, sendQueueSize),
		logger:   clientLogger,
	}
}

// ID returns the ephemeral connection id.
func (c *Client) ID() string {
	return c.id
}

// Identity returns a copy of the current identity snapshot.
func (c *Client) Identity() Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.identity
}

// UpdateIdentity applies fn to the live identity snapshot. Moderation uses
// this to reflect persisted mutations into presence in the same step.
func (c *Client) UpdateIdentity(fn func(*Identity)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.identity)
}

// Profile projects the identity snapshot to its client-facing form.
func (c *Client) Profile() Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Profile{
		ConnectionID:  c.id,
		UserID:        c.identity.UserID,
		Username:      c.identity.Username,
		Avatar:        c.identity.Avatar,
		PhotoURL:      c.identity.PhotoURL,
		Role:          c.identity.Role,
		AccountStatus: c.identity.AccountStatus,
		Blocked:       append([]string(nil), c.identity.Blocked...),
		BlockedBy:     append([]string(nil), c.identity.BlockedBy...),
	}
}

// ReadPump reads frames from the WebSocket connection and dispatches them.
// It handles heartbeats (Pong) and performs cleanup on connection closure.
// Leaving the hall on exit is the disconnect barrier: once removal begins,
// no further frames from this connection are dispatched.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.hall.Dispatch(c, frameBytes)
	}
}

// cleanupOnDisconnect runs when the ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hall.Leave(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump writes frames from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel.
// Returns false when the WritePump loop should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		closeMessage := []byte{}
		if reason := c.kickReason(); reason != "" {
			closeMessage = websocket.FormatCloseMessage(WsCloseCodeRemoved, reason)
		}
		if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends the periodic heartbeat Ping.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue attempts a non-blocking put of a prebuilt frame on the send channel.
// Frames addressed to an already closed queue are dropped: the connection may
// stay in the registry briefly after a kick, until its ReadPump exits.
func (c *Client) enqueue(frame []byte) error {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()

	if c.sendClosed {
		return fmt.Errorf("client send queue closed")
	}

	select {
	case c.send <- frame:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping frame")
		return fmt.Errorf("client send queue full")
	}
}

// Send marshals the payload into a frame and enqueues it.
func (c *Client) Send(eventType EventType, payload any) error {
	frame, err := NewFrame(eventType, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("event", string(eventType)).Msg("Error marshaling frame for client")
		return err
	}

	return c.enqueue(frame)
}

// SendError reports a per-event failure back to this connection only.
func (c *Client) SendError(customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	if err := c.Send(EventError, ErrorPayload{Code: customErr.Code, Message: customErr.Message}); err != nil {
		c.logger.Error().Err(err).Msg("Failed to queue error frame")
	}
}

// Kick schedules a server-side disconnect. The write pump drains any frames
// already queued, then emits a Close Frame with WsCloseCodeRemoved and the
// given reason. All websocket writes stay on the write pump goroutine.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeRemoved).
		Str("reason", reason).
		Msg("Closing connection from server side.")

	c.shutdownSend(reason)
}

// closeSend closes the send channel exactly once, stopping the WritePump.
func (c *Client) closeSend() {
	c.shutdownSend("")
}

// shutdownSend marks the send queue closed and closes the channel. The first
// call wins; the write lock excludes in-flight enqueues, so no frame can be
// put on the channel after it closes.
func (c *Client) shutdownSend(reason string) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return
	}

	c.sendClosed = true
	c.closeReason = reason
	close(c.send)
}

// kickReason returns the close reason recorded by Kick, if any.
func (c *Client) kickReason() string {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()

	return c.closeReason
}
