package chat

import (
	"encoding/json"
	"fmt"
	"testing"

	"parley/internal/app/user"
)

// seedUser inserts a fixture account with the given role and status.
func seedUser(store *user.MemoryStore, id, username string, role user.Role, status user.AccountStatus) *user.User {
	u := &user.User{
		ID:            id,
		Username:      username,
		Role:          role,
		AccountStatus: status,
		Activated:     true,
		Blocked:       []string{},
		BlockedBy:     []string{},
	}
	store.Put(u)
	return u
}

// newTestClient builds a client with no underlying websocket connection.
// Frames land on the send channel where tests can inspect them.
func newTestClient(h *Hall, connectionID string, u *user.User) *Client {
	return NewClient(h, nil, connectionID, NewIdentity(u))
}

// takeFrame pops the next queued frame, failing the test if none is pending.
func takeFrame(t *testing.T, c *Client) Frame {
	t.Helper()

	select {
	case raw, ok := <-c.send:
		if !ok {
			t.Fatalf("send channel for %s is closed", c.ID())
		}
		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		return frame
	default:
		t.Fatalf("no frame queued for %s", c.ID())
	}
	return Frame{}
}

// takeFrameOfType discards queued frames until one of the wanted type appears.
func takeFrameOfType(t *testing.T, c *Client, want EventType) Frame {
	t.Helper()

	for {
		select {
		case raw, ok := <-c.send:
			if !ok {
				t.Fatalf("send channel for %s closed before %q frame", c.ID(), want)
			}
			var frame Frame
			if err := json.Unmarshal(raw, &frame); err != nil {
				t.Fatalf("unmarshal frame: %v", err)
			}
			if frame.Type == want {
				return frame
			}
		default:
			t.Fatalf("no %q frame queued for %s", want, c.ID())
		}
	}
}

// drainFrames discards everything currently queued for the client.
func drainFrames(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

// pendingFrames counts frames currently queued for the client.
func pendingFrames(c *Client) int {
	return len(c.send)
}

// decodePayload unmarshals a frame payload into dst.
func decodePayload(t *testing.T, frame Frame, dst any) {
	t.Helper()

	if err := json.Unmarshal(frame.Payload, dst); err != nil {
		t.Fatalf("unmarshal %q payload: %v", frame.Type, err)
	}
}

// mustFrame builds a raw inbound frame for Dispatch.
func mustFrame(t *testing.T, eventType EventType, payload any) []byte {
	t.Helper()

	raw, err := NewFrame(eventType, payload)
	if err != nil {
		t.Fatalf("build frame: %v", err)
	}
	return raw
}

// entryID produces deterministic fixture message ids.
func entryID(i int) string {
	return fmt.Sprintf("m-%03d", i)
}
