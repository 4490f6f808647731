package chat

import (
	"encoding/json"
	"time"

	"parley/internal/pkg/randx"
)

// EventType names an inbound or outbound websocket event.
type EventType string

// Inbound events.
const (
	EventMessageSent      EventType = "message-sent"
	EventPrivateChatInit  EventType = "private-chat-init"
	EventSetUsername      EventType = "set-username"
	EventSetUserPhoto     EventType = "set-user-photo"
	EventBanUser          EventType = "ban-user"
	EventSetAccountStatus EventType = "set-account-status"
	EventBlockUser        EventType = "block-user"
	EventUnblockUser      EventType = "unblock-user"
)

// Outbound events.
const (
	EventConnected            EventType = "connected"
	EventRosterChanged        EventType = "room-roster-changed"
	EventBroadcast            EventType = "message-broadcast"
	EventPrivateMessage       EventType = "private-message"
	EventPrivateChatInitiated EventType = "private-chat-initiated"
	EventAccountStatusChanged EventType = "account-status-changed"
	EventUserNotice           EventType = "targeted-user-notice"
	EventBlockChanged         EventType = "block-changed"
	EventUsernameConflict     EventType = "username-conflict"
	EventError                EventType = "error"
)

// SystemSenderID is the literal sender tag for system messages.
const SystemSenderID = "system"

// Frame is the wire format in both directions: an event name plus its payload.
type Frame struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewFrame marshals a payload into a complete wire frame.
func NewFrame(eventType EventType, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Frame{Type: eventType, Payload: payloadBytes})
}

// Envelope is the formatted chat message delivered to clients.
// SenderID is a connection id, or SystemSenderID for system messages.
type Envelope struct {
	ID       string   `json:"id"`
	SenderID string   `json:"senderId"`
	Sender   *Profile `json:"sender,omitempty"`
	Body     string   `json:"body"`
	Time     int64    `json:"time"`
	TargetID string   `json:"targetId,omitempty"`
}

// newEnvelope stamps a fresh envelope with a message id and the current time.
func newEnvelope(senderID string, sender *Profile, body, targetID string) Envelope {
	return Envelope{
		ID:       randx.MessageID(),
		SenderID: senderID,
		Sender:   sender,
		Body:     body,
		Time:     time.Now().UnixMilli(),
		TargetID: targetID,
	}
}

// Inbound payloads.

type MessageSentPayload struct {
	Body     string `json:"body"`
	TargetID string `json:"targetId,omitempty"`
	IsSystem bool   `json:"isSystem,omitempty"`
}

type PrivateChatInitPayload struct {
	TargetID string `json:"targetId"`
}

type SetUsernamePayload struct {
	Name string `json:"name"`
}

type SetUserPhotoPayload struct {
	URL string `json:"url"`
}

type BanUserPayload struct {
	TargetID string `json:"targetId"`
}

type SetAccountStatusPayload struct {
	TargetID string `json:"targetId"`
	Status   int16  `json:"status"`
}

type BlockUserPayload struct {
	TargetID string `json:"targetId"`
}

// Outbound payloads.

type ConnectedPayload struct {
	Profile Profile        `json:"profile"`
	History []HistoryEntry `json:"historySnapshot"`
}

type RosterChangedPayload struct {
	Users  []Profile `json:"users"`
	Notice string    `json:"notice,omitempty"`
}

type AccountStatusChangedPayload struct {
	TargetUsername string `json:"targetUsername"`
	Status         string `json:"status"`
}

type UserNoticePayload struct {
	Message string `json:"message"`
}

type BlockChangedPayload struct {
	List []string `json:"list"`
}

type PrivateChatInitiatedPayload struct {
	Room     string `json:"room"`
	TargetID string `json:"targetId"`
}

type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
