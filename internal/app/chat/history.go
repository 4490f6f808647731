package chat

import (
	"sync"

	"parley/internal/pkg/avatarx"
)

// HistoryCapacity bounds the rolling broadcast log.
const HistoryCapacity = 100

// HistorySender is the trimmed public view of a message sender kept in
// history entries. The avatar is not stored; Snapshot derives it from the
// username at read time.
type HistorySender struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	PhotoURL string `json:"profilePhotoURL"`
}

// HistoryEntry is one broadcast or system message retained for replay.
type HistoryEntry struct {
	ID       string         `json:"id"`
	SenderID string         `json:"senderId"`
	Sender   *HistorySender `json:"sender,omitempty"`
	Body     string         `json:"body"`
	Time     int64          `json:"time"`
}

// History is the capacity-bounded rolling log of broadcast messages, shared
// process-wide and replayed to newly admitted connections.
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
	cap     int
}

// NewHistory returns an empty History bounded at capacity.
func NewHistory(capacity int) *History {
	return &History{cap: capacity}
}

// Append adds an entry, evicting the oldest entry first when at capacity.
func (h *History) Append(entry HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == h.cap {
		h.entries = h.entries[1:]
	}
	h.entries = append(h.entries, entry)
}

// Snapshot returns the entries in chronological order for replay.
// Sender avatars are rematerialized from the stored username.
func (h *History) Snapshot() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	snapshot := make([]HistoryEntry, len(h.entries))
	for i, entry := range h.entries {
		if entry.Sender != nil {
			sender := *entry.Sender
			sender.Avatar = avatarx.URL(sender.Username)
			entry.Sender = &sender
		}
		snapshot[i] = entry
	}
	return snapshot
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.entries)
}
