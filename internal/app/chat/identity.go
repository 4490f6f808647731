/*
Package chat contains the core logic for the shared chat hall: presence
tracking, message routing, the rolling history buffer, moderation, and the
websocket client lifecycle.

This file defines the denormalized identity snapshot attached to a live
connection and its public profile projection.
*/
package chat

import (
	"parley/internal/app/user"
	"parley/internal/pkg/avatarx"
)

// Identity is the denormalized profile snapshot captured from the persisted
// user record when a connection is admitted. It lives only as long as the
// connection; moderation actions that mutate persisted state refresh the
// matching live snapshots in the same step.
type Identity struct {
	UserID        string
	Username      string
	Avatar        string
	PhotoURL      string
	Role          user.Role
	AccountStatus user.AccountStatus
	Blocked       []string
	BlockedBy     []string
}

// NewIdentity builds the snapshot for a persisted user.
// The avatar is derived from the username, never stored.
func NewIdentity(u *user.User) Identity {
	return Identity{
		UserID:        u.ID,
		Username:      u.Username,
		Avatar:        avatarx.URL(u.Username),
		PhotoURL:      u.PhotoURL,
		Role:          u.Role,
		AccountStatus: u.AccountStatus,
		Blocked:       append([]string(nil), u.Blocked...),
		BlockedBy:     append([]string(nil), u.BlockedBy...),
	}
}

// Profile is the client-facing projection of a live connection, delivered in
// rosters and message envelopes.
type Profile struct {
	ConnectionID  string             `json:"id"`
	UserID        string             `json:"userId"`
	Username      string             `json:"username"`
	Avatar        string             `json:"avatar"`
	PhotoURL      string             `json:"profilePhotoURL"`
	Role          user.Role          `json:"role"`
	AccountStatus user.AccountStatus `json:"accountStatus"`
	Blocked       []string           `json:"blockList"`
	BlockedBy     []string           `json:"blockedBy"`
}
