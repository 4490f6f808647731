/*
Package user contains the persisted user model and the user store contract.

It defines the account representation shared by the REST layer and the chat
core, including the role and account status enumerations that govern
moderation privileges and send/connect rights.
*/
package user

import "time"

// Role is the privilege tier of an account.
type Role int16

const (
	// RoleUser is the base tier with no moderation rights.
	RoleUser Role = 0

	// RoleModerator may ban users, change account statuses, and view admin listings.
	RoleModerator Role = 1

	// RoleAdmin additionally may delete accounts.
	RoleAdmin Role = 2
)

// Moderator reports whether the role is above the base user tier.
func (r Role) Moderator() bool {
	return r > RoleUser
}

// AccountStatus governs a user's send and connect privileges.
type AccountStatus int16

const (
	// StatusNormal allows full participation.
	StatusNormal AccountStatus = 0

	// StatusMuted allows connecting but silently drops outbound messages.
	StatusMuted AccountStatus = 1

	// StatusBanned rejects the connection outright.
	StatusBanned AccountStatus = 2
)

// statusNames maps each account status to its client-facing label.
var statusNames = map[AccountStatus]string{
	StatusNormal: "Normal",
	StatusMuted:  "Muted",
	StatusBanned: "Banned",
}

// String returns the client-facing label for the status.
func (s AccountStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether the status is a member of the closed enumeration.
func (s AccountStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// CanSend reports whether an account in this status may send messages.
// Muted or worse means silence.
func (s AccountStatus) CanSend() bool {
	return s == StatusNormal
}

// User is a persisted account record.
type User struct {
	// ID is the stable identifier, independent of any session.
	ID string `json:"id"`

	// Username is unique across all accounts.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the account password. Never serialized.
	PasswordHash string `json:"-"`

	// Role is the privilege tier.
	Role Role `json:"role"`

	// AccountStatus is the moderation state.
	AccountStatus AccountStatus `json:"accountStatus"`

	// Activated gates sign-in; fresh signups await staff confirmation.
	Activated bool `json:"activated"`

	// PhotoURL is an optional uploaded profile photo reference.
	PhotoURL string `json:"profilePhotoURL"`

	// Blocked holds the user ids this account has blocked.
	Blocked []string `json:"blockList"`

	// BlockedBy holds the user ids that have blocked this account.
	BlockedBy []string `json:"blockedBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
