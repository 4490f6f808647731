package user

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no user matches the given id or username.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists is returned when a create or rename collides with an existing username.
	ErrAlreadyExists = errors.New("user already exists")
)

// BlockLists carries both sides of a block relationship after a mutation:
// the blocker's block list and the blocked user's blocked-by list.
type BlockLists struct {
	Blocked   []string `json:"blocklist"`
	BlockedBy []string `json:"blockedBy"`
}

// Store is the persisted user store contract consumed by the chat core and
// the REST handlers. Implementations must make AddToBlockList and
// RemoveFromBlockList idempotent: repeating an operation returns the current
// lists without duplicating or erroring.
type Store interface {
	// Create inserts a new account with the given username and password hash.
	// Username collisions return ErrAlreadyExists.
	Create(ctx context.Context, username, passwordHash string) (*User, error)

	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)

	// SetAccountStatus persists the moderation state and returns the updated user.
	SetAccountStatus(ctx context.Context, id string, status AccountStatus) (*User, error)

	// AddToBlockList records blockerID blocking blockedID on both records.
	AddToBlockList(ctx context.Context, blockerID, blockedID string) (*BlockLists, error)

	// RemoveFromBlockList undoes a block on both records.
	RemoveFromBlockList(ctx context.Context, blockerID, blockedID string) (*BlockLists, error)

	// UpdateUsername renames the account; collisions return ErrAlreadyExists.
	UpdateUsername(ctx context.Context, id, username string) (*User, error)

	SetProfilePhoto(ctx context.Context, id, url string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Activate flips the activation flag that gates sign-in.
	Activate(ctx context.Context, id string) (*User, error)

	Delete(ctx context.Context, id string) error

	ListBanned(ctx context.Context) ([]*User, error)
	ListPending(ctx context.Context) ([]*User, error)
	ListAll(ctx context.Context) ([]*User, error)
}
