package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"parley/internal/app/user"
	"parley/internal/pkg/errs"
	"parley/internal/pkg/logx"
)

// Moderation implements the privileged actions: ban, account status changes,
// and the block/unblock pair. Persisted state is mutated first, without
// holding any registry lock; live presence is updated only after the store
// confirms, so a failed persistence call leaves live state untouched.
type Moderation struct {
	store    user.Store
	registry *Registry
	logger   zerolog.Logger
}

// NewModeration wires a Moderation service over the store and registry.
func NewModeration(store user.Store, registry *Registry) *Moderation {
	return &Moderation{
		store:    store,
		registry: registry,
		logger:   logx.Logger().With().Str("component", "moderation").Logger(),
	}
}

// requireModerator gates elevated actions on the actor's persisted role.
// Insufficient privilege yields Forbidden before any side effect.
func requireModerator(actor *Client) *errs.CustomError {
	if !actor.Identity().Role.Moderator() {
		return errs.NewError(errs.ErrForbidden)
	}
	return nil
}

// Ban resolves the target connection to its persistent user and sets the
// banned status. The status broadcast goes out before the forced disconnect
// so the target sees its own status change before losing the connection.
func (m *Moderation) Ban(ctx context.Context, actor *Client, targetConnectionID string) *errs.CustomError {
	if customErr := requireModerator(actor); customErr != nil {
		return customErr
	}

	target := m.registry.ByConnectionID(targetConnectionID)
	if target == nil {
		return errs.NewError(errs.ErrTargetNotFound)
	}

	return m.setStatus(ctx, target.Identity().UserID, user.StatusBanned)
}

// SetAccountStatus changes the target user's persisted account status and
// reflects it into live presence.
func (m *Moderation) SetAccountStatus(ctx context.Context, actor *Client, targetUserID string, status user.AccountStatus) *errs.CustomError {
	if customErr := requireModerator(actor); customErr != nil {
		return customErr
	}

	if !status.Valid() {
		return errs.NewError(errs.ErrInvalidAccountStatus)
	}

	return m.setStatus(ctx, targetUserID, status)
}

// setStatus persists the status, refreshes any live sessions, broadcasts the
// room-wide notice, delivers a best-effort direct notice, and finally kicks
// all of the target's sessions when the new status is banned.
func (m *Moderation) setStatus(ctx context.Context, targetUserID string, status user.AccountStatus) *errs.CustomError {
	updated, err := m.store.SetAccountStatus(ctx, targetUserID, status)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return errs.NewError(errs.ErrTargetNotFound)
		}
		m.logger.Error().Err(err).Str("user_id", targetUserID).Msg("Failed to persist account status")
		return errs.NewError(errs.ErrUnknown)
	}

	sessions := m.registry.AllByUserID(targetUserID)
	for _, session := range sessions {
		session.UpdateIdentity(func(id *Identity) {
			id.AccountStatus = status
		})
	}

	frame, frameErr := NewFrame(EventAccountStatusChanged, AccountStatusChangedPayload{
		TargetUsername: updated.Username,
		Status:         status.String(),
	})
	if frameErr != nil {
		m.logger.Error().Err(frameErr).Msg("Failed to build status change frame")
		return errs.NewError(errs.ErrUnknown)
	}
	m.registry.Broadcast(frame)

	// Direct notice is best-effort; the user being offline is not an error.
	for _, session := range sessions {
		session.Send(EventUserNotice, UserNoticePayload{
			Message: fmt.Sprintf("Your account status has been set to %s", status),
		})
	}

	if status == user.StatusBanned {
		for _, session := range sessions {
			session.Kick("You are banned.")
		}
	}

	m.logger.Info().
		Str("user_id", targetUserID).
		Str("status", status.String()).
		Int("live_sessions", len(sessions)).
		Msg("Account status updated")

	return nil
}

// Block adds the target to the actor's persisted block list and the actor to
// the target's blocked-by list, then refreshes both parties' live snapshots.
// Re-blocking an already blocked user is an idempotent no-op with the same
// return shape.
func (m *Moderation) Block(ctx context.Context, actor *Client, targetUserID string) (*user.BlockLists, *errs.CustomError) {
	lists, err := m.store.AddToBlockList(ctx, actor.Identity().UserID, targetUserID)
	if err != nil {
		return nil, m.blockListError(err, targetUserID)
	}

	m.applyBlockLists(actor, targetUserID, lists)
	return lists, nil
}

// Unblock is the symmetric removal; unblocking a non-blocked user is a no-op
// returning the current lists.
func (m *Moderation) Unblock(ctx context.Context, actor *Client, targetUserID string) (*user.BlockLists, *errs.CustomError) {
	lists, err := m.store.RemoveFromBlockList(ctx, actor.Identity().UserID, targetUserID)
	if err != nil {
		return nil, m.blockListError(err, targetUserID)
	}

	m.applyBlockLists(actor, targetUserID, lists)
	return lists, nil
}

func (m *Moderation) blockListError(err error, targetUserID string) *errs.CustomError {
	if errors.Is(err, user.ErrNotFound) {
		return errs.NewError(errs.ErrTargetNotFound)
	}
	m.logger.Error().Err(err).Str("target_user_id", targetUserID).Msg("Block list mutation failed")
	return errs.NewError(errs.ErrUnknown)
}

// applyBlockLists refreshes the live snapshots on both sides and notifies
// each side of its updated list. The target being offline is fine.
func (m *Moderation) applyBlockLists(actor *Client, targetUserID string, lists *user.BlockLists) {
	actorUserID := actor.Identity().UserID

	for _, session := range m.registry.AllByUserID(actorUserID) {
		session.UpdateIdentity(func(id *Identity) {
			id.Blocked = append([]string(nil), lists.Blocked...)
		})
		session.Send(EventBlockChanged, BlockChangedPayload{List: lists.Blocked})
	}

	for _, session := range m.registry.AllByUserID(targetUserID) {
		session.UpdateIdentity(func(id *Identity) {
			id.BlockedBy = append([]string(nil), lists.BlockedBy...)
		})
		session.Send(EventBlockChanged, BlockChangedPayload{List: lists.BlockedBy})
	}
}
