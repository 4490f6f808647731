package chat

import (
	"context"
	"encoding/json"
	"errors"

	"parley/internal/app/user"
	"parley/internal/pkg/errs"
)

// defaultHandlers builds the dispatch table for inbound events.
func defaultHandlers() map[EventType]eventHandler {
	return map[EventType]eventHandler{
		EventMessageSent:      handleMessageSent,
		EventPrivateChatInit:  handlePrivateChatInit,
		EventSetUsername:      handleSetUsername,
		EventSetUserPhoto:     handleSetUserPhoto,
		EventBanUser:          handleBanUser,
		EventSetAccountStatus: handleSetAccountStatus,
		EventBlockUser:        handleBlockUser,
		EventUnblockUser:      handleUnblockUser,
	}
}

// bind unmarshals an event payload, reporting malformed input to the sender.
func bind(c *Client, payload json.RawMessage, dst any) bool {
	if err := json.Unmarshal(payload, dst); err != nil {
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return false
	}
	return true
}

func handleMessageSent(h *Hall, c *Client, payload json.RawMessage) {
	var p MessageSentPayload
	if !bind(c, payload, &p) {
		return
	}

	if len(p.Body) > MaxBodyBytes {
		c.SendError(errs.NewError(errs.ErrMessageContentTooLong))
		return
	}

	// Clients cannot forge system messages.
	p.IsSystem = false

	h.router.Route(c, p)
}

func handlePrivateChatInit(h *Hall, c *Client, payload json.RawMessage) {
	var p PrivateChatInitPayload
	if !bind(c, payload, &p) {
		return
	}

	target := h.registry.ByConnectionID(p.TargetID)
	if target == nil {
		c.SendError(errs.NewError(errs.ErrTargetNotFound))
		return
	}

	room := DeriveRoomName(c.ID(), target.ID())

	c.Send(EventPrivateChatInitiated, PrivateChatInitiatedPayload{Room: room, TargetID: target.ID()})
	target.Send(EventPrivateChatInitiated, PrivateChatInitiatedPayload{Room: room, TargetID: c.ID()})
}

func handleSetUsername(h *Hall, c *Client, payload json.RawMessage) {
	var p SetUsernamePayload
	if !bind(c, payload, &p) {
		return
	}

	if p.Name == "" {
		c.SendError(errs.NewError(errs.ErrInvalidUsername))
		return
	}

	if err := h.renameUser(context.Background(), c, p.Name); err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			c.Send(EventUsernameConflict, struct{}{})
			return
		}
		c.SendError(errs.NewError(errs.ErrUnknown))
	}
}

func handleSetUserPhoto(h *Hall, c *Client, payload json.RawMessage) {
	var p SetUserPhotoPayload
	if !bind(c, payload, &p) {
		return
	}

	if err := h.SetUserPhoto(context.Background(), c.Identity().UserID, p.URL); err != nil {
		c.SendError(errs.NewError(errs.ErrUnknown))
	}
}

func handleBanUser(h *Hall, c *Client, payload json.RawMessage) {
	var p BanUserPayload
	if !bind(c, payload, &p) {
		return
	}

	if customErr := h.moderation.Ban(context.Background(), c, p.TargetID); customErr != nil {
		c.SendError(customErr)
	}
}

func handleSetAccountStatus(h *Hall, c *Client, payload json.RawMessage) {
	var p SetAccountStatusPayload
	if !bind(c, payload, &p) {
		return
	}

	status := user.AccountStatus(p.Status)
	if customErr := h.moderation.SetAccountStatus(context.Background(), c, p.TargetID, status); customErr != nil {
		c.SendError(customErr)
	}
}

func handleBlockUser(h *Hall, c *Client, payload json.RawMessage) {
	var p BlockUserPayload
	if !bind(c, payload, &p) {
		return
	}

	if _, customErr := h.moderation.Block(context.Background(), c, p.TargetID); customErr != nil {
		c.SendError(customErr)
	}
}

func handleUnblockUser(h *Hall, c *Client, payload json.RawMessage) {
	var p BlockUserPayload
	if !bind(c, payload, &p) {
		return
	}

	if _, customErr := h.moderation.Unblock(context.Background(), c, p.TargetID); customErr != nil {
		c.SendError(customErr)
	}
}
