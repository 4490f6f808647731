package chat

import (
	"context"
	"errors"

	"parley/internal/app/user"
	"parley/internal/pkg/auth/jwt"
	"parley/internal/pkg/errs"
	"parley/internal/pkg/logx"
)

// Gate is the identity gate applied once per inbound connection, before any
// event handler runs. It validates the bearer credential against persisted
// user state and produces the identity snapshot for admission.
type Gate struct {
	store  user.Store
	secret string
}

// NewGate constructs a Gate over the user store with the token signing secret.
func NewGate(store user.Store, secret string) *Gate {
	return &Gate{store: store, secret: secret}
}

// Authorize verifies the credential token and resolves the persisted user.
// Rejections, in check order: missing token, invalid signature/expiry,
// unknown user, banned account. The check has no side effects; it only
// builds the identity snapshot.
func (g *Gate) Authorize(ctx context.Context, token string) (*Identity, *errs.CustomError) {
	if token == "" {
		return nil, errs.NewError(errs.ErrMissingCredential)
	}

	payload, err := jwt.ParseToken(token, g.secret)
	if err != nil {
		logx.Warn("Connection rejected: credential failed verification", "error", err)
		return nil, errs.NewError(errs.ErrInvalidCredential)
	}

	u, err := g.store.FindByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, errs.NewError(errs.ErrUnknownUser)
		}
		logx.Error(err, "Identity gate store lookup failed", "user_id", payload.UserID)
		return nil, errs.NewError(errs.ErrUnknown)
	}

	if u.AccountStatus == user.StatusBanned {
		return nil, errs.NewError(errs.ErrForbidden)
	}

	identity := NewIdentity(u)
	return &identity, nil
}
