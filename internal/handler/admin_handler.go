/*
Package handler provides HTTP handler functions for the staff administration
surface: account listings, activation of pending signups, and account removal.
*/
package handler

import (
	"errors"
	"net/http"

	"parley/internal/app/user"
	"parley/internal/pkg/auth/jwt"
	"parley/internal/pkg/errs"
	"parley/internal/pkg/logx"
	"parley/internal/pkg/req"
	"parley/internal/pkg/resp"
)

// requireStaff resolves the authenticated account and checks it holds at least
// the given role. Returns nil and writes the error response on failure.
func requireStaff(deps *AppDeps, w http.ResponseWriter, r *http.Request, minRole user.Role) *user.User {
	identity := jwt.GetPayloadFromContext(r)
	if identity == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return nil
	}

	account, err := deps.Store.FindByID(r.Context(), identity.UserID)
	if err != nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return nil
	}

	if account.Role < minRole {
		logx.Warn("admin endpoint rejected: insufficient role",
			"user_id", account.ID, "role", account.Role)
		resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
		return nil
	}

	return account
}

// HandleListBanned returns all accounts currently banned.
func HandleListBanned(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireStaff(deps, w, r, user.RoleModerator) == nil {
			return
		}

		users, err := deps.Store.ListBanned(r.Context())
		if err != nil {
			logx.Error(err, "failed to list banned users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"users": users})
	}
}

// HandleListPending returns all accounts awaiting activation.
func HandleListPending(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireStaff(deps, w, r, user.RoleModerator) == nil {
			return
		}

		users, err := deps.Store.ListPending(r.Context())
		if err != nil {
			logx.Error(err, "failed to list pending users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"users": users})
	}
}

// HandleListUsers returns every account.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireStaff(deps, w, r, user.RoleModerator) == nil {
			return
		}

		users, err := deps.Store.ListAll(r.Context())
		if err != nil {
			logx.Error(err, "failed to list users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"users": users})
	}
}

type AdminTargetInput struct {
	UserID string `json:"userId"`
}

// HandleActivateUser flips the activation flag on a pending account.
func HandleActivateUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := requireStaff(deps, w, r, user.RoleModerator)
		if actor == nil {
			return
		}

		var input AdminTargetInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		activated, err := deps.Store.Activate(r.Context(), input.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}

			logx.Error(err, "failed to activate user", "user_id", input.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("Account activated", "user_id", activated.ID, "actor_id", actor.ID)

		resp.RespondSuccess(w, r, map[string]any{"user": activated})
	}
}

// HandleDeleteUser removes an account entirely. Admin only. Any live chat
// sessions for the account are kicked once the store confirms the delete.
func HandleDeleteUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := requireStaff(deps, w, r, user.RoleAdmin)
		if actor == nil {
			return
		}

		var input AdminTargetInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.UserID == actor.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := deps.Store.Delete(r.Context(), input.UserID); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}

			logx.Error(err, "failed to delete user", "user_id", input.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		// Live sessions are kicked only once the record is gone.
		registry := deps.Hall.Registry()
		for _, session := range registry.AllByUserID(input.UserID) {
			session.Kick("Account removed.")
			registry.Remove(session.ID())
		}

		logx.Info("Account deleted", "user_id", input.UserID, "actor_id", actor.ID)

		resp.RespondSuccess(w, r, nil)
	}
}
