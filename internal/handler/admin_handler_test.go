package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"parley/internal/app/chat"
	"parley/internal/app/user"
	"parley/internal/pkg/errs"
)

func adminFixtures(t *testing.T) (http.Handler, *AppDeps, *user.MemoryStore) {
	t.Helper()

	deps, store := newTestDeps()
	seedAccount(t, store, "u-admin", "admin", user.RoleAdmin, user.StatusNormal, true)
	seedAccount(t, store, "u-mod", "mod", user.RoleModerator, user.StatusNormal, true)
	seedAccount(t, store, "u-plain", "plain", user.RoleUser, user.StatusNormal, true)
	seedAccount(t, store, "u-banned", "troll", user.RoleUser, user.StatusBanned, true)
	seedAccount(t, store, "u-pending", "newbie", user.RoleUser, user.StatusNormal, false)

	return Router(deps), deps, store
}

func decodeUserList(t *testing.T, res apiResponse) []user.User {
	t.Helper()

	var data struct {
		Users []user.User `json:"users"`
	}
	if err := json.Unmarshal(res.Data, &data); err != nil {
		t.Fatalf("decode user list: %v", err)
	}
	return data.Users
}

func TestAdminEndpointsRequireStaffRole(t *testing.T) {
	router, _, _ := adminFixtures(t)
	token := tokenFor(t, "u-plain")

	for _, path := range []string{"/api/admin/banned", "/api/admin/pending", "/api/admin/users"} {
		w := doJSON(t, router, http.MethodGet, path, token, nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("%s: status %d", path, w.Code)
		}
		if res := decodeResponse(t, w); res.Code != errs.ErrForbidden {
			t.Fatalf("%s: code %d", path, res.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/admin/users", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous listing: status %d", w.Code)
	}
}

func TestAdminListings(t *testing.T) {
	router, _, _ := adminFixtures(t)
	token := tokenFor(t, "u-mod")

	w := doJSON(t, router, http.MethodGet, "/api/admin/banned", token, nil)
	users := decodeUserList(t, decodeResponse(t, w))
	if len(users) != 1 || users[0].Username != "troll" {
		t.Fatalf("banned listing: %+v", users)
	}

	w = doJSON(t, router, http.MethodGet, "/api/admin/pending", token, nil)
	users = decodeUserList(t, decodeResponse(t, w))
	if len(users) != 1 || users[0].Username != "newbie" {
		t.Fatalf("pending listing: %+v", users)
	}

	w = doJSON(t, router, http.MethodGet, "/api/admin/users", token, nil)
	users = decodeUserList(t, decodeResponse(t, w))
	if len(users) != 5 {
		t.Fatalf("full listing: %d users", len(users))
	}
}

func TestAdminActivate(t *testing.T) {
	router, _, store := adminFixtures(t)
	token := tokenFor(t, "u-mod")

	w := doJSON(t, router, http.MethodPost, "/api/admin/activate", token, map[string]string{
		"userId": "u-pending",
	})
	if res := decodeResponse(t, w); res.Code != 0 {
		t.Fatalf("activate code %d: %s", res.Code, res.Message)
	}

	stored, _ := store.FindByID(context.Background(), "u-pending")
	if !stored.Activated {
		t.Fatal("activation not persisted")
	}

	w = doJSON(t, router, http.MethodPost, "/api/admin/activate", token, map[string]string{
		"userId": "u-ghost",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("activate missing user: status %d", w.Code)
	}
}

func TestAdminDeleteRequiresAdminRole(t *testing.T) {
	router, _, store := adminFixtures(t)

	// Moderators cannot delete.
	w := doJSON(t, router, http.MethodPost, "/api/admin/delete", tokenFor(t, "u-mod"), map[string]string{
		"userId": "u-plain",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("moderator delete: status %d", w.Code)
	}
	if _, err := store.FindByID(context.Background(), "u-plain"); err != nil {
		t.Fatal("rejected delete still removed the account")
	}

	// Admins can, but not themselves.
	w = doJSON(t, router, http.MethodPost, "/api/admin/delete", tokenFor(t, "u-admin"), map[string]string{
		"userId": "u-admin",
	})
	if res := decodeResponse(t, w); res.Code != errs.ErrInvalidParams {
		t.Fatalf("self delete: code %d", res.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/admin/delete", tokenFor(t, "u-admin"), map[string]string{
		"userId": "u-plain",
	})
	if res := decodeResponse(t, w); res.Code != 0 {
		t.Fatalf("admin delete code %d: %s", res.Code, res.Message)
	}

	if _, err := store.FindByID(context.Background(), "u-plain"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("account not deleted: %v", err)
	}
}

func TestAdminDeleteKicksSessionsOnlyAfterStoreConfirms(t *testing.T) {
	router, deps, store := adminFixtures(t)
	registry := deps.Hall.Registry()

	plain, _ := store.FindByID(context.Background(), "u-plain")
	session := chat.NewClient(deps.Hall, nil, "conn-plain", chat.NewIdentity(plain))
	registry.Admit(session)

	// A registry entry can outlive its record. When the delete fails, the
	// stale session must stay connected instead of being half torn down.
	ghost := &user.User{ID: "u-ghost", Username: "ghost"}
	ghostSession := chat.NewClient(deps.Hall, nil, "conn-ghost", chat.NewIdentity(ghost))
	registry.Admit(ghostSession)

	w := doJSON(t, router, http.MethodPost, "/api/admin/delete", tokenFor(t, "u-admin"), map[string]string{
		"userId": "u-ghost",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("ghost delete: status %d", w.Code)
	}
	if registry.ByUserID("u-ghost") == nil {
		t.Fatal("failed delete removed the live session")
	}
	if err := ghostSession.Send(chat.EventUserNotice, chat.UserNoticePayload{Message: "still here"}); err != nil {
		t.Fatalf("failed delete closed the live session: %v", err)
	}

	// A confirmed delete kicks every session for the account.
	w = doJSON(t, router, http.MethodPost, "/api/admin/delete", tokenFor(t, "u-admin"), map[string]string{
		"userId": "u-plain",
	})
	if res := decodeResponse(t, w); res.Code != 0 {
		t.Fatalf("delete code %d: %s", res.Code, res.Message)
	}
	if registry.ByUserID("u-plain") != nil {
		t.Fatal("deleted account still has a registered session")
	}
	if err := session.Send(chat.EventUserNotice, chat.UserNoticePayload{Message: "late"}); err == nil {
		t.Fatal("send to a deleted account's session should report an error")
	}
}
