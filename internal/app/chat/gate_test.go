package chat

import (
	"context"
	"testing"
	"time"

	"parley/internal/app/user"
	"parley/internal/pkg/auth/jwt"
	"parley/internal/pkg/avatarx"
	"parley/internal/pkg/errs"
)

const gateSecret = "test-secret"

func gateFixtures() (*Gate, *user.MemoryStore) {
	store := user.NewMemoryStore()
	return NewGate(store, gateSecret), store
}

func mustToken(t *testing.T, userID string) string {
	t.Helper()

	token, err := jwt.GenerateToken(userID, gateSecret, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestGateRejectsMissingToken(t *testing.T) {
	gate, _ := gateFixtures()

	_, customErr := gate.Authorize(context.Background(), "")
	if customErr == nil || customErr.Code != errs.ErrMissingCredential {
		t.Fatalf("expected code %d, got %+v", errs.ErrMissingCredential, customErr)
	}
}

func TestGateRejectsMalformedToken(t *testing.T) {
	gate, _ := gateFixtures()

	_, customErr := gate.Authorize(context.Background(), "not-a-jwt")
	if customErr == nil || customErr.Code != errs.ErrInvalidCredential {
		t.Fatalf("expected code %d, got %+v", errs.ErrInvalidCredential, customErr)
	}
}

func TestGateRejectsWrongSecret(t *testing.T) {
	gate, store := gateFixtures()
	seedUser(store, "u-1", "alice", user.RoleUser, user.StatusNormal)

	token, err := jwt.GenerateToken("u-1", "some-other-secret", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, customErr := gate.Authorize(context.Background(), token)
	if customErr == nil || customErr.Code != errs.ErrInvalidCredential {
		t.Fatalf("expected code %d, got %+v", errs.ErrInvalidCredential, customErr)
	}
}

func TestGateRejectsExpiredToken(t *testing.T) {
	gate, store := gateFixtures()
	seedUser(store, "u-1", "alice", user.RoleUser, user.StatusNormal)

	token, err := jwt.GenerateToken("u-1", gateSecret, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, customErr := gate.Authorize(context.Background(), token)
	if customErr == nil || customErr.Code != errs.ErrInvalidCredential {
		t.Fatalf("expected code %d, got %+v", errs.ErrInvalidCredential, customErr)
	}
}

func TestGateRejectsUnknownUser(t *testing.T) {
	gate, _ := gateFixtures()

	_, customErr := gate.Authorize(context.Background(), mustToken(t, "u-ghost"))
	if customErr == nil || customErr.Code != errs.ErrUnknownUser {
		t.Fatalf("expected code %d, got %+v", errs.ErrUnknownUser, customErr)
	}
}

func TestGateRejectsBannedUser(t *testing.T) {
	gate, store := gateFixtures()
	seedUser(store, "u-1", "alice", user.RoleUser, user.StatusBanned)

	_, customErr := gate.Authorize(context.Background(), mustToken(t, "u-1"))
	if customErr == nil || customErr.Code != errs.ErrForbidden {
		t.Fatalf("expected code %d, got %+v", errs.ErrForbidden, customErr)
	}
}

func TestGateAdmitsMutedUser(t *testing.T) {
	gate, store := gateFixtures()
	seedUser(store, "u-1", "alice", user.RoleUser, user.StatusMuted)

	identity, customErr := gate.Authorize(context.Background(), mustToken(t, "u-1"))
	if customErr != nil {
		t.Fatalf("muted user should be admitted: %+v", customErr)
	}
	if identity.AccountStatus != user.StatusMuted {
		t.Fatalf("muted status lost in snapshot: %v", identity.AccountStatus)
	}
}

func TestGateBuildsIdentitySnapshot(t *testing.T) {
	gate, store := gateFixtures()
	u := seedUser(store, "u-1", "alice", user.RoleModerator, user.StatusNormal)
	u.Blocked = []string{"u-2"}
	store.Put(u)

	identity, customErr := gate.Authorize(context.Background(), mustToken(t, "u-1"))
	if customErr != nil {
		t.Fatalf("authorize: %+v", customErr)
	}

	if identity.UserID != "u-1" || identity.Username != "alice" {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if !identity.Role.Moderator() {
		t.Fatal("moderator role lost in snapshot")
	}
	if identity.Avatar != avatarx.URL("alice") {
		t.Fatalf("avatar not derived from username: %q", identity.Avatar)
	}
	if len(identity.Blocked) != 1 || identity.Blocked[0] != "u-2" {
		t.Fatalf("block list lost in snapshot: %#v", identity.Blocked)
	}
}
