package chat

import (
	"context"
	"testing"

	"parley/internal/app/user"
	"parley/internal/pkg/errs"
)

func moderationFixtures() (*Moderation, *user.MemoryStore, *Registry) {
	store := user.NewMemoryStore()
	registry := NewRegistry()
	return NewModeration(store, registry), store, registry
}

func TestBanRequiresModerator(t *testing.T) {
	m, store, registry := moderationFixtures()
	plain := seedUser(store, "u-plain", "plain", user.RoleUser, user.StatusNormal)
	target := seedUser(store, "u-target", "target", user.RoleUser, user.StatusNormal)

	actor := newTestClient(nil, "conn-plain", plain)
	victim := newTestClient(nil, "conn-target", target)
	registry.Admit(actor)
	registry.Admit(victim)

	customErr := m.Ban(context.Background(), actor, "conn-target")
	if customErr == nil || customErr.Code != errs.ErrForbidden {
		t.Fatalf("expected code %d, got %+v", errs.ErrForbidden, customErr)
	}

	stored, _ := store.FindByID(context.Background(), "u-target")
	if stored.AccountStatus != user.StatusNormal {
		t.Fatalf("privilege check had side effects: status %v", stored.AccountStatus)
	}
	if pendingFrames(victim) != 0 {
		t.Fatal("privilege check produced deliveries")
	}
}

func TestBanUnknownConnection(t *testing.T) {
	m, store, registry := moderationFixtures()
	mod := seedUser(store, "u-mod", "mod", user.RoleModerator, user.StatusNormal)

	actor := newTestClient(nil, "conn-mod", mod)
	registry.Admit(actor)

	customErr := m.Ban(context.Background(), actor, "conn-ghost")
	if customErr == nil || customErr.Code != errs.ErrTargetNotFound {
		t.Fatalf("expected code %d, got %+v", errs.ErrTargetNotFound, customErr)
	}
}

func TestBanPersistsBroadcastsAndKicksAllSessions(t *testing.T) {
	m, store, registry := moderationFixtures()
	mod := seedUser(store, "u-mod", "mod", user.RoleModerator, user.StatusNormal)
	target := seedUser(store, "u-target", "target", user.RoleUser, user.StatusNormal)

	actor := newTestClient(nil, "conn-mod", mod)
	phone := newTestClient(nil, "conn-phone", target)
	laptop := newTestClient(nil, "conn-laptop", target)
	registry.Admit(actor)
	registry.Admit(phone)
	registry.Admit(laptop)

	if customErr := m.Ban(context.Background(), actor, "conn-phone"); customErr != nil {
		t.Fatalf("ban failed: %+v", customErr)
	}

	stored, _ := store.FindByID(context.Background(), "u-target")
	if stored.AccountStatus != user.StatusBanned {
		t.Fatalf("ban not persisted: %v", stored.AccountStatus)
	}

	// Everyone, actor included, sees the status broadcast.
	frame := takeFrame(t, actor)
	if frame.Type != EventAccountStatusChanged {
		t.Fatalf("actor got %q, want %q", frame.Type, EventAccountStatusChanged)
	}
	var statusPayload AccountStatusChangedPayload
	decodePayload(t, frame, &statusPayload)
	if statusPayload.TargetUsername != "target" || statusPayload.Status != "Banned" {
		t.Fatalf("unexpected status payload: %+v", statusPayload)
	}

	// Every target session: status broadcast first, then the direct notice,
	// then the forced disconnect. Banning one session removes them all.
	for _, session := range []*Client{phone, laptop} {
		if got := takeFrame(t, session); got.Type != EventAccountStatusChanged {
			t.Fatalf("session %s first frame %q, want status change", session.ID(), got.Type)
		}
		if got := takeFrame(t, session); got.Type != EventUserNotice {
			t.Fatalf("session %s second frame %q, want user notice", session.ID(), got.Type)
		}

		if session.Identity().AccountStatus != user.StatusBanned {
			t.Fatalf("session %s live snapshot not refreshed", session.ID())
		}

		select {
		case _, ok := <-session.send:
			if ok {
				t.Fatalf("session %s has unexpected extra frame", session.ID())
			}
		default:
			t.Fatalf("session %s send channel not closed after ban", session.ID())
		}
	}
}

func TestBroadcastAfterBanSkipsKickedSessions(t *testing.T) {
	m, store, registry := moderationFixtures()
	history := NewHistory(HistoryCapacity)
	router := NewRouter(registry, history)

	mod := seedUser(store, "u-mod", "mod", user.RoleModerator, user.StatusNormal)
	target := seedUser(store, "u-target", "target", user.RoleUser, user.StatusNormal)

	actor := newTestClient(nil, "conn-mod", mod)
	victim := newTestClient(nil, "conn-target", target)
	registry.Admit(actor)
	registry.Admit(victim)

	if customErr := m.Ban(context.Background(), actor, "conn-target"); customErr != nil {
		t.Fatalf("ban failed: %+v", customErr)
	}

	// The banned session stays registered until its read loop exits. Routing
	// during that window must drop its frames, not write to the closed queue.
	drainFrames(actor)
	router.Route(actor, MessageSentPayload{Body: "still here"})

	if frame := takeFrame(t, actor); frame.Type != EventBroadcast {
		t.Fatalf("actor got %q, want %q", frame.Type, EventBroadcast)
	}
	if history.Len() != 1 {
		t.Fatalf("expected 1 history entry, got %d", history.Len())
	}

	// The kicked session holds only its pre-kick frames, then the closed channel.
	if got := takeFrame(t, victim); got.Type != EventAccountStatusChanged {
		t.Fatalf("victim first frame %q, want status change", got.Type)
	}
	if got := takeFrame(t, victim); got.Type != EventUserNotice {
		t.Fatalf("victim second frame %q, want user notice", got.Type)
	}
	select {
	case _, ok := <-victim.send:
		if ok {
			t.Fatal("broadcast reached a kicked session")
		}
	default:
		t.Fatal("send channel not closed after ban")
	}

	if err := victim.Send(EventUserNotice, UserNoticePayload{Message: "late"}); err == nil {
		t.Fatal("send to a kicked session should report an error")
	}
}

func TestSetAccountStatusValidation(t *testing.T) {
	m, store, registry := moderationFixtures()
	mod := seedUser(store, "u-mod", "mod", user.RoleModerator, user.StatusNormal)
	seedUser(store, "u-target", "target", user.RoleUser, user.StatusNormal)

	actor := newTestClient(nil, "conn-mod", mod)
	registry.Admit(actor)

	customErr := m.SetAccountStatus(context.Background(), actor, "u-target", user.AccountStatus(42))
	if customErr == nil || customErr.Code != errs.ErrInvalidAccountStatus {
		t.Fatalf("expected code %d, got %+v", errs.ErrInvalidAccountStatus, customErr)
	}

	stored, _ := store.FindByID(context.Background(), "u-target")
	if stored.AccountStatus != user.StatusNormal {
		t.Fatalf("invalid status reached the store: %v", stored.AccountStatus)
	}
}

func TestSetAccountStatusMutedDoesNotDisconnect(t *testing.T) {
	m, store, registry := moderationFixtures()
	mod := seedUser(store, "u-mod", "mod", user.RoleModerator, user.StatusNormal)
	target := seedUser(store, "u-target", "target", user.RoleUser, user.StatusNormal)

	actor := newTestClient(nil, "conn-mod", mod)
	victim := newTestClient(nil, "conn-target", target)
	registry.Admit(actor)
	registry.Admit(victim)

	if customErr := m.SetAccountStatus(context.Background(), actor, "u-target", user.StatusMuted); customErr != nil {
		t.Fatalf("mute failed: %+v", customErr)
	}

	if victim.Identity().AccountStatus != user.StatusMuted {
		t.Fatal("live snapshot not muted")
	}

	takeFrameOfType(t, victim, EventUserNotice)

	// The connection stays open; only banning disconnects.
	select {
	case _, ok := <-victim.send:
		if !ok {
			t.Fatal("mute closed the connection")
		}
	default:
	}
}

func TestSetAccountStatusOfflineTarget(t *testing.T) {
	m, store, registry := moderationFixtures()
	mod := seedUser(store, "u-mod", "mod", user.RoleModerator, user.StatusNormal)
	seedUser(store, "u-target", "target", user.RoleUser, user.StatusNormal)

	actor := newTestClient(nil, "conn-mod", mod)
	registry.Admit(actor)

	if customErr := m.SetAccountStatus(context.Background(), actor, "u-target", user.StatusBanned); customErr != nil {
		t.Fatalf("offline ban failed: %+v", customErr)
	}

	stored, _ := store.FindByID(context.Background(), "u-target")
	if stored.AccountStatus != user.StatusBanned {
		t.Fatal("offline ban not persisted")
	}
}

func TestBlockAndUnblock(t *testing.T) {
	m, store, registry := moderationFixtures()
	alice := seedUser(store, "u-alice", "alice", user.RoleUser, user.StatusNormal)
	bob := seedUser(store, "u-bob", "bob", user.RoleUser, user.StatusNormal)

	aliceConn := newTestClient(nil, "conn-alice", alice)
	bobConn := newTestClient(nil, "conn-bob", bob)
	registry.Admit(aliceConn)
	registry.Admit(bobConn)

	lists, customErr := m.Block(context.Background(), aliceConn, "u-bob")
	if customErr != nil {
		t.Fatalf("block failed: %+v", customErr)
	}
	if len(lists.Blocked) != 1 || lists.Blocked[0] != "u-bob" {
		t.Fatalf("unexpected block list: %#v", lists.Blocked)
	}
	if len(lists.BlockedBy) != 1 || lists.BlockedBy[0] != "u-alice" {
		t.Fatalf("unexpected blocked-by list: %#v", lists.BlockedBy)
	}

	// Both live snapshots reflect the mutation, and both sides are notified.
	if got := aliceConn.Identity().Blocked; len(got) != 1 || got[0] != "u-bob" {
		t.Fatalf("actor snapshot not refreshed: %#v", got)
	}
	if got := bobConn.Identity().BlockedBy; len(got) != 1 || got[0] != "u-alice" {
		t.Fatalf("target snapshot not refreshed: %#v", got)
	}
	takeFrameOfType(t, aliceConn, EventBlockChanged)
	takeFrameOfType(t, bobConn, EventBlockChanged)

	// Re-blocking is an idempotent no-op with the same shape.
	again, customErr := m.Block(context.Background(), aliceConn, "u-bob")
	if customErr != nil {
		t.Fatalf("re-block failed: %+v", customErr)
	}
	if len(again.Blocked) != 1 {
		t.Fatalf("re-block duplicated entries: %#v", again.Blocked)
	}

	drainFrames(aliceConn)
	drainFrames(bobConn)

	lists, customErr = m.Unblock(context.Background(), aliceConn, "u-bob")
	if customErr != nil {
		t.Fatalf("unblock failed: %+v", customErr)
	}
	if len(lists.Blocked) != 0 || len(lists.BlockedBy) != 0 {
		t.Fatalf("unblock left residue: %#v / %#v", lists.Blocked, lists.BlockedBy)
	}
	if got := aliceConn.Identity().Blocked; len(got) != 0 {
		t.Fatalf("actor snapshot kept stale block: %#v", got)
	}
}

func TestBlockUnknownTarget(t *testing.T) {
	m, store, registry := moderationFixtures()
	alice := seedUser(store, "u-alice", "alice", user.RoleUser, user.StatusNormal)

	aliceConn := newTestClient(nil, "conn-alice", alice)
	registry.Admit(aliceConn)

	_, customErr := m.Block(context.Background(), aliceConn, "u-ghost")
	if customErr == nil || customErr.Code != errs.ErrTargetNotFound {
		t.Fatalf("expected code %d, got %+v", errs.ErrTargetNotFound, customErr)
	}
}
