package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"parley/internal/app/chat"
	"parley/internal/app/user"
	"parley/internal/configs"
	"parley/internal/pkg/auth/jwt"
)

const testSecret = "handler-test-secret"

// newTestDeps wires an AppDeps over the in-memory store. The storage service
// is left nil; tests that exercise it install a fake.
func newTestDeps() (*AppDeps, *user.MemoryStore) {
	store := user.NewMemoryStore()

	cfg := &configs.AppConfig{
		Environment:    "development",
		Port:           8080,
		AllowedOrigins: []string{},
		JWTSecret:      testSecret,
	}

	return &AppDeps{
		Hall:   chat.NewHall(store),
		Gate:   chat.NewGate(store, testSecret),
		Config: cfg,
		Store:  store,
	}, store
}

// seedAccount inserts a fixture user whose password is the literal "hunter22".
func seedAccount(t *testing.T, store *user.MemoryStore, id, username string, role user.Role, status user.AccountStatus, activated bool) *user.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash fixture password: %v", err)
	}

	u := &user.User{
		ID:            id,
		Username:      username,
		PasswordHash:  string(hash),
		Role:          role,
		AccountStatus: status,
		Activated:     activated,
		Blocked:       []string{},
		BlockedBy:     []string{},
	}
	store.Put(u)
	return u
}

var fakeIPCounter atomic.Int64

// nextFakeIP returns a distinct client IP per call so the per-IP rate
// limiters never interfere between requests.
func nextFakeIP() string {
	n := fakeIPCounter.Add(1)
	return fmt.Sprintf("10.1.%d.%d", (n/250)%250, n%250+1)
}

// doJSON performs a request against the router and returns the recorder.
// A non-empty token is attached as a bearer credential.
func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	r.Header.Set("X-Forwarded-For", nextFakeIP())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

// apiResponse mirrors resp.JSONResponse for decoding in assertions.
type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeResponse parses the standard JSON envelope from the recorder.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()

	var res apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return res
}

// tokenFor issues a short-lived credential for the given user id.
func tokenFor(t *testing.T, userID string) string {
	t.Helper()

	token, err := jwt.GenerateToken(userID, testSecret, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}
