package jwt

import (
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("u-123", testSecret, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	payload, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if payload.UserID != "u-123" {
		t.Fatalf("user id lost: %q", payload.UserID)
	}
	if payload.Issuer != TokenIssuer {
		t.Fatalf("unexpected issuer %q", payload.Issuer)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("u-123", testSecret, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken("u-123", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseToken(token, testSecret); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("definitely.not.ajwt", testSecret); err == nil {
		t.Fatal("garbage token accepted")
	}
}
