package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	mgr := NewSessionManager("test-secret-key-for-sessions", time.Hour)

	token, err := mgr.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := mgr.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.SessionID == "" {
		t.Error("expected session id in claims")
	}
}

func TestSessionsAreDistinct(t *testing.T) {
	mgr := NewSessionManager("test-secret-key-for-sessions", time.Hour)

	a, err := mgr.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	b, err := mgr.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	ca, _ := mgr.Validate(a)
	cb, _ := mgr.Validate(b)
	if ca.SessionID == cb.SessionID {
		t.Error("two sessions share an id")
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	mgr := NewSessionManager("test-secret-key-for-sessions", time.Hour)

	if _, err := mgr.Validate("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	// A token signed with a different secret fails verification.
	other := NewSessionManager("a-completely-different-secret", time.Hour)
	token, err := other.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := mgr.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestValidateRejectsExpiredTokens(t *testing.T) {
	mgr := NewSessionManager("test-secret-key-for-sessions", -time.Minute)

	token, err := mgr.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := mgr.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
