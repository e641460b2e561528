package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenIssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != userID {
		t.Fatalf("userID mismatch: got %s want %s", got, userID)
	}
}

func TestTokenVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("secret", -1*time.Second)
	token, err := svc.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := svc.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenService("right-secret", time.Hour)
	verifier := NewTokenService("wrong-secret", time.Hour)

	token, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("k", time.Hour)
	if _, err := svc.Verify("not.a.jwt"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}
