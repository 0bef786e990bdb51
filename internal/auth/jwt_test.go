package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := uuid.New()

	tok, err := IssueToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	gotID, issuedAt, err := VerifyToken(tok, secret)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if gotID != userID {
		t.Fatalf("user id mismatch: got %s want %s", gotID, userID)
	}
	if time.Since(issuedAt) > time.Minute {
		t.Fatalf("issuedAt too old: %v", issuedAt)
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := IssueToken(uuid.New(), secret, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	if _, _, err := VerifyToken(tok, secret); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := IssueToken(uuid.New(), []byte("right"), time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	if _, _, err := VerifyToken(tok, []byte("wrong")); err == nil {
		t.Fatal("expected error for bad signature, got nil")
	}
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	if _, _, err := VerifyToken("not.a.jwt", []byte("k")); err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
}
