package auth

import (
	"testing"
	"time"

	"gramsewa/internal/config"
)

func TestIssueAndVerifySessionToken(t *testing.T) {
	m, err := NewManager(config.AuthConfig{
		JWTSecret:  "secret",
		JWTIssuer:  "gramsewa",
		SessionTTL: 12 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, "656f1e9dfc13ae39d9000001", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.AdminID != "656f1e9dfc13ae39d9000001" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerify_UsesSuppliedTime(t *testing.T) {
	m, _ := NewManager(config.AuthConfig{JWTSecret: "secret", SessionTTL: time.Hour})

	// Issued far in the past, so the token is long expired on the wall
	// clock. Verification must judge validity at the supplied time only.
	issued := time.Unix(1500000000, 0).UTC()
	tok, err := m.Issue(issued, "id", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(tok, issued.Add(time.Minute)); err != nil {
		t.Fatalf("verify at issue-era time: %v", err)
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	m, _ := NewManager(config.AuthConfig{JWTSecret: "secret", SessionTTL: time.Hour})
	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, "id", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(tok, now.Add(2*time.Hour)); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	a, _ := NewManager(config.AuthConfig{JWTSecret: "one", SessionTTL: time.Hour})
	b, _ := NewManager(config.AuthConfig{JWTSecret: "two", SessionTTL: time.Hour})

	now := time.Now()
	tok, err := a.Issue(now, "id", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Verify(tok, now); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestVerify_RejectsWrongIssuer(t *testing.T) {
	a, _ := NewManager(config.AuthConfig{JWTSecret: "s", JWTIssuer: "other", SessionTTL: time.Hour})
	b, _ := NewManager(config.AuthConfig{JWTSecret: "s", JWTIssuer: "gramsewa", SessionTTL: time.Hour})

	now := time.Now()
	tok, err := a.Issue(now, "id", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Verify(tok, now); err == nil {
		t.Fatalf("expected issuer error")
	}
}

func TestNewManager_RequiresSecret(t *testing.T) {
	if _, err := NewManager(config.AuthConfig{}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}
