package citizen

import (
	"context"
	"testing"
	"time"

	"gramsewa/internal/identity"
)

func TestResolveOrRegister_CreatesOnFirstSight(t *testing.T) {
	r := NewResolver(NewMemoryStore())
	r.clock = func() time.Time { return time.Unix(1700000000, 0) }

	c, err := r.ResolveOrRegister(context.Background(), identity.Identity{
		SubjectID: "sub-1",
		Email:     "Sita@Example.com",
		Name:      "Sita",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if c.ID.IsZero() {
		t.Fatalf("expected assigned id")
	}
	if c.SubjectID != "sub-1" {
		t.Fatalf("unexpected subject binding: %q", c.SubjectID)
	}
	if c.Email != "sita@example.com" {
		t.Fatalf("expected lowercased email, got %q", c.Email)
	}
}

func TestResolveOrRegister_ReturnsExisting(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store)

	first, err := r.ResolveOrRegister(context.Background(), identity.Identity{SubjectID: "sub-1", Email: "a@b.c", Name: "A"})
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	// A later verification with changed display attributes must not create
	// a second record or rebind the subject.
	second, err := r.ResolveOrRegister(context.Background(), identity.Identity{SubjectID: "sub-1", Email: "new@b.c", Name: "Renamed"})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same citizen, got %s and %s", first.ID.Hex(), second.ID.Hex())
	}
	if second.Email != first.Email {
		t.Fatalf("identity binding must be immutable")
	}
}

func TestResolveOrRegister_DefaultsNameFromEmail(t *testing.T) {
	r := NewResolver(NewMemoryStore())

	c, err := r.ResolveOrRegister(context.Background(), identity.Identity{SubjectID: "sub-2", Email: "gopal@village.in"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if c.Name != "gopal" {
		t.Fatalf("expected name from email local part, got %q", c.Name)
	}
}
