package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_BlocksAfterLimit(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(context.Background(), "login:a@b.c")
		if err != nil || !ok {
			t.Fatalf("attempt %d: ok=%v err=%v", i, ok, err)
		}
	}
	ok, err := l.Allow(context.Background(), "login:a@b.c")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Fatalf("expected fourth attempt to be blocked")
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)

	if ok, _ := l.Allow(context.Background(), "a"); !ok {
		t.Fatalf("first attempt on a must pass")
	}
	if ok, _ := l.Allow(context.Background(), "b"); !ok {
		t.Fatalf("first attempt on b must pass")
	}
	if ok, _ := l.Allow(context.Background(), "a"); ok {
		t.Fatalf("second attempt on a must be blocked")
	}
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	now := time.Unix(1700000000, 0)
	l.clock = func() time.Time { return now }

	if ok, _ := l.Allow(context.Background(), "k"); !ok {
		t.Fatalf("first attempt must pass")
	}
	if ok, _ := l.Allow(context.Background(), "k"); ok {
		t.Fatalf("second attempt in window must be blocked")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := l.Allow(context.Background(), "k"); !ok {
		t.Fatalf("attempt after window must pass")
	}
}

func TestDisabled_AlwaysAllows(t *testing.T) {
	l := Disabled()
	for i := 0; i < 100; i++ {
		if ok, err := l.Allow(context.Background(), "k"); !ok || err != nil {
			t.Fatalf("disabled limiter must always allow")
		}
	}
}
