package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_CountAbsentKey(t *testing.T) {
	s := NewMemoryStore()
	n, err := s.Count(context.Background(), "1.2.3.4")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0 for absent key", n)
	}
}

func TestMemoryStore_IncrementWithinWindow(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Incr(ctx, "1.2.3.4", time.Hour); err != nil {
			t.Fatalf("Incr: %v", err)
		}
	}

	n, _ := s.Count(ctx, "1.2.3.4")
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}

	// Separate keys keep separate counters.
	m, _ := s.Count(ctx, "5.6.7.8")
	if m != 0 {
		t.Errorf("Count(other key) = %d, want 0", m)
	}
}

func TestMemoryStore_WindowExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewMemoryStore(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if err := s.Incr(ctx, "1.2.3.4", time.Hour); err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if n, _ := s.Count(ctx, "1.2.3.4"); n != 1 {
		t.Fatalf("Count = %d, want 1", n)
	}

	// Advance past the window: the counter reads as absent.
	now = now.Add(time.Hour + time.Second)
	if n, _ := s.Count(ctx, "1.2.3.4"); n != 0 {
		t.Errorf("Count after expiry = %d, want 0", n)
	}

	// A fresh increment restarts the window at 1.
	if err := s.Incr(ctx, "1.2.3.4", time.Hour); err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if n, _ := s.Count(ctx, "1.2.3.4"); n != 1 {
		t.Errorf("Count after restart = %d, want 1", n)
	}
}

func TestMemoryStore_IncrRefreshesExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewMemoryStore(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_ = s.Incr(ctx, "k", time.Hour)
	now = now.Add(30 * time.Minute)
	_ = s.Incr(ctx, "k", time.Hour) // expiry now 30m + 1h out

	now = now.Add(45 * time.Minute) // 75m after first write, 45m after second
	if n, _ := s.Count(ctx, "k"); n != 2 {
		t.Errorf("Count = %d, want 2 (expiry refreshed on write)", n)
	}
}
