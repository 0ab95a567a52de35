package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewWithStore(NewMemoryStore(100))
	ctx := context.Background()
	w := Window{Name: "burst", Limit: 3, Per: time.Minute}

	for i := 0; i < 3; i++ {
		if res := l.Allow(ctx, "1.2.3.4", w); !res.Allowed {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}

	res := l.Allow(ctx, "1.2.3.4", w)
	if res.Allowed {
		t.Fatalf("hit above limit should be denied")
	}
	if res.RetryAfter < 1 || res.RetryAfter > 60 {
		t.Fatalf("retry-after should be within the window, got %d", res.RetryAfter)
	}

	// A different identity has its own counter.
	if res := l.Allow(ctx, "5.6.7.8", w); !res.Allowed {
		t.Fatalf("separate identity should be allowed")
	}
}

func TestAllowAllWindowsMustPass(t *testing.T) {
	l := NewWithStore(NewMemoryStore(100))
	ctx := context.Background()
	burst := Window{Name: "burst", Limit: 100, Per: time.Second}
	sustained := Window{Name: "sustained", Limit: 1, Per: time.Hour}

	if res := l.Allow(ctx, "ip", burst, sustained); !res.Allowed {
		t.Fatalf("first hit should pass both windows")
	}
	if res := l.Allow(ctx, "ip", burst, sustained); res.Allowed {
		t.Fatalf("second hit should be denied by the sustained window")
	}
}

func TestWindowResets(t *testing.T) {
	l := NewWithStore(NewMemoryStore(100))
	ctx := context.Background()
	w := Window{Name: "tiny", Limit: 1, Per: 20 * time.Millisecond}

	if res := l.Allow(ctx, "ip", w); !res.Allowed {
		t.Fatalf("first hit should be allowed")
	}
	if res := l.Allow(ctx, "ip", w); res.Allowed {
		t.Fatalf("second hit should be denied")
	}

	time.Sleep(30 * time.Millisecond)

	if res := l.Allow(ctx, "ip", w); !res.Allowed {
		t.Fatalf("hit after reset should be allowed")
	}
}

func TestDedupeOnce(t *testing.T) {
	l := NewWithStore(NewMemoryStore(100))
	ctx := context.Background()

	if !l.DedupeOnce(ctx, "view:ip:slug", time.Minute) {
		t.Fatalf("first hit should be fresh")
	}
	if l.DedupeOnce(ctx, "view:ip:slug", time.Minute) {
		t.Fatalf("repeat hit within the window should be deduped")
	}
	if !l.DedupeOnce(ctx, "view:ip:other", time.Minute) {
		t.Fatalf("different key should be fresh")
	}
}

func TestDedupeExpires(t *testing.T) {
	l := NewWithStore(NewMemoryStore(100))
	ctx := context.Background()

	if !l.DedupeOnce(ctx, "k", 20*time.Millisecond) {
		t.Fatalf("first hit should be fresh")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.DedupeOnce(ctx, "k", 20*time.Millisecond) {
		t.Fatalf("hit after expiry should be fresh again")
	}
}

func TestMemoryStoreEviction(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		key := string(rune('a' + i))
		if _, _, err := s.Hit(ctx, key, time.Nanosecond); err != nil {
			t.Fatalf("hit failed: %v", err)
		}
	}
	time.Sleep(time.Millisecond)

	// The next hit sweeps expired entries since the map exceeds the cap.
	if _, _, err := s.Hit(ctx, "fresh", time.Minute); err != nil {
		t.Fatalf("hit failed: %v", err)
	}

	s.mu.Lock()
	size := len(s.entries)
	s.mu.Unlock()
	if size > 11 {
		t.Fatalf("expected stale entries to be evicted, map still holds %d", size)
	}
}
