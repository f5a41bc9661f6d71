package middleware

import (
	"testing"
	"time"

	"github.com/tarealabs/tareabot/internal/config"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	now := time.Now()
	r := newRateLimiter(now)

	for i := 0; i < config.RateLimitPerMinute; i++ {
		if !r.allow(7, now) {
			t.Fatalf("message %d blocked below the limit", i+1)
		}
	}
	if r.allow(7, now) {
		t.Fatal("message over the limit must be blocked")
	}

	// Other chats are unaffected.
	if !r.allow(8, now) {
		t.Fatal("separate chat must have its own window")
	}
}

func TestRateLimiterWindowRollsOver(t *testing.T) {
	now := time.Now()
	r := newRateLimiter(now)

	for i := 0; i <= config.RateLimitPerMinute; i++ {
		r.allow(7, now)
	}

	later := now.Add(61 * time.Second)
	if !r.allow(7, later) {
		t.Fatal("fresh window must admit messages again")
	}
}

func TestRateLimiterEvictsIdleChats(t *testing.T) {
	now := time.Now()
	r := newRateLimiter(now)

	for chat := int64(1); chat <= 50; chat++ {
		r.allow(chat, now)
	}
	if got := r.size(); got != 50 {
		t.Fatalf("size = %d, want 50", got)
	}

	// One active chat after the sweep interval; idle windows are gone.
	later := now.Add(2 * time.Minute)
	r.allow(51, later)
	if got := r.size(); got != 1 {
		t.Fatalf("size = %d after sweep, want 1", got)
	}
}
