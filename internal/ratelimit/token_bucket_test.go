package ratelimit

import (
	"testing"
	"time"

	"github.com/vmarins/oohplanner/internal/observability"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := NewTokenBucket(5, 1) // 5 tokens, refill 1 per second

	// Should allow 5 requests initially
	for i := 0; i < 5; i++ {
		if !bucket.Allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	// 6th request should be blocked
	if bucket.Allow() {
		t.Error("Expected 6th request to be blocked")
	}

	hits, total := bucket.Stats()
	if hits != 1 {
		t.Errorf("Expected 1 hit, got %d", hits)
	}
	if total != 6 {
		t.Errorf("Expected 6 total requests, got %d", total)
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := NewTokenBucket(2, 10) // 2 tokens, refill 10 per second

	// Exhaust tokens
	bucket.Allow()
	bucket.Allow()

	if bucket.Allow() {
		t.Error("Expected request to be blocked")
	}

	// Wait and try again (tokens should refill)
	time.Sleep(200 * time.Millisecond)

	if !bucket.Allow() {
		t.Error("Expected request to be allowed after refill")
	}
}

func TestBlockLimiter_Isolation(t *testing.T) {
	limiter := NewBlockLimiter(Config{Capacity: 1, RefillRate: 1, Enabled: true}, observability.NewNoOpRegistry())

	if !limiter.Allow("block-a") {
		t.Error("Expected first request for block-a to be allowed")
	}
	if limiter.Allow("block-a") {
		t.Error("Expected second request for block-a to be blocked")
	}

	// A different block has its own bucket.
	if !limiter.Allow("block-b") {
		t.Error("Expected first request for block-b to be allowed")
	}
}

func TestBlockLimiter_Disabled(t *testing.T) {
	limiter := NewBlockLimiter(Config{Capacity: 0, RefillRate: 0, Enabled: false}, observability.NewNoOpRegistry())

	for i := 0; i < 10; i++ {
		if !limiter.Allow("any") {
			t.Error("Expected disabled limiter to always allow")
		}
	}
}
