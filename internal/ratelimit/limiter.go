package ratelimit

import (
	"fmt"
	"sync"

	"github.com/vmarins/oohplanner/internal/observability"
)

// BlockLimiter manages rate limiting for planning blocks.
//
// Each planning block gets its own token bucket, created lazily on first
// access, so one client hammering recalculation for a single block cannot
// starve the others.
type BlockLimiter struct {
	buckets map[string]*TokenBucket       // Map of planning block ID to token bucket
	mu      sync.RWMutex                  // Protects the buckets map
	config  Config                        // Rate limiting configuration
	metrics observability.MetricsRegistry // Metrics registry for tracking rate limiting activity
}

// Config holds the configuration for rate limiting.
type Config struct {
	Capacity   int  // Token bucket capacity (burst allowance)
	RefillRate int  // Tokens added per second (sustained rate)
	Enabled    bool // Whether rate limiting is active
}

// NewBlockLimiter creates a new planning block rate limiter with the given configuration.
func NewBlockLimiter(config Config, metrics observability.MetricsRegistry) *BlockLimiter {
	return &BlockLimiter{
		buckets: make(map[string]*TokenBucket),
		config:  config,
		metrics: metrics,
	}
}

// Allow checks if a recomputation request for the given planning block
// should be allowed. When rate limiting is disabled via config it always
// returns true.
func (bl *BlockLimiter) Allow(blockID string) bool {
	if !bl.config.Enabled {
		return true
	}

	bl.metrics.IncrementRateLimitRequests(blockID)

	bl.mu.RLock()
	bucket, exists := bl.buckets[blockID]
	bl.mu.RUnlock()

	if !exists {
		// Double-checked locking pattern to avoid race conditions
		bl.mu.Lock()
		bucket, exists = bl.buckets[blockID]
		if !exists {
			bucket = NewTokenBucket(bl.config.Capacity, bl.config.RefillRate)
			bl.buckets[blockID] = bucket
		}
		bl.mu.Unlock()
	}

	allowed := bucket.Allow()
	if !allowed {
		bl.metrics.IncrementRateLimitHits(blockID)
	}

	return allowed
}

// GetStats returns rate limiting statistics for all planning blocks.
func (bl *BlockLimiter) GetStats() map[string]RateLimitStats {
	bl.mu.RLock()
	defer bl.mu.RUnlock()

	stats := make(map[string]RateLimitStats)
	for blockID, bucket := range bl.buckets {
		hits, total := bucket.Stats()
		hitRate := 0.0
		if total > 0 {
			hitRate = float64(hits) / float64(total)
		}
		stats[blockID] = RateLimitStats{
			BlockID: blockID,
			Hits:    hits,
			Total:   total,
			HitRate: hitRate,
		}
	}

	return stats
}

// RateLimitStats contains statistics about rate limiting for a single planning block.
type RateLimitStats struct {
	BlockID string  `json:"BlockID"` // Planning block identifier
	Hits    int64   `json:"Hits"`    // Number of rate limited requests
	Total   int64   `json:"Total"`   // Total number of requests processed
	HitRate float64 `json:"HitRate"` // Fraction of requests rate limited (0.0-1.0)
}

// String returns a human-readable representation of the rate limit statistics.
func (rls RateLimitStats) String() string {
	return fmt.Sprintf("Block %s: %d/%d hits (%.2f%%)",
		rls.BlockID, rls.Hits, rls.Total, rls.HitRate*100)
}
