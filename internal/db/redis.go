package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/models"
)

// ErrPlanNotFound is returned when no cached plan exists for a planning block.
var ErrPlanNotFound = errors.New("plan not found")

// RedisStore wraps a redis client used as the plan cache.
type RedisStore struct {
	Client *redis.Client
	Ctx    context.Context
}

// InitRedis initializes a Redis client and returns a RedisStore.
func InitRedis(addr string) (*RedisStore, error) {
	rs := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Ctx:    context.Background(),
	}

	// Add OpenTelemetry instrumentation to Redis client
	if err := redisotel.InstrumentTracing(rs.Client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := rs.Client.Ping(rs.Ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))
	return rs, nil
}

func planKey(blockID string) string {
	return fmt.Sprintf("plan:block:%s", blockID)
}

// SavePlan stores the ideal plan for a planning block with the given TTL.
func (r *RedisStore) SavePlan(blockID string, plan *models.IdealPlan, ttl time.Duration) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := r.Client.Set(r.Ctx, planKey(blockID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

// GetPlan retrieves the cached ideal plan for a planning block.
// Returns ErrPlanNotFound when the block has no cached plan.
func (r *RedisStore) GetPlan(blockID string) (*models.IdealPlan, error) {
	data, err := r.Client.Get(r.Ctx, planKey(blockID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	var plan models.IdealPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	return &plan, nil
}

// DeletePlan removes the cached plan for a planning block. Deleting a
// missing plan is not an error.
func (r *RedisStore) DeletePlan(blockID string) error {
	if err := r.Client.Del(r.Ctx, planKey(blockID)).Err(); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// Close shuts down the Redis client.
func (r *RedisStore) Close() {
	if r != nil && r.Client != nil {
		if err := r.Client.Close(); err != nil {
			zap.L().Error("redis close", zap.Error(err))
		}
	}
}
