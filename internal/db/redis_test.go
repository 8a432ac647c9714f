package db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmarins/oohplanner/internal/models"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rs := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		Ctx:    context.Background(),
	}
	t.Cleanup(rs.Close)
	return rs, mr
}

func TestPlanCacheRoundTrip(t *testing.T) {
	rs, _ := newTestStore(t)

	plan := &models.IdealPlan{
		ID:       "test-plan",
		Taxonomy: "Varejo",
		Market:   "São Paulo",
		Budget:   30000,
		Groups: []models.FormatGroup{
			{Format: "Outdoor", RecommendedQty: 5, TotalCost: 6000},
		},
	}
	require.NoError(t, rs.SavePlan("block-1", plan, time.Hour))

	got, err := rs.GetPlan("block-1")
	require.NoError(t, err)
	assert.Equal(t, plan, got)
}

func TestPlanCacheMiss(t *testing.T) {
	rs, _ := newTestStore(t)

	_, err := rs.GetPlan("missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPlanCacheDelete(t *testing.T) {
	rs, _ := newTestStore(t)

	require.NoError(t, rs.SavePlan("block-2", &models.IdealPlan{ID: "p"}, time.Hour))
	require.NoError(t, rs.DeletePlan("block-2"))

	_, err := rs.GetPlan("block-2")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	// Deleting an absent plan is a no-op.
	assert.NoError(t, rs.DeletePlan("block-2"))
}

func TestPlanCacheTTL(t *testing.T) {
	rs, mr := newTestStore(t)

	require.NoError(t, rs.SavePlan("block-3", &models.IdealPlan{ID: "p"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := rs.GetPlan("block-3")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
