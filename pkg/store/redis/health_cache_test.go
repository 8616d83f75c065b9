package redis

import (
	"context"
	"testing"
	"time"

	"fitops/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*HealthCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewHealthCache(client, ttl), mr
}

func sampleSnapshot() *model.FleetHealthSnapshot {
	rt := 42.5
	return &model.FleetHealthSnapshot{
		Services: map[string]model.ServiceHealth{
			"fitneaseauth": {
				ServiceName:    "fitneaseauth",
				Status:         model.StatusHealthy,
				ResponseTimeMs: &rt,
				CheckedAt:      time.Now().UTC(),
			},
			"fitneaseml": {
				ServiceName: "fitneaseml",
				Status:      model.StatusUnhealthy,
				Error:       "connection refused",
				CheckedAt:   time.Now().UTC(),
			},
		},
		OverallStatus:     model.FleetDegraded,
		UnhealthyServices: []string{"fitneaseml"},
		ComputedAt:        time.Now().UTC(),
	}
}

func TestHealthCache_StoreAndLoad(t *testing.T) {
	cache, _ := newTestCache(t, 15*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, sampleSnapshot()))

	loaded, err := cache.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, model.FleetDegraded, loaded.OverallStatus)
	assert.Equal(t, []string{"fitneaseml"}, loaded.UnhealthyServices)
	require.Contains(t, loaded.Services, "fitneaseauth")
	require.NotNil(t, loaded.Services["fitneaseauth"].ResponseTimeMs)
	assert.Equal(t, 42.5, *loaded.Services["fitneaseauth"].ResponseTimeMs)
	assert.Equal(t, "connection refused", loaded.Services["fitneaseml"].Error)
}

func TestHealthCache_LoadMissIsNil(t *testing.T) {
	cache, _ := newTestCache(t, 15*time.Second)

	loaded, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestHealthCache_EntryExpires(t *testing.T) {
	cache, mr := newTestCache(t, 15*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, sampleSnapshot()))

	mr.FastForward(16 * time.Second)

	loaded, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestHealthCache_StoreOverwrites(t *testing.T) {
	cache, _ := newTestCache(t, 15*time.Second)
	ctx := context.Background()

	first := sampleSnapshot()
	require.NoError(t, cache.Store(ctx, first))

	second := sampleSnapshot()
	second.OverallStatus = model.FleetHealthy
	second.UnhealthyServices = []string{}
	require.NoError(t, cache.Store(ctx, second))

	loaded, err := cache.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, model.FleetHealthy, loaded.OverallStatus)
}
