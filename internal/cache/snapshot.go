// Package cache memoizes dashboard computations in Redis.
//
// A cached dashboard is keyed by a digest of the exact positions and view
// state it was built from, so a hit is always identical to recomputing.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/trogers1052/portfolio-rollup/internal/models"
	"github.com/trogers1052/portfolio-rollup/internal/rollup"
)

const keyPrefix = "rollup:dashboard:"

// Store is the subset of a Redis client used for memoization
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// DashboardCache wraps rollup.BuildDashboard with a Redis memo
type DashboardCache struct {
	store Store
	ttl   time.Duration
	log   zerolog.Logger
}

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewDashboardCache creates a cache. A nil store disables caching.
func NewDashboardCache(store Store, ttl time.Duration, log zerolog.Logger) *DashboardCache {
	return &DashboardCache{
		store: store,
		ttl:   ttl,
		log:   log.With().Str("component", "dashboard_cache").Logger(),
	}
}

// Dashboard returns the dashboard for positions and state, from cache when
// possible. Cache errors are logged and fall back to computing.
func (c *DashboardCache) Dashboard(ctx context.Context, positions []models.Position, state rollup.ViewState) rollup.Dashboard {
	if c == nil || c.store == nil {
		return rollup.BuildDashboard(positions, state)
	}

	key, err := Key(positions, state)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to build cache key")
		return rollup.BuildDashboard(positions, state)
	}

	if dash, ok := c.get(ctx, key); ok {
		return dash
	}

	dash := rollup.BuildDashboard(positions, state)
	c.set(ctx, key, dash)
	return dash
}

func (c *DashboardCache) get(ctx context.Context, key string) (rollup.Dashboard, bool) {
	var dash rollup.Dashboard

	data, err := c.store.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return dash, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return dash, false
	}

	if err := json.Unmarshal(data, &dash); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cache entry")
		return dash, false
	}
	c.log.Debug().Str("key", key).Msg("Cache hit")
	return dash, true
}

func (c *DashboardCache) set(ctx context.Context, key string, dash rollup.Dashboard) {
	data, err := json.Marshal(dash)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to encode dashboard")
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Key derives the cache key for a positions snapshot and view state
func Key(positions []models.Position, state rollup.ViewState) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(positions); err != nil {
		return "", fmt.Errorf("failed to hash positions: %w", err)
	}
	if err := enc.Encode(state); err != nil {
		return "", fmt.Errorf("failed to hash view state: %w", err)
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}
