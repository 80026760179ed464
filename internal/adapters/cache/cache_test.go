package cache

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/adapters/repositories"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/db"
	"delivery-scheduler/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(context.Background(), conn))
	return conn
}

func TestSQLDistanceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSQLDistanceCache(openTestDB(t), db.SQLite)

	got, err := c.GetMany(ctx, "HUB", []string{"A", "B"})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.PutMany(ctx, "HUB", map[string]ports.DistanceResult{
		"A": {DistanceMeters: 100, DurationSeconds: 10},
		"B": {DistanceMeters: 200, DurationSeconds: 20},
	}))
	require.NoError(t, c.PutMany(ctx, "HUB", map[string]ports.DistanceResult{
		"B": {DistanceMeters: 250, DurationSeconds: 25},
	}))

	got, err = c.GetMany(ctx, "HUB", []string{"A", " B ", "A", "", "C"})
	require.NoError(t, err)
	assert.Equal(t, map[string]ports.DistanceResult{
		"A": {DistanceMeters: 100, DurationSeconds: 10},
		"B": {DistanceMeters: 250, DurationSeconds: 25},
	}, got)
}

func TestSQLDistanceCacheRejectsEmptyKeys(t *testing.T) {
	ctx := context.Background()
	c := NewSQLDistanceCache(openTestDB(t), db.SQLite)

	_, err := c.GetMany(ctx, "", []string{"A"})
	require.Error(t, err)
	require.Error(t, c.PutMany(ctx, "HUB", map[string]ports.DistanceResult{" ": {}}))
}

func TestSQLGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSQLGeocodeCache(openTestDB(t), db.SQLite)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"195 W Oakland Ave": {Lon: -111.89, Lat: 40.72},
	}))

	got, err := c.GetMany(ctx, []string{"195 W Oakland Ave", "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{"195 W Oakland Ave": {Lon: -111.89, Lat: 40.72}}, got)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisDistanceCacheBackfillsFromNext(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)

	sqlCache := NewSQLDistanceCache(openTestDB(t), db.SQLite)
	require.NoError(t, sqlCache.PutMany(ctx, "HUB", map[string]ports.DistanceResult{
		"A": {DistanceMeters: 100, DurationSeconds: 10},
	}))

	c := NewRedisDistanceCache(client, sqlCache, time.Hour)

	got, err := c.GetMany(ctx, "HUB", []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, map[string]ports.DistanceResult{"A": {DistanceMeters: 100, DurationSeconds: 10}}, got)

	assert.Equal(t, "100,10", mr.HGet("distance:HUB", "A"))
	assert.Equal(t, time.Hour, mr.TTL("distance:HUB"))
}

func TestRedisDistanceCacheWritesThrough(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	sqlCache := NewSQLDistanceCache(openTestDB(t), db.SQLite)
	c := NewRedisDistanceCache(client, sqlCache, 0)

	require.NoError(t, c.PutMany(ctx, "HUB", map[string]ports.DistanceResult{
		"B": {DistanceMeters: 300, DurationSeconds: 30},
	}))

	got, err := c.GetMany(ctx, "HUB", []string{"B"})
	require.NoError(t, err)
	assert.Equal(t, 300, got["B"].DistanceMeters)

	fromSQL, err := sqlCache.GetMany(ctx, "HUB", []string{"B"})
	require.NoError(t, err)
	assert.Equal(t, 30, fromSQL["B"].DurationSeconds)
}

func TestRedisDistanceCacheRejectsCorruptValue(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.HSet("distance:HUB", "A", "garbage")

	_, err := NewRedisDistanceCache(client, nil, 0).GetMany(context.Background(), "HUB", []string{"A"})
	require.Error(t, err)
}
