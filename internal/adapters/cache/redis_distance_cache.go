package cache

import (
	"context"
	"delivery-scheduler/internal/metrics"
	"delivery-scheduler/internal/platform/obs"
	"delivery-scheduler/internal/ports"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisDistanceCache keeps distance results in one Redis hash per origin,
// field = destination, value = "meters,seconds". When Next is set, misses
// fall through to it and the answers are written back to Redis.
type RedisDistanceCache struct {
	Client *redis.Client
	Next   ports.DistanceCache
	TTL    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, next ports.DistanceCache, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{Client: client, Next: next, TTL: ttl}
}

// NewRedisClient connects using a redis:// URL.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis client: parse url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis client: ping: %w", err)
	}
	return client, nil
}

func (c *RedisDistanceCache) key(origin string) string { return "distance:" + origin }

// Fetch cached distances for one origin and multiple destinations.
func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.redis.GetMany")(&err)

	if c.Client == nil {
		return nil, errors.New("redis distance cache: client is nil")
	}
	if origin == "" {
		return nil, errors.New("get redis distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	out := make(map[string]ports.DistanceResult, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}

	vals, err := c.Client.HMGet(ctx, c.key(origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis distance cache: hmget: %w", err)
	}

	missing := make([]string, 0)
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, uniq[i])
			continue
		}
		r, err := decodeDistance(s)
		if err != nil {
			return nil, fmt.Errorf("get redis distance cache dest=%q: %w", uniq[i], err)
		}
		out[uniq[i]] = r
	}

	metrics.DistanceCacheLookups.WithLabelValues("redis", "hit").Add(float64(len(out)))
	metrics.DistanceCacheLookups.WithLabelValues("redis", "miss").Add(float64(len(missing)))

	if len(missing) == 0 || c.Next == nil {
		return out, nil
	}

	backfill, err := c.Next.GetMany(ctx, origin, missing)
	if err != nil {
		return nil, fmt.Errorf("get redis distance cache: next: %w", err)
	}
	if len(backfill) > 0 {
		if err := c.put(ctx, origin, backfill); err != nil {
			return nil, err
		}
	}
	for dest, r := range backfill {
		out[dest] = r
	}

	return out, nil
}

// Store many cached distance results for a single origin, in Redis and in Next.
func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if c.Client == nil {
		return errors.New("redis distance cache: client is nil")
	}
	if origin == "" {
		return errors.New("insert redis distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	if err := c.put(ctx, origin, results); err != nil {
		return err
	}
	if c.Next != nil {
		if err := c.Next.PutMany(ctx, origin, results); err != nil {
			return fmt.Errorf("insert redis distance cache: next: %w", err)
		}
	}
	return nil
}

func (c *RedisDistanceCache) put(ctx context.Context, origin string, results map[string]ports.DistanceResult) error {
	fields := make([]any, 0, 2*len(results))
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert redis distance cache: empty destination key")
		}
		fields = append(fields, dest, encodeDistance(r))
	}

	pipe := c.Client.TxPipeline()
	pipe.HSet(ctx, c.key(origin), fields...)
	if c.TTL > 0 {
		pipe.Expire(ctx, c.key(origin), c.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert redis distance cache: %w", err)
	}
	return nil
}

func encodeDistance(r ports.DistanceResult) string {
	return strconv.Itoa(r.DistanceMeters) + "," + strconv.Itoa(r.DurationSeconds)
}

func decodeDistance(s string) (ports.DistanceResult, error) {
	meters, seconds, ok := strings.Cut(s, ",")
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("malformed value %q", s)
	}
	m, err := strconv.Atoi(meters)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed meters %q: %w", meters, err)
	}
	sec, err := strconv.Atoi(seconds)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed seconds %q: %w", seconds, err)
	}
	return ports.DistanceResult{DistanceMeters: m, DurationSeconds: sec}, nil
}
