package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

const (
	redisKeyPrefix = "nextup:recommend"
	redisVerKey    = redisKeyPrefix + ":ver"
)

// RedisStore caches results in Redis for server mode, where several
// processes may share one cache. Invalidation bumps a namespace version
// instead of scanning keys; stale entries expire via TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore creates a Redis-backed cache.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) namespacedKey(ctx context.Context, key string) string {
	ver, err := s.client.Get(ctx, redisVerKey).Result()
	if err != nil {
		ver = "0"
	}
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, ver, key)
}

// Get returns a cached result if present.
func (s *RedisStore) Get(ctx context.Context, key string) (*domain.Result, bool) {
	data, err := s.client.Get(ctx, s.namespacedKey(ctx, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("redis cache read failed", "error", err)
		}
		return nil, false
	}

	var result domain.Result
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn("corrupt cache entry dropped", "key", key, "error", err)
		return nil, false
	}
	return &result, true
}

// Set stores a result under the key.
func (s *RedisStore) Set(ctx context.Context, key string, result *domain.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}

	if err := s.client.Set(ctx, s.namespacedKey(ctx, key), data, s.ttl).Err(); err != nil {
		s.logger.Warn("redis cache write failed", "error", err)
	}
}

// Invalidate bumps the namespace version, orphaning all current entries.
func (s *RedisStore) Invalidate(ctx context.Context) error {
	return s.client.Incr(ctx, redisVerKey).Err()
}
