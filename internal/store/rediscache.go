package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/linkmint/linkmint/internal/shortlink"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis implementation of shortlink.CacheStore. Structured
// records are hashes under "link:<code>" with a TTL; legacy entries are the
// plain strings the previous deployment wrote under "url:<code>". The
// lookup path migrates legacy entries to the structured shape on read.
type RedisCache struct {
	client       *redis.Client
	prefix       string
	legacyPrefix string
}

// NewRedisCache creates a new Redis-backed cache store.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:       client,
		prefix:       "link:",
		legacyPrefix: "url:",
	}
}

func (r *RedisCache) GetStructured(ctx context.Context, code shortlink.Code) (*shortlink.Record, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortlink.ErrCacheMiss
		}

		return nil, err
	}

	if len(result) == 0 {
		return nil, shortlink.ErrCacheMiss
	}

	rec := &shortlink.Record{
		Target:   result["target"],
		Code:     result["code"],
		Owner:    result["owner"],
		Category: result["category"],
		Status:   result["status"],
	}

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		rec.CreatedAt = time.Unix(0, nanos)
	}

	if ts, ok := result["last_accessed"]; ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.LastAccessed = t
		}
	}

	return rec, nil
}

func (r *RedisCache) GetLegacy(ctx context.Context, code shortlink.Code) (string, error) {
	target, err := r.client.Get(ctx, r.legacyPrefix+string(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortlink.ErrCacheMiss
		}

		return "", err
	}

	return target, nil
}

func (r *RedisCache) SetStructured(ctx context.Context, code shortlink.Code, rec *shortlink.Record, ttl time.Duration) error {
	key := r.prefix + string(code)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"target":     rec.Target,
		"code":       rec.Code,
		"owner":      rec.Owner,
		"category":   rec.Category,
		"status":     rec.Status,
		"created_at": rec.CreatedAt.UnixNano(),
	})

	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}

	_, err := pipe.Exec(ctx)

	return err
}

func (r *RedisCache) DeleteLegacy(ctx context.Context, code shortlink.Code) error {
	return r.client.Del(ctx, r.legacyPrefix+string(code)).Err()
}

func (r *RedisCache) UpdateField(ctx context.Context, code shortlink.Code, field, value string) error {
	key := r.prefix + string(code)

	// Only touch existing records so a best-effort field update cannot
	// resurrect an expired key as a TTL-less hash.
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return err
	}

	return r.client.HSet(ctx, key, field, value).Err()
}

// Compile-time check.
var _ shortlink.CacheStore = (*RedisCache)(nil)
