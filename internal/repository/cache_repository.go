package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
)

// DefaultCacheNamespace prefixes every key written by this service.
const DefaultCacheNamespace = "review-desk"

// CacheRepository keeps JSON documents in redis under a namespace. A nil client is an empty cache
// that accepts writes and drops them.
type CacheRepository struct {
	client    *redis.Client
	namespace string
}

// NewCacheRepository builds a repository; an empty namespace falls back to DefaultCacheNamespace.
func NewCacheRepository(client *redis.Client, namespace string) *CacheRepository {
	if namespace == "" {
		namespace = DefaultCacheNamespace
	}
	return &CacheRepository{client: client, namespace: namespace}
}

// Key returns the redis key stored for a logical key.
func (r *CacheRepository) Key(key string) string {
	return r.namespace + ":" + key
}

// Get decodes the document at key into dest. Absent keys and a missing client yield appErrors.ErrCacheMiss.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, r.Key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return appErrors.ErrCacheMiss
	case err != nil:
		return fmt.Errorf("read cache key %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode cache key %q: %w", key, err)
	}
	return nil
}

// Set encodes value and stores it at key for ttl. A zero ttl keeps the key until deleted.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache key %q: %w", key, err)
	}
	if err := r.client.Set(ctx, r.Key(key), doc, ttl).Err(); err != nil {
		return fmt.Errorf("write cache key %q: %w", key, err)
	}
	return nil
}

// Delete drops every given key in one round trip.
func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	if r.client == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.Key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("delete %d cache keys: %w", len(keys), err)
	}
	return nil
}
