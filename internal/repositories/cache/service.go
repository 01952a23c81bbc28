package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cargomail/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// DeleteByPattern removes all keys matching a glob pattern.
func (s *CacheService) DeleteByPattern(ctx context.Context, pattern string) error {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return s.client.Del(ctx, keys...).Err()
	}
	return nil
}

// CachedLookup is the envelope stored for resolver results. Found=false caches
// the "no configured rate" outcome so repeated misses skip the database too.
type CachedLookup struct {
	Found bool               `json:"found"`
	Rate  *models.TariffRate `json:"rate,omitempty"`
}

// LookupKey builds the cache key for a weightless resolver lookup. The route
// segment comes first so route-wide invalidation can match on a prefix.
// Weighted lookups are never cached, so weight is not part of the key.
func LookupKey(origin, destination, category, service, day string) string {
	return fmt.Sprintf("rate:lookup:%s|%s:%s|%s|%s", origin, destination, category, service, day)
}

// RoutePattern matches every cached lookup for a route, for invalidation on
// rate mutations.
func RoutePattern(origin, destination string) string {
	return fmt.Sprintf("rate:lookup:%s|%s:*", origin, destination)
}

func (s *CacheService) GetLookup(ctx context.Context, key string) (*CachedLookup, bool) {
	var entry CachedLookup
	found, err := s.Get(ctx, key, &entry)
	if err != nil || !found {
		return nil, false
	}
	return &entry, true
}

func (s *CacheService) SetLookup(ctx context.Context, key string, entry *CachedLookup) error {
	return s.Set(ctx, key, entry)
}

// InvalidateRoute drops every cached lookup for a route.
func (s *CacheService) InvalidateRoute(ctx context.Context, origin, destination string) error {
	return s.DeleteByPattern(ctx, RoutePattern(origin, destination))
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}
