package caching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pos"

type CacheService interface {
	// Tenant directory caching
	GetTenantDB(ctx context.Context, tenantID int64) (string, error)
	SetTenantDB(ctx context.Context, tenantID int64, dbName string, ttl time.Duration) error
	DeleteTenantDB(ctx context.Context, tenantID int64) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

func tenantDBKey(tenantID int64) string {
	return fmt.Sprintf("%s:tenant:%d:db", keyPrefix, tenantID)
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects to Redis at addr. A redis:// or rediss://
// prefix is accepted and stripped.
func NewRedisCacheService(addr, password string, db int, logger *slog.Logger) CacheService {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis ping failed", slog.String("addr", parsedAddr), slog.String("error", err.Error()))
	} else {
		logger.Info("redis connected", slog.String("addr", parsedAddr))
	}

	return &redisCacheService{client: client}
}

// GetTenantDB returns "" with a nil error on a cache miss.
func (r *redisCacheService) GetTenantDB(ctx context.Context, tenantID int64) (string, error) {
	dbName, err := r.client.Get(ctx, tenantDBKey(tenantID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil // cache miss
		}
		return "", err
	}
	return dbName, nil
}

func (r *redisCacheService) SetTenantDB(ctx context.Context, tenantID int64, dbName string, ttl time.Duration) error {
	return r.client.Set(ctx, tenantDBKey(tenantID), dbName, ttl).Err()
}

func (r *redisCacheService) DeleteTenantDB(ctx context.Context, tenantID int64) error {
	return r.client.Del(ctx, tenantDBKey(tenantID)).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := rateLimitKey(key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiry on first request. A counter left without a TTL would
	// lock the key out for good, so drop it when the expiry fails.
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			return false, errors.Join(fmt.Errorf("expire %s: %w", cacheKey, err), r.client.Del(ctx, cacheKey).Err())
		}
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}

// noopCacheService is used when no Redis address is configured. Every
// lookup misses and nothing is ever rate limited.
type noopCacheService struct{}

func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetTenantDB(context.Context, int64) (string, error) { return "", nil }

func (noopCacheService) SetTenantDB(context.Context, int64, string, time.Duration) error { return nil }

func (noopCacheService) DeleteTenantDB(context.Context, int64) error { return nil }

func (noopCacheService) IsRateLimited(context.Context, string, int, time.Duration) (bool, error) {
	return false, nil
}

func (noopCacheService) Ping(context.Context) error { return nil }

func (noopCacheService) Close() error { return nil }
