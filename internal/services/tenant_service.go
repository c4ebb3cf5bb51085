package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"posbackend/internal/caching"
	"posbackend/internal/common"
	"posbackend/internal/metrics"
	"posbackend/internal/models"
	"posbackend/internal/repositories"
	"posbackend/pkg/database"
)

// TenantHandle is the database a request runs against.
type TenantHandle struct {
	Name string
	DB   repositories.Database
}

// PoolProvider hands out the cached pool for a tenant database.
type PoolProvider interface {
	Get(ctx context.Context, dbName string) (database.Pool, error)
}

// TenantService resolves the tenant database for a request.
type TenantService interface {
	Resolve(ctx context.Context, principal *models.Principal) (*TenantHandle, error)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	pools      PoolProvider
	cache      caching.CacheService
	cacheTTL   time.Duration
	defaultDB  string
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewTenantService builds the resolver. defaultDB serves requests that
// carry no principal; when empty such requests fail.
func NewTenantService(tenantRepo repositories.TenantRepository, pools PoolProvider, cache caching.CacheService,
	cacheTTL time.Duration, defaultDB string, m *metrics.Metrics, logger *slog.Logger) TenantService {
	return &tenantService{
		tenantRepo: tenantRepo,
		pools:      pools,
		cache:      cache,
		cacheTTL:   cacheTTL,
		defaultDB:  defaultDB,
		metrics:    m,
		logger:     logger,
	}
}

func (s *tenantService) Resolve(ctx context.Context, principal *models.Principal) (*TenantHandle, error) {
	dbName, err := s.dbName(ctx, principal)
	if err != nil {
		return nil, err
	}

	pool, err := s.pools.Get(ctx, dbName)
	if err != nil {
		// A stale mapping would keep pointing every request at the broken database.
		if principal != nil {
			s.evict(ctx, principal.TenantID)
		}
		return nil, fmt.Errorf("tenant pool %s: %w", dbName, err)
	}
	return &TenantHandle{Name: dbName, DB: pool}, nil
}

// dbName maps the principal to its tenant's physical database name.
func (s *tenantService) dbName(ctx context.Context, principal *models.Principal) (string, error) {
	if principal == nil {
		if s.defaultDB == "" {
			return "", common.ErrTenantNotConfigured
		}
		return s.defaultDB, nil
	}

	if dbName, err := s.cache.GetTenantDB(ctx, principal.TenantID); err != nil {
		s.logger.Warn("tenant cache read failed", slog.Int64("tenant_id", principal.TenantID), slog.String("error", err.Error()))
	} else if dbName != "" {
		s.countCache(true)
		return dbName, nil
	}
	s.countCache(false)

	dbName, err := s.tenantRepo.GetActiveDBName(ctx, principal.TenantID)
	if err != nil {
		if errors.Is(err, common.ErrTenantNotFound) {
			s.logger.Warn("tenant not found or inactive", slog.Int64("tenant_id", principal.TenantID),
				slog.Int64("user_id", principal.UserID))
			s.evict(ctx, principal.TenantID)
		}
		return "", err
	}

	if err := s.cache.SetTenantDB(ctx, principal.TenantID, dbName, s.cacheTTL); err != nil {
		s.logger.Warn("tenant cache write failed", slog.Int64("tenant_id", principal.TenantID), slog.String("error", err.Error()))
	}
	return dbName, nil
}

func (s *tenantService) evict(ctx context.Context, tenantID int64) {
	if err := s.cache.DeleteTenantDB(ctx, tenantID); err != nil {
		s.logger.Warn("tenant cache evict failed", slog.Int64("tenant_id", tenantID), slog.String("error", err.Error()))
	}
}

func (s *tenantService) countCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.TenantCacheHits.Inc()
	} else {
		s.metrics.TenantCacheMisses.Inc()
	}
}
