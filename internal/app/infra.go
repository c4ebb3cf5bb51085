package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"posbackend/internal/caching"
	"posbackend/internal/config"
	"posbackend/internal/metrics"
	"posbackend/internal/repositories"
	"posbackend/internal/services"
	"posbackend/pkg/database"
)

const jwksRefreshInterval = time.Hour

type infraParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newMasterPool(p infraParams) (*pgxpool.Pool, error) {
	return database.NewPool(p.Ctx, p.Config.MasterDatabaseURL, p.Logger)
}

// newRegistry builds the tenant pool cache. With TENANT_AUTO_MIGRATE set,
// every tenant database gets the schema applied when its pool is first
// opened.
func newRegistry(p infraParams) (*database.Registry, error) {
	factory, err := database.TenantPoolFactory(p.Config.TenantDatabaseURL, p.Config.TenantPoolMaxConns)
	if err != nil {
		return nil, err
	}

	var init database.Initializer
	if p.Config.TenantAutoMigrate {
		init = func(ctx context.Context, dbName string, pool database.Pool) error {
			p.Logger.Info("applying tenant schema", slog.String("database", dbName))
			return repositories.ApplySchema(ctx, pool, repositories.TenantSchema)
		}
	}
	return database.NewRegistry(factory, init, p.Logger), nil
}

func newCache(p infraParams) caching.CacheService {
	if p.Config.RedisAddr == "" {
		p.Logger.Info("REDIS_ADDR not set, tenant lookups and login limits are not cached")
		return caching.NewNoopCacheService()
	}
	return caching.NewRedisCacheService(p.Config.RedisAddr, p.Config.RedisPassword, p.Config.RedisDB, p.Logger)
}

// newImageStore returns nil when MINIO_ENDPOINT is unset; image uploads
// then answer 503.
func newImageStore(p infraParams) (services.MinioService, error) {
	if p.Config.MinioEndpoint == "" {
		p.Logger.Info("MINIO_ENDPOINT not set, item image uploads disabled")
		return nil, nil
	}
	return services.NewMinioService(p.Config.MinioEndpoint, p.Config.MinioAccessKey, p.Config.MinioSecretKey,
		p.Config.MinioBucket, p.Config.MinioUseSSL, p.Logger)
}

// newJWKS fetches the verification keys for RS/ES tokens. It returns nil
// when JWT_JWKS_URL is unset.
func newJWKS(p infraParams) (*keyfunc.JWKS, error) {
	if p.Config.JWTJWKSURL == "" {
		return nil, nil
	}
	return keyfunc.Get(p.Config.JWTJWKSURL, keyfunc.Options{
		Ctx:               p.Ctx,
		RefreshInterval:   jwksRefreshInterval,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			p.Logger.Warn("jwks refresh failed", slog.String("error", err.Error()))
		},
	})
}

func newPrometheusRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newMetrics(reg *prometheus.Registry, registry *database.Registry) *metrics.Metrics {
	m := metrics.New(reg)
	metrics.RegisterPoolGauge(reg, registry.Len)
	return m
}
