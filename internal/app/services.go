package app

import (
	"log/slog"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"posbackend/internal/caching"
	"posbackend/internal/config"
	"posbackend/internal/metrics"
	"posbackend/internal/repositories"
	"posbackend/internal/services"
	"posbackend/pkg/database"
)

func newTenantRepo(master *pgxpool.Pool) repositories.TenantRepository {
	return repositories.NewTenantRepo(master)
}

func newUserRepo(master *pgxpool.Pool) repositories.UserRepository {
	return repositories.NewUserRepo(master)
}

func newHasher() services.PasswordHasher {
	return services.NewBcryptHasher(0)
}

type tenantParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Repo     repositories.TenantRepository
	Registry *database.Registry
	Cache    caching.CacheService
	Metrics  *metrics.Metrics
}

func newTenantService(p tenantParams) services.TenantService {
	return services.NewTenantService(p.Repo, p.Registry, p.Cache, p.Config.TenantCacheTTL,
		p.Config.DefaultTenantDB, p.Metrics, p.Logger)
}

type authParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Users  repositories.UserRepository
	Cache  caching.CacheService
	Hasher services.PasswordHasher
	JWKS   *keyfunc.JWKS
}

func newAuthService(p authParams) services.AuthService {
	opts := services.AuthOptions{
		Secret:        p.Config.JWTSecret,
		TokenTTL:      p.Config.JWTTTL,
		LoginAttempts: p.Config.LoginAttempts,
		LoginWindow:   p.Config.LoginWindow,
	}
	if p.JWKS != nil {
		opts.JWKS = p.JWKS.Keyfunc
	}
	return services.NewAuthService(p.Users, p.Cache, p.Hasher, opts, p.Logger)
}

func newOrderService(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) services.OrderServiceInterface {
	return services.NewOrderService(cfg.StrictStock, m, logger)
}

func newItemService(images services.MinioService, logger *slog.Logger) services.ItemService {
	return services.NewItemService(images, logger)
}

func newEmployeeService(hasher services.PasswordHasher) services.EmployeeService {
	return services.NewEmployeeService(hasher)
}
