package app

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"golang.org/x/time/rate"

	"posbackend/internal/caching"
	"posbackend/internal/config"
	"posbackend/internal/handlers"
	"posbackend/internal/metrics"
	"posbackend/internal/middleware"
	"posbackend/internal/services"
	"posbackend/pkg/database"
)

type handlerParams struct {
	fx.In

	Logger     *slog.Logger
	Master     *pgxpool.Pool
	Registry   *database.Registry
	Cache      caching.CacheService
	Auth       services.AuthService
	Orders     services.OrderServiceInterface
	Items      services.ItemService
	Categories services.CategoryService
	Customers  services.CustomerService
	Employees  services.EmployeeService
}

func newHandlers(p handlerParams) *handlers.Handlers {
	return &handlers.Handlers{
		Auth:       handlers.NewAuthHandlers(p.Auth, p.Logger),
		Health:     handlers.NewHealthHandlers(p.Master, p.Cache, p.Registry),
		Orders:     handlers.NewOrderHandlers(p.Orders, p.Logger),
		Items:      handlers.NewItemHandlers(p.Items, p.Logger),
		Categories: handlers.NewCategoryHandlers(p.Categories, p.Logger),
		Customers:  handlers.NewCustomerHandlers(p.Customers, p.Logger),
		Employees:  handlers.NewEmployeeHandlers(p.Employees, p.Logger),
	}
}

// loginLimiter throttles POST /api/auth/login per client IP. A non-positive
// rate disables it.
func loginLimiter(limit float64) echo.MiddlewareFunc {
	if limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStore(rate.Limit(limit)),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts")
		},
	})
}

type echoParams struct {
	fx.In

	Config     *config.Config
	Logger     *slog.Logger
	Handlers   *handlers.Handlers
	Auth       services.AuthService
	Tenants    services.TenantService
	Metrics    *metrics.Metrics
	Prometheus *prometheus.Registry
}

func newEcho(p echoParams) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler(p.Logger)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestContext())
	e.Use(middleware.RequestLogger(p.Logger, p.Metrics))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: p.Config.CORSOrigin}))

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(p.Prometheus, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(e, p.Handlers,
		middleware.JWTMiddleware(p.Auth, p.Logger),
		middleware.NewTenantMiddleware(p.Tenants, p.Logger),
		loginLimiter(p.Config.LoginRateLimit),
	)
	return e
}

func newHTTPServer(cfg *config.Config, e *echo.Echo) *http.Server {
	return &http.Server{
		Addr:    cfg.Addr(),
		Handler: e,
	}
}
