package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"posbackend/internal/caching"
	"posbackend/internal/config"
	"posbackend/internal/jobs/background"
	"posbackend/internal/services"
	"posbackend/pkg/database"
)

// Module wires storage, services, the HTTP server, background jobs and
// their lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newMasterPool,
		newRegistry,
		newCache,
		newImageStore,
		newJWKS,
		newPrometheusRegistry,
		newMetrics,
		newTenantRepo,
		newUserRepo,
		newHasher,
		newTenantService,
		newAuthService,
		newOrderService,
		newItemService,
		services.NewCategoryService,
		services.NewCustomerService,
		newEmployeeService,
		newHandlers,
		newEcho,
		newHTTPServer,
		newNotifications,
		newLowStockMonitor,
		newScheduler,
	),
	fx.Invoke(registerResources, registerLifecycle),
)

type resourceParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *slog.Logger
	Master    *pgxpool.Pool
	Registry  *database.Registry
	Cache     caching.CacheService
	Images    services.MinioService
	Notifier  services.NotificationService
	JWKS      *keyfunc.JWKS
}

// registerResources checks the image bucket on start and releases pools and
// clients on stop. It is invoked before registerLifecycle, so its OnStop
// runs after the server has drained.
func registerResources(p resourceParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.Images == nil {
				return nil
			}
			if err := p.Images.EnsureBucketExists(ctx); err != nil {
				p.Logger.Warn("image bucket unavailable", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if p.JWKS != nil {
				p.JWKS.EndBackground()
			}
			p.Registry.Close()
			p.Master.Close()
			var errs []error
			if p.Notifier != nil {
				errs = append(errs, p.Notifier.Close())
			}
			errs = append(errs, p.Cache.Close())
			return errors.Join(errs...)
		},
	})
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Scheduler  *background.JobScheduler
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting pos backend", slog.String("addr", p.Server.Addr))
			p.Scheduler.Start()
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			var errs []error
			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs = append(errs, err)
			}
			if err := p.Scheduler.Stop(); err != nil {
				errs = append(errs, err)
			}
			p.Logger.Info("pos backend stopped")
			return errors.Join(errs...)
		},
	})
}
