package app

import (
	"log/slog"

	"posbackend/internal/config"
	"posbackend/internal/jobs"
	"posbackend/internal/jobs/background"
	"posbackend/internal/metrics"
	"posbackend/internal/services"
	"posbackend/pkg/database"
)

// newNotifications returns nil when REDIS_ADDR is unset.
func newNotifications(cfg *config.Config, logger *slog.Logger) services.NotificationService {
	if cfg.RedisAddr == "" {
		return nil
	}
	return services.NewNotificationService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
}

func newLowStockMonitor(registry *database.Registry, notifications services.NotificationService,
	m *metrics.Metrics, logger *slog.Logger) *jobs.LowStockMonitor {
	var alerts jobs.AlertPublisher
	if notifications != nil {
		alerts = notifications
	}
	return jobs.NewLowStockMonitor(registry, alerts, m, logger)
}

// newScheduler registers the periodic jobs. Nothing runs until Start.
func newScheduler(cfg *config.Config, monitor *jobs.LowStockMonitor, logger *slog.Logger) (*background.JobScheduler, error) {
	scheduler, err := background.NewJobScheduler(logger)
	if err != nil {
		return nil, err
	}
	if err := scheduler.Every("low-stock", cfg.LowStockInterval, monitor); err != nil {
		_ = scheduler.Stop()
		return nil, err
	}
	return scheduler, nil
}
