package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"posbackend/internal/metrics"
	"posbackend/internal/models"
	"posbackend/internal/repositories"
	"posbackend/pkg/database"
)

// PoolSource lists the open tenant pools and hands them out by name.
type PoolSource interface {
	Names() []string
	Get(ctx context.Context, dbName string) (database.Pool, error)
}

// AlertPublisher forwards a tenant's low-stock items to subscribers.
type AlertPublisher interface {
	PublishLowStock(ctx context.Context, dbName string, items []*models.LowStockItem) error
}

// LowStockMonitor reports items at or below their minimum stock level in
// every tenant database with an open pool.
type LowStockMonitor struct {
	pools   PoolSource
	newRepo func(repositories.Database) repositories.ItemRepository
	alerts  AlertPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLowStockMonitor builds the monitor. alerts may be nil, in which case
// findings are only logged and exported as metrics.
func NewLowStockMonitor(pools PoolSource, alerts AlertPublisher, m *metrics.Metrics, logger *slog.Logger) *LowStockMonitor {
	return &LowStockMonitor{
		pools:   pools,
		newRepo: repositories.NewItemRepo,
		alerts:  alerts,
		metrics: m,
		logger:  logger,
	}
}

// CheckTenant returns the low-stock items of one tenant database.
func (a *LowStockMonitor) CheckTenant(ctx context.Context, dbName string) ([]*models.LowStockItem, error) {
	pool, err := a.pools.Get(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("tenant pool %s: %w", dbName, err)
	}
	items, err := a.newRepo(pool).ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock in %s: %w", dbName, err)
	}
	return items, nil
}

// Run checks each tenant in turn. A failing tenant is logged and skipped.
func (a *LowStockMonitor) Run(ctx context.Context) {
	names := a.pools.Names()
	for _, dbName := range names {
		if ctx.Err() != nil {
			return
		}
		items, err := a.CheckTenant(ctx, dbName)
		if err != nil {
			a.logger.Error("low stock check failed", slog.String("tenant_db", dbName), slog.String("error", err.Error()))
			continue
		}
		if a.metrics != nil {
			a.metrics.LowStockItems.WithLabelValues(dbName).Set(float64(len(items)))
		}
		a.LogLowStockAlerts(dbName, items)
		if a.alerts != nil && len(items) > 0 {
			if err := a.alerts.PublishLowStock(ctx, dbName, items); err != nil {
				a.logger.Warn("low stock alert not published", slog.String("tenant_db", dbName), slog.String("error", err.Error()))
			}
		}
	}
}

func (a *LowStockMonitor) LogLowStockAlerts(dbName string, items []*models.LowStockItem) {
	if len(items) == 0 {
		a.logger.Debug("no low stock items", slog.String("tenant_db", dbName))
		return
	}
	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.Code)
	}
	a.logger.Warn("low stock items",
		slog.String("tenant_db", dbName),
		slog.Int("count", len(items)),
		slog.String("codes", strings.Join(codes, ",")))
}
