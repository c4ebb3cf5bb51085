package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pos"

// Metrics holds every Prometheus collector the backend publishes.
type Metrics struct {
	OrdersCreated      prometheus.Counter
	OrderFailures      *prometheus.CounterVec
	OrderDuration      prometheus.Histogram
	OrderCancellations prometheus.Counter
	TenantCacheHits    prometheus.Counter
	TenantCacheMisses  prometheus.Counter
	LowStockItems      *prometheus.GaugeVec
	HTTPRequests       *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total number of committed orders.",
		}),
		OrderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "failed_total",
			Help:      "Total number of rolled back or rejected order creations by reason.",
		}, []string{"reason"}), // reason: validation, item_not_found, insufficient_stock, duplicate_number, database
		OrderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transaction_seconds",
			Help:      "Duration of the order creation transaction.",
			Buckets:   prometheus.DefBuckets,
		}),
		OrderCancellations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "cancelled_total",
			Help:      "Total number of cancelled orders.",
		}),
		TenantCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenants",
			Name:      "cache_hits_total",
			Help:      "Tenant directory lookups served from Redis.",
		}),
		TenantCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenants",
			Name:      "cache_misses_total",
			Help:      "Tenant directory lookups that went to the master database.",
		}),
		LowStockItems: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "low_stock_items",
			Help:      "Active items at or below their minimum stock level, per tenant database.",
		}, []string{"tenant"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Handled HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
}

// RegisterPoolGauge publishes the number of open tenant pools.
func RegisterPoolGauge(reg prometheus.Registerer, count func() int) {
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "tenants",
		Name:      "pools_open",
		Help:      "Tenant connection pools currently cached.",
	}, func() float64 { return float64(count()) })
}
