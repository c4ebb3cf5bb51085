package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultMaxConns bounds each tenant pool when no limit is configured.
const DefaultMaxConns int32 = 10

// PoolFactory builds the pool for one tenant database.
type PoolFactory func(ctx context.Context, dbName string) (Pool, error)

// Initializer runs once against a freshly created pool before it is cached.
type Initializer func(ctx context.Context, dbName string, pool Pool) error

// Registry caches one pool per tenant database name for the life of the
// process. Concurrent first requests for a name share a single pool. The
// lock only guards the map; pools are built and initialized outside it, so
// a slow tenant never stalls lookups of cached ones.
type Registry struct {
	mu      sync.Mutex
	pools   map[string]Pool
	opening singleflight.Group
	factory PoolFactory
	init    Initializer
	logger  *slog.Logger
	closed  bool
}

var ErrRegistryClosed = errors.New("pool registry closed")

// NewRegistry creates an empty registry. init may be nil.
func NewRegistry(factory PoolFactory, init Initializer, logger *slog.Logger) *Registry {
	return &Registry{
		pools:   make(map[string]Pool),
		factory: factory,
		init:    init,
		logger:  logger,
	}
}

// Get returns the pool for dbName, creating it on first use.
func (r *Registry) Get(ctx context.Context, dbName string) (Pool, error) {
	if dbName == "" {
		return nil, errors.New("database name is empty")
	}

	if pool, ok, err := r.cached(dbName); ok || err != nil {
		return pool, err
	}

	v, err, _ := r.opening.Do(dbName, func() (interface{}, error) {
		return r.open(ctx, dbName)
	})
	if err != nil {
		return nil, err
	}
	return v.(Pool), nil
}

func (r *Registry) cached(dbName string) (Pool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, false, ErrRegistryClosed
	}
	pool, ok := r.pools[dbName]
	return pool, ok, nil
}

// open builds, initializes and stores the pool for dbName. Only one open per
// name runs at a time.
func (r *Registry) open(ctx context.Context, dbName string) (Pool, error) {
	// A previous open may have finished between the lookup and Do.
	if pool, ok, err := r.cached(dbName); ok || err != nil {
		return pool, err
	}

	pool, err := r.factory(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("create pool for %s: %w", dbName, err)
	}
	if r.init != nil {
		if err := r.init(ctx, dbName, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("initialize %s: %w", dbName, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		pool.Close()
		return nil, ErrRegistryClosed
	}
	r.pools[dbName] = pool
	r.logger.Info("tenant pool created", slog.String("database", dbName), slog.Int("pools", len(r.pools)))
	return pool, nil
}

// Names lists the databases with a cached pool, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.pools))
	for name := range r.pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of cached pools.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pools)
}

// Close closes every cached pool. Later calls to Get fail.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, pool := range r.pools {
		pool.Close()
		delete(r.pools, name)
		r.logger.Info("tenant pool closed", slog.String("database", name))
	}
	r.closed = true
}
