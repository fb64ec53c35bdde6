// Package app wires the expense store, entry form and dashboard into one
// session.
package app

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pocketspese/internal/cache"
	"pocketspese/internal/config"
	"pocketspese/internal/core"
	"pocketspese/internal/dashboard"
	"pocketspese/internal/entry"
	"pocketspese/internal/ids"
	"pocketspese/internal/log"
	"pocketspese/internal/metrics"
	"pocketspese/internal/store"
)

// App owns the session's single Store handle and everything that reads or
// writes through it.
type App struct {
	Config    *config.Config
	Store     *store.Store
	Form      *entry.Form
	Dashboard *dashboard.Service

	// Registry holds the session metrics. It is nil when metrics are disabled.
	Registry *prometheus.Registry

	caches *cache.Manager
	now    func() time.Time
	logger *log.Logger
}

// New builds an App from a validated configuration. now defaults to time.Now.
func New(cfg *config.Config, logger *log.Logger, now func() time.Time) (*App, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if now == nil {
		now = time.Now
	}

	var gen ids.Generator
	switch strategy := ids.Strategy(cfg.IDStrategy); strategy {
	case ids.ClockStrategy:
		gen = ids.NewClock(now)
	default:
		g, err := ids.New(strategy)
		if err != nil {
			return nil, fmt.Errorf("id generator: %w", err)
		}
		gen = g
	}

	a := &App{
		Config: cfg,
		caches: cache.NewManager(logger),
		now:    now,
		logger: logger.WithComponent(log.ComponentApp),
	}

	var (
		observers []store.Observer
		cacheObs  dashboard.CacheObserver
	)
	if cfg.MetricsEnabled {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(collectors.NewGoCollector())
		m := metrics.New(a.Registry)
		observers = append(observers, m)
		cacheObs = m
	}

	a.Store = store.New(logger, observers...)
	a.Form = entry.NewForm(a.Store, gen, now, logger)

	overviews := cache.NewLRUCache[dashboard.OverviewKey, core.MonthOverview](cfg.DashboardCacheSize, cfg.DashboardCacheTTL)
	a.caches.Register(overviews)
	a.caches.StartCleanup(cfg.CacheCleanupInterval)

	a.Dashboard = dashboard.NewService(a.Store, dashboard.Options{
		CurrencySymbol: cfg.CurrencySymbol,
		Now:            now,
		Cache:          overviews,
		Observer:       cacheObs,
		Logger:         logger,
	})

	a.logger.Info("Session started",
		log.FieldOperation, log.OpStartup,
		"id_strategy", cfg.IDStrategy,
		"metrics", cfg.MetricsEnabled)
	return a, nil
}

// Today is the session's current date, the default for new expenses.
func (a *App) Today() core.Date {
	return core.DateOf(a.now())
}

// Close stops background cache maintenance. The in-memory data is discarded
// with the App.
func (a *App) Close() {
	a.caches.Stop()
	a.logger.Info("Session closed",
		log.FieldOperation, log.OpShutdown,
		log.FieldCount, a.Store.Snapshot().Collection.Len())
}
