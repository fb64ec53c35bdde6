// Package metrics exposes Prometheus collectors for the expense store and the
// dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"pocketspese/internal/core"
	"pocketspese/internal/store"
)

const namespace = "pocketspese"

// Collector implements store.Observer and the dashboard cache hooks.
type Collector struct {
	expensesAdded   *prometheus.CounterVec
	expensesRemoved *prometheus.CounterVec
	expenses        prometheus.Gauge
	spendCents      prometheus.Gauge
	storeVersion    prometheus.Gauge
	cacheLookups    *prometheus.CounterVec
}

var _ store.Observer = (*Collector)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		expensesAdded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "expenses_added_total",
				Help:      "Total number of expenses added.",
			},
			[]string{"category"},
		),
		expensesRemoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "expenses_removed_total",
				Help:      "Total number of expenses removed.",
			},
			[]string{"category"},
		),
		expenses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "expenses",
				Help:      "Number of expenses currently held.",
			},
		),
		spendCents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "spend_cents",
				Help:      "Sum of all held expense amounts, in cents.",
			},
		),
		storeVersion: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "version",
				Help:      "Version of the current store snapshot.",
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dashboard",
				Name:      "cache_lookups_total",
				Help:      "Dashboard overview cache lookups by result.",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			c.expensesAdded,
			c.expensesRemoved,
			c.expenses,
			c.spendCents,
			c.storeVersion,
			c.cacheLookups,
		)
	}
	return c
}

func (c *Collector) ExpenseAdded(e core.Expense, s store.Snapshot) {
	c.expensesAdded.WithLabelValues(e.Category.String()).Inc()
	c.spendCents.Add(float64(e.Amount.Cents))
	c.observe(s)
}

func (c *Collector) ExpenseRemoved(e core.Expense, s store.Snapshot) {
	c.expensesRemoved.WithLabelValues(e.Category.String()).Inc()
	c.spendCents.Sub(float64(e.Amount.Cents))
	c.observe(s)
}

func (c *Collector) observe(s store.Snapshot) {
	c.expenses.Set(float64(s.Collection.Len()))
	c.storeVersion.Set(float64(s.Version))
}

// CacheHit records a dashboard overview served from cache.
func (c *Collector) CacheHit() {
	c.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss records a dashboard overview that had to be computed.
func (c *Collector) CacheMiss() {
	c.cacheLookups.WithLabelValues("miss").Inc()
}
