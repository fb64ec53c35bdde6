// Package dashboard builds the monthly spending view from store snapshots.
package dashboard

import (
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"pocketspese/internal/cache"
	"pocketspese/internal/core"
	"pocketspese/internal/log"
	"pocketspese/internal/store"
)

const (
	NoBreakdownText    = "No data available"
	NoTransactionsText = "No transactions match your filter"
	NoNoteText         = "No note"
)

// Source provides the snapshot the dashboard renders.
type Source interface {
	Snapshot() store.Snapshot
}

// CacheObserver is told whether an overview came from cache.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

// OverviewKey identifies a cached month overview of one store version.
type OverviewKey struct {
	Version uint64
	Year    int
	Month   int
}

func (k OverviewKey) String() string {
	return fmt.Sprintf("v%d:%04d-%02d", k.Version, k.Year, k.Month)
}

type BreakdownRow struct {
	Category   core.Category
	Total      core.Money
	TotalLabel string
	Share      float64 // percent of the month's total
}

type TransactionRow struct {
	ID          string
	Category    core.Category
	Date        string
	Note        string // NoNoteText when the expense has none
	Amount      core.Money
	AmountLabel string
	Photo       string
	HasPhoto    bool
}

// View is everything the dashboard screen shows for one month.
type View struct {
	Version      uint64
	Year         int
	Month        int
	Period       string // e.g. "May 2024"
	Total        core.Money
	TotalLabel   string
	Breakdown    []BreakdownRow
	Filter       core.Category
	Filters      []core.Category
	Transactions []TransactionRow
}

// HasBreakdown reports whether any expense falls in the month.
func (v View) HasBreakdown() bool {
	return len(v.Breakdown) > 0
}

// HasTransactions reports whether any expense matches the filter.
func (v View) HasTransactions() bool {
	return len(v.Transactions) > 0
}

type Options struct {
	CurrencySymbol string
	Now            func() time.Time
	Cache          cache.Cache[OverviewKey, core.MonthOverview]
	Observer       CacheObserver
	Logger         *log.Logger
}

// Service computes dashboard views. Overviews are memoised per store version
// and month, so repeated renders of an unchanged store do no aggregation.
type Service struct {
	source   Source
	symbol   string
	now      func() time.Time
	cache    cache.Cache[OverviewKey, core.MonthOverview]
	observer CacheObserver
	logger   *log.Logger
	group    singleflight.Group
}

func NewService(source Source, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &Service{
		source:   source,
		symbol:   opts.CurrencySymbol,
		now:      opts.Now,
		cache:    opts.Cache,
		observer: opts.Observer,
		logger:   opts.Logger.WithComponent(log.ComponentDashboard),
	}
}

// Build returns the view for the current month, listing the transactions
// matching filter ("" or "All" for every category).
func (s *Service) Build(filter string) (View, error) {
	category, err := core.ParseFilter(filter)
	if err != nil {
		return View{}, fmt.Errorf("dashboard filter: %w", err)
	}

	now := s.now()
	year, month := now.Year(), int(now.Month())
	snap := s.source.Snapshot()
	overview := s.Overview(snap, year, month)

	v := View{
		Version:    snap.Version,
		Year:       year,
		Month:      month,
		Period:     time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		Total:      overview.Total,
		TotalLabel: FormatMoney(s.symbol, overview.Total),
		Filter:     category,
		Filters:    core.FilterCategories(),
	}

	v.Breakdown = make([]BreakdownRow, 0, len(overview.ByCategory))
	for _, ct := range overview.ByCategory {
		v.Breakdown = append(v.Breakdown, BreakdownRow{
			Category:   ct.Name,
			Total:      ct.Total,
			TotalLabel: FormatMoney(s.symbol, ct.Total),
			Share:      share(ct.Total, overview.Total),
		})
	}

	inMonth := core.FilterMonth(snap.Collection.Expenses(), year, month)
	matching := core.FilterCategory(inMonth, category)
	v.Transactions = make([]TransactionRow, 0, len(matching))
	for _, e := range matching {
		note := e.Note
		if !e.HasNote() {
			note = NoNoteText
		}
		v.Transactions = append(v.Transactions, TransactionRow{
			ID:          e.ID,
			Category:    e.Category,
			Date:        e.Date.String(),
			Note:        note,
			Amount:      e.Amount,
			AmountLabel: FormatMoney(s.symbol, e.Amount),
			Photo:       e.Photo,
			HasPhoto:    e.HasPhoto(),
		})
	}

	s.logger.Debug("Dashboard built",
		log.FieldOperation, log.OpRender,
		log.FieldVersion, snap.Version,
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldFilter, category.String(),
		log.FieldCount, len(v.Transactions))

	return v, nil
}

// Overview returns the month overview of snap, from cache when possible.
// Concurrent misses for the same key share one computation.
func (s *Service) Overview(snap store.Snapshot, year, month int) core.MonthOverview {
	if s.cache == nil {
		return core.Overview(snap.Collection.Expenses(), year, month)
	}

	key := OverviewKey{Version: snap.Version, Year: year, Month: month}
	if ov, ok := s.cache.Get(key); ok {
		if s.observer != nil {
			s.observer.CacheHit()
		}
		return cloneOverview(ov)
	}
	if s.observer != nil {
		s.observer.CacheMiss()
	}

	v, _, _ := s.group.Do(key.String(), func() (any, error) {
		ov := core.Overview(snap.Collection.Expenses(), year, month)
		s.cache.Set(key, ov)
		s.logger.Debug("Overview cached", log.FieldCacheKey, key.String())
		return ov, nil
	})
	return cloneOverview(v.(core.MonthOverview))
}

// cloneOverview keeps callers from mutating a cached breakdown.
func cloneOverview(ov core.MonthOverview) core.MonthOverview {
	ov.ByCategory = slices.Clone(ov.ByCategory)
	return ov
}
