package dashboard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketspese/internal/cache"
	"pocketspese/internal/core"
	"pocketspese/internal/store"
)

var fixedNow = time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

type countingObserver struct {
	mu           sync.Mutex
	hits, misses int
}

func (o *countingObserver) CacheHit() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hits++
}

func (o *countingObserver) CacheMiss() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.misses++
}

func add(t *testing.T, s *store.Store, id string, cents int64, c core.Category, date core.Date, note string) {
	t.Helper()
	_, err := s.Add(core.Expense{ID: id, Amount: core.Money{Cents: cents}, Category: c, Date: date, Note: note})
	require.NoError(t, err)
}

func newTestService(t *testing.T) (*Service, *store.Store, *countingObserver) {
	t.Helper()
	s := store.New(nil)
	obs := &countingObserver{}
	svc := NewService(s, Options{
		CurrencySymbol: "$",
		Now:            func() time.Time { return fixedNow },
		Cache:          cache.NewLRUCache[OverviewKey, core.MonthOverview](8, time.Minute),
		Observer:       obs,
	})
	return svc, s, obs
}

func TestBuildEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	v, err := svc.Build("")
	require.NoError(t, err)
	assert.Equal(t, "May 2024", v.Period)
	assert.Equal(t, "$0.00", v.TotalLabel)
	assert.False(t, v.HasBreakdown())
	assert.False(t, v.HasTransactions())
	assert.Equal(t, core.All, v.Filter)
	assert.Equal(t, core.FilterCategories(), v.Filters)
}

func TestBuildCurrentMonthOnly(t *testing.T) {
	svc, s, _ := newTestService(t)
	add(t, s, "1", 1000, core.Food, core.NewDate(2024, 5, 1), "groceries")
	add(t, s, "2", 3000, core.Transport, core.NewDate(2024, 5, 3), "")
	add(t, s, "3", 9999, core.Food, core.NewDate(2024, 4, 30), "last month")

	v, err := svc.Build("All")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v.Version)
	assert.Equal(t, int64(4000), v.Total.Cents)
	assert.Equal(t, "$40.00", v.TotalLabel)

	require.Len(t, v.Breakdown, 2)
	assert.Equal(t, core.Food, v.Breakdown[0].Category)
	assert.Equal(t, 25.0, v.Breakdown[0].Share)
	assert.Equal(t, core.Transport, v.Breakdown[1].Category)
	assert.Equal(t, 75.0, v.Breakdown[1].Share)
	assert.Equal(t, "$30.00", v.Breakdown[1].TotalLabel)

	require.Len(t, v.Transactions, 2)
	assert.Equal(t, "groceries", v.Transactions[0].Note)
	assert.Equal(t, NoNoteText, v.Transactions[1].Note)
	assert.Equal(t, "2024-05-03", v.Transactions[1].Date)
}

func TestBuildCategoryFilter(t *testing.T) {
	svc, s, _ := newTestService(t)
	add(t, s, "1", 1000, core.Food, core.NewDate(2024, 5, 1), "")
	add(t, s, "2", 2000, core.Bills, core.NewDate(2024, 5, 2), "")

	v, err := svc.Build("bills")
	require.NoError(t, err)
	assert.Equal(t, core.Bills, v.Filter)
	require.Len(t, v.Transactions, 1)
	assert.Equal(t, "2", v.Transactions[0].ID)
	// The breakdown always covers the whole month.
	assert.Len(t, v.Breakdown, 2)
	assert.Equal(t, int64(3000), v.Total.Cents)

	v, err = svc.Build("Shopping")
	require.NoError(t, err)
	assert.True(t, v.HasBreakdown())
	assert.False(t, v.HasTransactions())
}

func TestBuildInvalidFilter(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Build("Holidays")
	assert.ErrorIs(t, err, core.ErrUnknownCategory)
}

func TestOverviewCachedPerVersion(t *testing.T) {
	svc, s, obs := newTestService(t)
	add(t, s, "1", 500, core.Other, core.NewDate(2024, 5, 10), "")

	_, err := svc.Build("")
	require.NoError(t, err)
	_, err = svc.Build("Other")
	require.NoError(t, err)
	assert.Equal(t, 1, obs.misses)
	assert.Equal(t, 1, obs.hits)

	add(t, s, "2", 500, core.Other, core.NewDate(2024, 5, 11), "")
	v, err := svc.Build("")
	require.NoError(t, err)
	assert.Equal(t, 2, obs.misses)
	assert.Equal(t, int64(1000), v.Total.Cents)
}

func TestOverviewReturnsCopy(t *testing.T) {
	svc, s, _ := newTestService(t)
	add(t, s, "1", 500, core.Food, core.NewDate(2024, 5, 10), "")

	snap := s.Snapshot()
	ov := svc.Overview(snap, 2024, 5)
	ov.ByCategory[0].Total = core.Money{Cents: 1}

	again := svc.Overview(snap, 2024, 5)
	assert.Equal(t, int64(500), again.ByCategory[0].Total.Cents)
}

func TestOverviewWithoutCache(t *testing.T) {
	s := store.New(nil)
	add(t, s, "1", 700, core.Bills, core.NewDate(2024, 5, 1), "")
	svc := NewService(s, Options{Now: func() time.Time { return fixedNow }})

	ov := svc.Overview(s.Snapshot(), 2024, 5)
	assert.Equal(t, int64(700), ov.Total.Cents)
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{1250, "$12.50"},
		{123456, "$1,234.56"},
		{100000000, "$1,000,000.00"},
		{-250, "-$2.50"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatMoney("$", core.Money{Cents: tc.cents}))
	}
	assert.Equal(t, "€3.00", FormatMoney("€", core.Money{Cents: 300}))
}

func TestShare(t *testing.T) {
	assert.Equal(t, 0.0, share(core.Money{Cents: 5}, core.Money{}))
	assert.Equal(t, 33.3, share(core.Money{Cents: 1}, core.Money{Cents: 3}))
	assert.Equal(t, 100.0, share(core.Money{Cents: 42}, core.Money{Cents: 42}))
}
