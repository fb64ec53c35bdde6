package app

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketspese/internal/config"
	"pocketspese/internal/entry"
)

var fixedNow = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:             "info",
		LogFormat:            "text",
		IDStrategy:           "clock",
		CurrencySymbol:       "$",
		DashboardCacheSize:   4,
		DashboardCacheTTL:    time.Minute,
		CacheCleanupInterval: time.Minute,
		MetricsEnabled:       true,
	}
}

func TestAppSubmitShowsOnDashboard(t *testing.T) {
	a, err := New(testConfig(), nil, func() time.Time { return fixedNow })
	require.NoError(t, err)
	defer a.Close()

	a.Form.Update(func(d *entry.Draft) {
		d.Amount = "12.50"
		d.Category = "Food"
	})
	e, err := a.Form.Submit()
	require.NoError(t, err)
	assert.Equal(t, "1715938200000", e.ID)

	v, err := a.Dashboard.Build("")
	require.NoError(t, err)
	assert.Equal(t, "$12.50", v.TotalLabel)
	require.Len(t, v.Transactions, 1)
	assert.Equal(t, e.ID, v.Transactions[0].ID)

	_, removed := a.Store.Remove(e.ID)
	assert.True(t, removed)
	v, err = a.Dashboard.Build("")
	require.NoError(t, err)
	assert.False(t, v.HasTransactions())

	n, err := testutil.GatherAndCount(a.Registry, "pocketspese_store_expenses_added_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAppWithoutMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	cfg.IDStrategy = "uuid"

	a, err := New(cfg, nil, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Registry)
	a.Form.Update(func(d *entry.Draft) {
		d.Amount = "3"
		d.Category = "Bills"
	})
	e, err := a.Form.Submit()
	require.NoError(t, err)
	assert.Len(t, e.ID, 36)
}

func TestAppRejectsUnknownStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.IDStrategy = "sequence"
	_, err := New(cfg, nil, nil)
	assert.Error(t, err)
}
