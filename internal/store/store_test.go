package store

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketspese/internal/core"
)

type recordingObserver struct {
	mu      sync.Mutex
	added   []string
	removed []string
	version []uint64
}

func (o *recordingObserver) ExpenseAdded(e core.Expense, s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.added = append(o.added, e.ID)
	o.version = append(o.version, s.Version)
}

func (o *recordingObserver) ExpenseRemoved(e core.Expense, s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.removed = append(o.removed, e.ID)
	o.version = append(o.version, s.Version)
}

func TestStoreAddRemove(t *testing.T) {
	obs := &recordingObserver{}
	s := New(nil, obs)

	empty := s.Snapshot()
	assert.Equal(t, 0, empty.Collection.Len())
	assert.Zero(t, empty.Version)

	snap, err := s.Add(expense("1", 1000, core.Food))
	require.NoError(t, err)
	_, err = s.Add(expense("2", 2000, core.Transport))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, 0, empty.Collection.Len(), "old snapshot must not change")

	after, removed := s.Remove("1")
	assert.True(t, removed)
	assert.Equal(t, uint64(3), after.Version)
	assert.Equal(t, 1, after.Collection.Len())
	assert.Equal(t, "2", after.Collection.At(0).ID)

	noop, removed := s.Remove("missing")
	assert.False(t, removed)
	assert.Equal(t, after.Version, noop.Version)
	assert.True(t, noop.Collection.Equal(after.Collection))

	assert.Equal(t, []string{"1", "2"}, obs.added)
	assert.Equal(t, []string{"1"}, obs.removed)
	assert.Equal(t, []uint64{1, 2, 3}, obs.version)
}

func TestStoreRejectsDuplicateID(t *testing.T) {
	s := New(nil)
	_, err := s.Add(expense("1", 100, core.Food))
	require.NoError(t, err)

	snap, err := s.Add(expense("1", 999, core.Bills))
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, int64(100), s.Snapshot().Collection.At(0).Amount.Cents)
}

func TestStoreWatch(t *testing.T) {
	s := New(nil)
	ch, cancel := s.Watch()

	initial := <-ch
	assert.Zero(t, initial.Version)

	for i := 1; i <= 3; i++ {
		_, err := s.Add(expense(strconv.Itoa(i), 100, core.Food))
		require.NoError(t, err)
	}
	// Only the newest snapshot is pending.
	latest := <-ch
	assert.Equal(t, uint64(3), latest.Version)
	assert.Equal(t, 3, latest.Collection.Len())
	select {
	case extra := <-ch:
		t.Fatalf("unexpected stale snapshot %d", extra.Version)
	default:
	}

	s.Remove("nope")
	select {
	case extra := <-ch:
		t.Fatalf("no-op remove must not notify, got version %d", extra.Version)
	default:
	}

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after cancel")

	// Mutations after cancel must not panic on the closed channel.
	_, err := s.Add(expense("4", 100, core.Food))
	require.NoError(t, err)
}

func TestStoreConcurrentWriters(t *testing.T) {
	s := New(nil)
	ch, cancel := s.Watch()
	defer cancel()

	var (
		wg      sync.WaitGroup
		readers sync.WaitGroup
		seen    []uint64
	)
	readers.Add(1)
	go func() {
		defer readers.Done()
		for snap := range ch {
			seen = append(seen, snap.Version)
			if snap.Version == 200 {
				return
			}
		}
	}()

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, err := s.Add(expense(strconv.Itoa(w)+"-"+strconv.Itoa(i), 1, core.Other))
				assert.NoError(t, err)
				_ = s.Snapshot().Collection.Len()
			}
		}(w)
	}
	wg.Wait()
	readers.Wait()

	final := s.Snapshot()
	assert.Equal(t, 200, final.Collection.Len())
	assert.Equal(t, uint64(200), final.Version)
	assert.IsIncreasing(t, seen)
}
