package store

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"pocketspese/internal/core"
	"pocketspese/internal/log"
)

var ErrDuplicateID = errors.New("duplicate expense id")

// Snapshot is the collection held by a Store at one version. Version starts at
// zero for the empty store and increases by one per effective mutation.
type Snapshot struct {
	Collection Collection
	Version    uint64
}

// Observer is notified after each effective mutation, in mutation order.
// Observers run while the store's writer lock is held and must not call back
// into the Store.
type Observer interface {
	ExpenseAdded(e core.Expense, s Snapshot)
	ExpenseRemoved(e core.Expense, s Snapshot)
}

// Store is the single handle to the session's expense collection. Writers are
// serialised; readers load the current snapshot without locking.
type Store struct {
	mu        sync.Mutex
	current   atomic.Pointer[Snapshot]
	watchers  map[int]chan Snapshot
	nextWatch int
	observers []Observer
	logger    *log.Logger
}

// New creates an empty store.
func New(logger *log.Logger, observers ...Observer) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Store{
		watchers:  make(map[int]chan Snapshot),
		observers: observers,
		logger:    logger.WithComponent(log.ComponentStore),
	}
	s.current.Store(&Snapshot{})
	return s
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot {
	return *s.current.Load()
}

// Add appends e and returns the new snapshot. An id already present is
// rejected with ErrDuplicateID and the store is left unchanged.
func (s *Store) Add(e core.Expense) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if cur.Collection.Contains(e.ID) {
		s.logger.Warn("Rejected expense with duplicate id", log.FieldExpenseID, e.ID)
		return *cur, fmt.Errorf("add expense %q: %w", e.ID, ErrDuplicateID)
	}

	next := Snapshot{Collection: cur.Collection.Add(e), Version: cur.Version + 1}
	s.publish(next)
	for _, o := range s.observers {
		o.ExpenseAdded(e, next)
	}

	fields := log.NewFields().
		WithExpense(e.ID, e.Amount.Cents, e.Category.String(), e.Date.String(), e.HasPhoto()).
		WithOperation(log.OpAdd)
	fields[log.FieldVersion] = next.Version
	s.logger.Debug("Expense added", fields.ToSlice()...)

	return next, nil
}

// Remove deletes the expense with the given id and returns the new snapshot
// and whether anything was removed. Removing an absent id is a no-op: the
// current snapshot is returned, the version is unchanged and nobody is
// notified.
func (s *Store) Remove(id string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	removed, ok := cur.Collection.Get(id)
	if !ok {
		s.logger.Debug("Remove of unknown expense ignored", log.FieldExpenseID, id)
		return *cur, false
	}

	next := Snapshot{Collection: cur.Collection.Remove(id), Version: cur.Version + 1}
	s.publish(next)
	for _, o := range s.observers {
		o.ExpenseRemoved(removed, next)
	}

	s.logger.Debug("Expense removed",
		log.FieldExpenseID, id,
		log.FieldOperation, log.OpRemove,
		log.FieldVersion, next.Version)

	return next, true
}

// Watch subscribes to snapshot changes. The channel immediately holds the
// current snapshot and afterwards always holds the newest one: a slow reader
// skips intermediate versions but never sees them out of order. The returned
// cancel func closes the channel.
func (s *Store) Watch() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 1)
	ch <- *s.current.Load()
	id := s.nextWatch
	s.nextWatch++
	s.watchers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.watchers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish installs next and hands it to every watcher. Callers hold s.mu, so
// this is the only sender on each watcher channel.
func (s *Store) publish(next Snapshot) {
	s.current.Store(&next)
	for _, ch := range s.watchers {
		select {
		case ch <- next:
		default:
			// Replace the stale snapshot nobody has read yet.
			select {
			case <-ch:
			default:
			}
			ch <- next
		}
	}
}
