// Package store holds the session's expense collection.
//
// A Collection is an immutable value: Add and Remove return a new Collection
// and never modify the receiver, so a Collection handed to a reader stays valid
// forever. Store wraps the current Collection behind a single-writer handle and
// publishes every new snapshot to its watchers.
package store

import (
	"slices"

	"pocketspese/internal/core"
)

// Collection is an ordered sequence of expenses with unique ids, in insertion
// order. The zero value is an empty collection.
type Collection struct {
	items []core.Expense
}

// NewCollection builds a collection holding a copy of expenses.
func NewCollection(expenses ...core.Expense) Collection {
	return Collection{items: slices.Clone(expenses)}
}

// Len returns the number of expenses.
func (c Collection) Len() int {
	return len(c.items)
}

// At returns the i-th expense in insertion order.
func (c Collection) At(i int) core.Expense {
	return c.items[i]
}

// Expenses returns a copy of the expenses in insertion order.
func (c Collection) Expenses() []core.Expense {
	return slices.Clone(c.items)
}

// Get returns the expense with the given id.
func (c Collection) Get(id string) (core.Expense, bool) {
	for _, e := range c.items {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

// Contains reports whether an expense with the given id is present.
func (c Collection) Contains(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// Add returns a collection with e appended. The caller guarantees e.ID is not
// already present.
func (c Collection) Add(e core.Expense) Collection {
	// Full slice expression forces append to copy.
	return Collection{items: append(c.items[:len(c.items):len(c.items)], e)}
}

// Remove returns a collection without the expense whose id matches. Removing
// an absent id returns c itself.
func (c Collection) Remove(id string) Collection {
	if !c.Contains(id) {
		return c
	}
	items := make([]core.Expense, 0, len(c.items)-1)
	for _, e := range c.items {
		if e.ID != id {
			items = append(items, e)
		}
	}
	return Collection{items: items}
}

// Equal reports whether both collections hold the same expenses in the same
// order.
func (c Collection) Equal(o Collection) bool {
	return slices.Equal(c.items, o.items)
}
