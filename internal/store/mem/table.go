// Package mem provides the id-keyed tables behind the in-process stores
// used by tests and single-node development runs.
package mem

import (
	"sort"
	"sync"
)

// Table holds rows keyed by a sequential int64 id.
type Table[T any] struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]T
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{rows: make(map[int64]T)}
}

// Insert allocates the next id and stores the row built for it.
func (t *Table[T]) Insert(build func(id int64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	row := build(t.nextID)
	t.rows[t.nextID] = row
	return row
}

func (t *Table[T]) Get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

// Update applies fn to an existing row. It reports false when id is absent.
func (t *Table[T]) Update(id int64, fn func(T) T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	row = fn(row)
	t.rows[id] = row
	return row, true
}

func (t *Table[T]) Delete(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// All returns the rows ordered by id.
func (t *Table[T]) All() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, len(ids))
	for i, id := range ids {
		out[i] = t.rows[id]
	}
	return out
}

// Each calls fn for every row while holding a read lock.
func (t *Table[T]) Each(fn func(T)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		fn(row)
	}
}
