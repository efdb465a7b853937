// Package reqtable provides the shared request-state table used by the
// decode scheduler.
//
// The table is the only structure in the pipeline that is mutated from
// multiple goroutines, so it hides its map behind a narrow API:
// insert-if-absent, state transition, retain, and snapshots. Callers
// never iterate the map directly, and every read/modify/write sequence
// happens under the single internal mutex.
package reqtable

import "sync"

// State is the lifecycle state of a tracked request.
type State uint8

const (
	// Pending means exactly one worker task is outstanding (or about
	// to run) for the request.
	Pending State = iota

	// Loaded means a result was already delivered (or discarded) and
	// no further worker will run unless the entry is removed and the
	// request re-submitted.
	Loaded
)

// Table tracks request keys and their states under a single mutex.
//
// Table is safe for concurrent use. The lock is held only for short
// check/insert/transition operations, never across decode work or
// sleeps; that discipline is the caller's, made easy by the API shape.
// Table must not be copied after creation.
type Table[K comparable] struct {
	mu      sync.Mutex
	entries map[K]State
}

// New creates an empty table.
func New[K comparable]() *Table[K] {
	return &Table[K]{entries: make(map[K]State)}
}

// InsertIfAbsent inserts key as Pending unless it is already tracked
// in any state. It returns whether the insert happened, plus the
// number of other Pending entries matching countIf at the moment of
// insertion, the contention snapshot the scheduler uses to size its
// debounce delay. Counting and inserting happen atomically under one
// lock acquisition.
func (t *Table[K]) InsertIfAbsent(key K, countIf func(K) bool) (pending int, inserted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[key]; ok {
		return 0, false
	}
	for k, state := range t.entries {
		if state == Pending && countIf(k) {
			pending++
		}
	}
	t.entries[key] = Pending
	return pending, true
}

// Contains reports whether key is tracked in any state. Workers call
// this after the debounce delay: a key that was pruned away while the
// worker slept is stale and must not be decoded.
func (t *Table[K]) Contains(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.entries[key]
	return ok
}

// MarkLoaded transitions key from Pending to Loaded.
// Returns false if the key is no longer tracked (pruned while the
// worker was decoding); the transition is skipped in that case.
func (t *Table[K]) MarkLoaded(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[key]; !ok {
		return false
	}
	t.entries[key] = Loaded
	return true
}

// Delete removes key from the table.
// Returns true if the key was tracked.
func (t *Table[K]) Delete(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[key]; ok {
		delete(t.entries, key)
		return true
	}
	return false
}

// Retain removes every entry for which keep returns false.
func (t *Table[K]) Retain(keep func(K) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for k := range t.entries {
		if !keep(k) {
			delete(t.entries, k)
		}
	}
}

// Snapshot returns all tracked keys in unspecified order.
func (t *Table[K]) Snapshot() []K {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys := make([]K, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of tracked entries.
func (t *Table[K]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}

// Clear removes all entries.
func (t *Table[K]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = make(map[K]State)
}
