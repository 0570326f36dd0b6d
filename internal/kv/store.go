// Package kv provides the observable key-value stores that back the
// storefront's client-side state (cart lines, favorites). A Store holds a
// full mapping snapshot; subscribers are notified synchronously on every
// write, so an observer never sees a half-applied update.
package kv

import "sync"

// Store is an observable mapping from string keys to values of type V.
// The zero value is not usable; construct with New.
type Store[V any] struct {
	mu   sync.RWMutex
	data map[string]V
	subs map[int]func(map[string]V)
	next int
}

// New creates an empty Store.
func New[V any]() *Store[V] {
	return &Store[V]{
		data: make(map[string]V),
		subs: make(map[int]func(map[string]V)),
	}
}

// Get returns a copy of the current mapping.
func (s *Store[V]) Get() map[string]V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMap(s.data)
}

// GetKey returns the value stored under key, if present.
func (s *Store[V]) GetKey(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Len returns the number of entries.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Set replaces the entire mapping and notifies subscribers before returning.
func (s *Store[V]) Set(m map[string]V) {
	s.swap(copyMap(m))
	s.notify()
}

// SetKey replaces a single entry and notifies subscribers before returning.
func (s *Store[V]) SetKey(key string, v V) {
	s.mu.Lock()
	s.data[key] = v
	s.mu.Unlock()
	s.notify()
}

// DeleteKey removes a single entry. Deleting an absent key still notifies
// subscribers, matching the full-replace semantics of Set.
func (s *Store[V]) DeleteKey(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers fn to run on every Set/SetKey/DeleteKey. The returned
// function unsubscribes; calling it more than once is harmless.
func (s *Store[V]) Subscribe(fn func(map[string]V)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// swap replaces the mapping without notifying.
func (s *Store[V]) swap(m map[string]V) {
	s.mu.Lock()
	s.data = m
	s.mu.Unlock()
}

// notify invokes subscribers with a snapshot. Callbacks run outside the lock
// so a subscriber may read or mutate the store without deadlocking.
func (s *Store[V]) notify() {
	s.mu.RLock()
	snapshot := copyMap(s.data)
	fns := make([]func(map[string]V), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
