package kv

import "sync"

// Atom is a single observable value, used for UI signals such as the
// cart-drawer visibility flag that are independent of any mapping.
type Atom[V any] struct {
	mu    sync.RWMutex
	value V
	subs  map[int]func(V)
	next  int
}

// NewAtom creates an Atom holding the given initial value.
func NewAtom[V any](initial V) *Atom[V] {
	return &Atom[V]{
		value: initial,
		subs:  make(map[int]func(V)),
	}
}

// Get returns the current value.
func (a *Atom[V]) Get() V {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.value
}

// Set replaces the value and notifies subscribers before returning.
func (a *Atom[V]) Set(v V) {
	a.mu.Lock()
	a.value = v
	fns := make([]func(V), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn to run on every Set. The returned function
// unsubscribes; calling it more than once is harmless.
func (a *Atom[V]) Subscribe(fn func(V)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.next
	a.next++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}
