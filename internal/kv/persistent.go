package kv

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

const saveTimeout = 2 * time.Second

// Persistent wraps a Store with a durable Backend. The mapping is JSON
// encoded and saved on every write, before subscribers are notified. Load
// and decode failures fail open: the store starts empty and never surfaces
// the error to callers.
type Persistent[V any] struct {
	inner   *Store[V]
	backend Backend
	log     *zap.Logger
}

// NewPersistent creates a Persistent store seeded from backend. A corrupt or
// missing stored payload yields an empty mapping.
func NewPersistent[V any](backend Backend, log *zap.Logger) *Persistent[V] {
	p := &Persistent[V]{
		inner:   New[V](),
		backend: backend,
		log:     log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	data, err := backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn("persistent store load failed, starting empty", zap.Error(err))
		}
		return p
	}

	var m map[string]V
	if err := json.Unmarshal(data, &m); err != nil {
		log.Warn("persistent store payload corrupt, starting empty", zap.Error(err))
		return p
	}
	if m != nil {
		p.inner.swap(m)
	}
	return p
}

// Get returns a copy of the current mapping.
func (p *Persistent[V]) Get() map[string]V { return p.inner.Get() }

// GetKey returns the value stored under key, if present.
func (p *Persistent[V]) GetKey(key string) (V, bool) { return p.inner.GetKey(key) }

// Len returns the number of entries.
func (p *Persistent[V]) Len() int { return p.inner.Len() }

// Subscribe registers fn to run on every write.
func (p *Persistent[V]) Subscribe(fn func(map[string]V)) (unsubscribe func()) {
	return p.inner.Subscribe(fn)
}

// Set replaces the mapping, persists it, then notifies subscribers.
func (p *Persistent[V]) Set(m map[string]V) {
	p.inner.swap(copyMap(m))
	p.persist()
	p.inner.notify()
}

// SetKey replaces one entry, persists the mapping, then notifies subscribers.
func (p *Persistent[V]) SetKey(key string, v V) {
	p.inner.mu.Lock()
	p.inner.data[key] = v
	p.inner.mu.Unlock()
	p.persist()
	p.inner.notify()
}

// DeleteKey removes one entry, persists the mapping, then notifies
// subscribers.
func (p *Persistent[V]) DeleteKey(key string) {
	p.inner.mu.Lock()
	delete(p.inner.data, key)
	p.inner.mu.Unlock()
	p.persist()
	p.inner.notify()
}

// persist writes the current mapping to the backend. Save failures are
// logged, not returned: a write that cannot be made durable still applies
// in memory.
func (p *Persistent[V]) persist() {
	data, err := json.Marshal(p.inner.Get())
	if err != nil {
		p.log.Warn("persistent store encode failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := p.backend.Save(ctx, data); err != nil {
		p.log.Warn("persistent store save failed", zap.Error(err))
	}
}
