// Package favorites holds the durable wishlist. Items are keyed by product
// id; presence of a key means the product is favorited. The mapping is
// persisted on every mutation and survives restarts.
package favorites

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/kv"
)

// StorageKey names the durable mapping in its backing store.
const StorageKey = "dtalles_favorites"

// Item is a favorited product snapshot. AddedAt is set when the item is
// inserted and never mutated; re-toggling an item on assigns a fresh value.
type Item struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	VariantID string `json:"variantId,omitempty"`
	AddedAt   int64  `json:"addedAt"` // unix milliseconds
}

// Store is one session's wishlist, backed by durable storage. mu serializes
// Toggle's check-then-act so concurrent toggles of the same id flip
// membership exactly once each.
type Store struct {
	mu    sync.Mutex
	items *kv.Persistent[Item]
	now   func() time.Time
}

// NewStore creates a Store seeded from backend. A corrupt or missing stored
// payload yields an empty wishlist.
func NewStore(backend kv.Backend, log *zap.Logger) *Store {
	return &Store{
		items: kv.NewPersistent[Item](backend, log),
		now:   time.Now,
	}
}

// Toggle removes the item when its id is already favorited, otherwise
// inserts it with a fresh AddedAt. Any AddedAt on the argument is ignored.
// This is the only mutator: re-adding replaces the stored snapshot fields.
func (s *Store) Toggle(item Item) {
	if item.ID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items.GetKey(item.ID); ok {
		s.items.DeleteKey(item.ID)
		return
	}
	item.AddedAt = s.now().UnixMilli()
	s.items.SetKey(item.ID, item)
}

// IsFavorite reports whether the product id is currently favorited.
func (s *Store) IsFavorite(id string) bool {
	_, ok := s.items.GetKey(id)
	return ok
}

// Item returns the stored snapshot for id, if favorited.
func (s *Store) Item(id string) (Item, bool) {
	return s.items.GetKey(id)
}

// Items returns the wishlist, most recently added first.
func (s *Store) Items() []Item {
	m := s.items.Get()
	out := make([]Item, 0, len(m))
	for _, item := range m {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt != out[j].AddedAt {
			return out[i].AddedAt > out[j].AddedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of favorited products.
func (s *Store) Len() int { return s.items.Len() }

// Subscribe registers fn to run after every mutation. fn runs synchronously
// on the mutating goroutine and must not call Toggle.
func (s *Store) Subscribe(fn func(map[string]Item)) (unsubscribe func()) {
	return s.items.Subscribe(fn)
}
