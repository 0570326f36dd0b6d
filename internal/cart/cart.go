// Package cart holds the session-scoped shopping cart. Lines are keyed by
// variant id; totals are derived from the current lines on every read and
// never cached. The cart is intentionally not persisted across sessions.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Cardenas2911/dtalles-jewelry/internal/kv"
)

// taxRate is the flat estimated tax applied to the subtotal.
var taxRate = decimal.New(7, -2) // 0.07

// Line is one cart entry. Price is the unit price captured when the line was
// first added; it is not re-synced from the server afterward.
type Line struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	VariantTitle string          `json:"variantTitle,omitempty"`
	Handle       string          `json:"handle"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	Quantity     int             `json:"quantity"`
}

// Totals are the derived cart aggregates. Shipping is always zero (flat
// free-shipping policy).
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Store is one session's cart. Construct with NewStore; every session gets
// its own instance so tests and sessions stay isolated.
//
// mu serializes every mutation across its whole read-modify-write, so
// concurrent requests on the same session can never lose a quantity update
// or insert a duplicate line.
type Store struct {
	lines *kv.Store[Line]
	open  *kv.Atom[bool]

	mu    sync.RWMutex
	order []string // insertion order of line ids, for display
}

// NewStore creates an empty cart with the drawer closed.
func NewStore() *Store {
	return &Store{
		lines: kv.New[Line](),
		open:  kv.NewAtom(false),
	}
}

// AddItem inserts line, or merges it into an existing line with the same id.
// On merge only the quantity accumulates; title, price and image keep the
// values from the first insert. Adding also opens the cart drawer.
func (s *Store) AddItem(line Line) {
	if line.ID == "" || line.Quantity <= 0 {
		return
	}

	s.mu.Lock()
	existing, ok := s.lines.GetKey(line.ID)
	if ok {
		existing.Quantity += line.Quantity
		line = existing
	} else {
		s.order = append(s.order, line.ID)
	}
	s.lines.SetKey(line.ID, line)
	s.mu.Unlock()

	s.open.Set(true)
}

// RemoveItem deletes the line with the given id. Removing an absent id is a
// no-op, not an error.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()
}

// removeLocked deletes the line and its order entry. Caller holds s.mu.
func (s *Store) removeLocked(id string) {
	for i, lid := range s.order {
		if lid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.lines.DeleteKey(id)
}

// UpdateQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line. Updating an absent id is a no-op.
func (s *Store) UpdateQuantity(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines.GetKey(id)
	if !ok {
		return
	}
	if quantity <= 0 {
		s.removeLocked(id)
		return
	}
	line.Quantity = quantity
	s.lines.SetKey(id, line)
}

// Lines returns the current lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.lines.Get()
	out := make([]Line, 0, len(current))
	for _, id := range s.order {
		if line, ok := current[id]; ok {
			out = append(out, line)
		}
	}
	return out
}

// Line returns the line stored under id, if present.
func (s *Store) Line(id string) (Line, bool) {
	return s.lines.GetKey(id)
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	return s.lines.Len()
}

// Totals recomputes the aggregates from the current lines.
func (s *Store) Totals() Totals {
	subtotal := decimal.Zero
	for _, line := range s.lines.Get() {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: decimal.Zero,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// IsOpen reports whether the cart drawer is open.
func (s *Store) IsOpen() bool { return s.open.Get() }

// SetOpen sets the drawer visibility. This is a pure UI signal, independent
// of the line data.
func (s *Store) SetOpen(open bool) { s.open.Set(open) }

// SubscribeLines registers fn to run after every line mutation. fn runs
// synchronously on the mutating goroutine and must not call back into the
// Store.
func (s *Store) SubscribeLines(fn func(map[string]Line)) (unsubscribe func()) {
	return s.lines.Subscribe(fn)
}

// SubscribeOpen registers fn to run on every drawer visibility change.
func (s *Store) SubscribeOpen(fn func(bool)) (unsubscribe func()) {
	return s.open.Subscribe(fn)
}
