package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot is the immutable product array embedded at build time. It is the
// baseline data source for listing and detail views until the live refresh
// layer supplies a replacement for an individual product.
type Snapshot struct {
	products []Product
	byID     map[string]int
	byHandle map[string]int
}

// NewSnapshot builds a Snapshot from products, preserving their order.
func NewSnapshot(products []Product) *Snapshot {
	s := &Snapshot{
		products: make([]Product, len(products)),
		byID:     make(map[string]int, len(products)),
		byHandle: make(map[string]int, len(products)),
	}
	copy(s.products, products)
	for i, p := range s.products {
		s.byID[p.ID] = i
		s.byHandle[p.Handle] = i
	}
	return s
}

// LoadSnapshot reads a JSON-encoded product array from path.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return NewSnapshot(products), nil
}

// Products returns the products in catalog order. The returned slice is a
// copy; mutating it does not affect the snapshot.
func (s *Snapshot) Products() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len returns the number of products.
func (s *Snapshot) Len() int { return len(s.products) }

// ByID returns the product with the given id.
func (s *Snapshot) ByID(id string) (Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// ByHandle returns the product with the given handle.
func (s *Snapshot) ByHandle(handle string) (Product, bool) {
	i, ok := s.byHandle[handle]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}
