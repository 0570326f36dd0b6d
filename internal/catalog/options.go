package catalog

import (
	"sort"
	"strings"
)

// audienceKeywords is the fixed vocabulary of tags treated as collections.
var audienceKeywords = []string{"mujer", "hombre", "niños", "niña", "regalo"}

// FilterOptions are the selectable values offered by the filter UI, derived
// once per catalog snapshot.
type FilterOptions struct {
	Categories  []string `json:"categories"`
	Collections []string `json:"collections"`
	Materials   []string `json:"materials"`
}

// DeriveOptions scans the catalog for distinct product types (categories),
// audience tags (collections) and material tags. Categories and collections
// are sorted alphabetically; materials keep their canonical order.
func DeriveOptions(products []Product) FilterOptions {
	categories := make(map[string]bool)
	collections := make(map[string]string) // normalized -> first-seen form
	materials := make(map[string]bool)

	for _, p := range products {
		if p.ProductType != "" {
			categories[p.ProductType] = true
		}
		for _, tag := range p.Tags {
			norm := strings.ToLower(strings.TrimSpace(tag))
			for _, kw := range audienceKeywords {
				if norm == kw {
					if _, ok := collections[norm]; !ok {
						collections[norm] = strings.TrimSpace(tag)
					}
				}
			}
		}
		for _, label := range MaterialsOf(p.Tags) {
			materials[label] = true
		}
	}

	opts := FilterOptions{
		Categories:  make([]string, 0, len(categories)),
		Collections: make([]string, 0, len(collections)),
	}
	for _, label := range []string{MaterialGold10k, MaterialGold14k, MaterialSilver, MaterialTricolor} {
		if materials[label] {
			opts.Materials = append(opts.Materials, label)
		}
	}
	for c := range categories {
		opts.Categories = append(opts.Categories, c)
	}
	for _, c := range collections {
		opts.Collections = append(opts.Collections, c)
	}
	sort.Strings(opts.Categories)
	sort.Strings(opts.Collections)
	return opts
}
