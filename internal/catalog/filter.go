package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SortOrder selects the grid ordering.
type SortOrder string

const (
	SortFeatured     SortOrder = "featured"
	SortPriceLowHigh SortOrder = "price-low-high"
	SortPriceHighLow SortOrder = "price-high-low"
)

// PriceCeiling is the price slider's upper sentinel. A selection whose Max
// is at or above the ceiling is unbounded above, so raising the slider to
// its maximum never excludes expensive items.
const PriceCeiling = 5000

// Canonical material labels derived from product tags.
const (
	MaterialGold10k  = "Oro 10k"
	MaterialGold14k  = "Oro 14k"
	MaterialSilver   = "Plata"
	MaterialTricolor = "Tricolor"
)

// materialTags maps tag substrings to canonical material labels. Scanned in
// order so derived material lists are deterministic.
var materialTags = []struct {
	substr string
	label  string
}{
	{"10k", MaterialGold10k},
	{"14k", MaterialGold14k},
	{"plata", MaterialSilver},
	{"silver", MaterialSilver},
	{"tricolor", MaterialTricolor},
}

// Selection is the user's filter/sort configuration. Each group is vacuous
// when empty; groups combine with AND, values within a group with OR.
// Construct with NewSelection to get the unbounded price defaults.
type Selection struct {
	Category   []string
	Collection []string
	Material   []string
	PriceMin   decimal.Decimal
	PriceMax   decimal.Decimal
	SortBy     SortOrder
}

// NewSelection returns the default selection: no group constraints, the full
// price range, featured order.
func NewSelection() Selection {
	return Selection{
		PriceMin: decimal.Zero,
		PriceMax: decimal.NewFromInt(PriceCeiling),
		SortBy:   SortFeatured,
	}
}

// Apply derives the visible product subset and its order. It is a pure
// function over the input slice: the input is never mutated, the result is
// always a subset of it, and equal-priced products keep their relative
// catalog order.
func Apply(products []Product, sel Selection) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if matches(p, sel) {
			result = append(result, p)
		}
	}

	switch sel.SortBy {
	case SortPriceLowHigh:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].MinPrice().LessThan(result[j].MinPrice())
		})
	case SortPriceHighLow:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].MinPrice().GreaterThan(result[j].MinPrice())
		})
	}
	return result
}

func matches(p Product, sel Selection) bool {
	if len(sel.Category) > 0 && !containsString(sel.Category, p.ProductType) {
		return false
	}
	if len(sel.Collection) > 0 && !hasCollectionTag(p.Tags, sel.Collection) {
		return false
	}
	if len(sel.Material) > 0 && !intersects(MaterialsOf(p.Tags), sel.Material) {
		return false
	}
	return priceInRange(p.MinPrice(), sel)
}

// hasCollectionTag reports whether any tag's case-insensitive trimmed form
// equals one of the selected collection values. Exact match, not substring,
// so "hombre" does not match "hombres personalizados".
func hasCollectionTag(tags, selected []string) bool {
	for _, tag := range tags {
		norm := strings.ToLower(strings.TrimSpace(tag))
		for _, want := range selected {
			if norm == strings.ToLower(strings.TrimSpace(want)) {
				return true
			}
		}
	}
	return false
}

// MaterialsOf derives the canonical material labels from product tags. A
// product may carry several materials.
func MaterialsOf(tags []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range materialTags {
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag), m.substr) && !seen[m.label] {
				seen[m.label] = true
				out = append(out, m.label)
			}
		}
	}
	return out
}

// priceInRange applies the inclusive price bounds. The upper bound only
// binds when Max is positive and below the ceiling sentinel.
func priceInRange(price decimal.Decimal, sel Selection) bool {
	if sel.PriceMin.IsPositive() && price.LessThan(sel.PriceMin) {
		return false
	}
	bounded := sel.PriceMax.IsPositive() && sel.PriceMax.LessThan(decimal.NewFromInt(PriceCeiling))
	if bounded && price.GreaterThan(sel.PriceMax) {
		return false
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if containsString(b, x) {
			return true
		}
	}
	return false
}
