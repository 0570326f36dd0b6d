// Package catalog models the product catalog: the immutable build-time
// snapshot, the product/variant records it contains, and the pure
// filter/sort engine that derives the visible product grid.
package catalog

import "github.com/shopspring/decimal"

// Money is a Storefront API money value. Amounts arrive as JSON strings
// ("1250.0"); decimal.Decimal unmarshals both quoted and bare numbers.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// Image is a denormalized product image reference.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// SelectedOption is one name/value pair of a variant's option configuration.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant is a purchasable configuration of a product.
type Variant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	SKU               string           `json:"sku,omitempty"`
	AvailableForSale  bool             `json:"availableForSale"`
	QuantityAvailable *int             `json:"quantityAvailable,omitempty"`
	Price             Money            `json:"price"`
	CompareAtPrice    *Money           `json:"compareAtPrice,omitempty"`
	SelectedOptions   []SelectedOption `json:"selectedOptions,omitempty"`
}

// Sellable reports whether the variant can be bought. An absent
// QuantityAvailable means inventory is not tracked and the variant counts
// as available.
func (v Variant) Sellable() bool {
	return v.AvailableForSale && (v.QuantityAvailable == nil || *v.QuantityAvailable > 0)
}

// PriceRange carries the cheapest variant price, used for grid display and
// price filtering.
type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
}

// Product is one catalog record. Products are treated as immutable for the
// lifetime of a snapshot.
type Product struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Handle        string     `json:"handle"`
	Description   string     `json:"description,omitempty"`
	ProductType   string     `json:"productType"`
	Tags          []string   `json:"tags"`
	PriceRange    PriceRange `json:"priceRange"`
	FeaturedImage *Image     `json:"featuredImage,omitempty"`
	Variants      []Variant  `json:"variants,omitempty"`
}

// MinPrice returns the product's minimum variant price amount.
func (p Product) MinPrice() decimal.Decimal {
	return p.PriceRange.MinVariantPrice.Amount
}

// FirstVariant returns the first variant, the default selection on a detail
// page before the user picks an option.
func (p Product) FirstVariant() (Variant, bool) {
	if len(p.Variants) == 0 {
		return Variant{}, false
	}
	return p.Variants[0], true
}
