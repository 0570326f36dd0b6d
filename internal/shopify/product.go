package shopify

import (
	"context"
	"fmt"

	"github.com/Cardenas2911/dtalles-jewelry/internal/catalog"
)

// Metafield keys carried on a live product record.
const (
	KeyWeight         = "peso_real"
	KeyWidth          = "ancho_mm"
	KeyMaterial       = "material"
	KeyColor          = "color-pattern"
	KeyAgeGroup       = "age-group"
	KeyGender         = "target-gender"
	KeyJewelryMat     = "jewelry-material"
	KeyJewelryType    = "jewelry-type"
	KeyNecklaceDesign = "necklace-design"
)

// LiveProduct is a complete live product record fetched at page-view time.
// It supersedes the static snapshot record when present; it is never merged
// partially, a fetch either yields the whole record or fails.
type LiveProduct struct {
	ID              string
	Title           string
	DescriptionHTML string
	Vendor          string
	ProductType     string
	Tags            []string
	Metafields      map[string]*Metafield
	Variants        []catalog.Variant
}

// Metafield returns the named metafield, or nil when absent. Keys are the
// Key* constants above.
func (p *LiveProduct) Metafield(key string) *Metafield {
	if p == nil {
		return nil
	}
	return p.Metafields[key]
}

type variantNode struct {
	ID                string                   `json:"id"`
	Title             string                   `json:"title"`
	SKU               *string                  `json:"sku"`
	AvailableForSale  bool                     `json:"availableForSale"`
	QuantityAvailable *int                     `json:"quantityAvailable"`
	Price             catalog.Money            `json:"price"`
	CompareAtPrice    *catalog.Money           `json:"compareAtPrice"`
	SelectedOptions   []catalog.SelectedOption `json:"selectedOptions"`
}

type variantConnection struct {
	Edges []struct {
		Node variantNode `json:"node"`
	} `json:"edges"`
}

func (c variantConnection) variants() []catalog.Variant {
	out := make([]catalog.Variant, 0, len(c.Edges))
	for _, e := range c.Edges {
		v := catalog.Variant{
			ID:                e.Node.ID,
			Title:             e.Node.Title,
			AvailableForSale:  e.Node.AvailableForSale,
			QuantityAvailable: e.Node.QuantityAvailable,
			Price:             e.Node.Price,
			CompareAtPrice:    e.Node.CompareAtPrice,
			SelectedOptions:   e.Node.SelectedOptions,
		}
		if e.Node.SKU != nil {
			v.SKU = *e.Node.SKU
		}
		out = append(out, v)
	}
	return out
}

type liveProductNode struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	DescriptionHTML string            `json:"descriptionHtml"`
	Vendor          string            `json:"vendor"`
	ProductType     string            `json:"productType"`
	Tags            []string          `json:"tags"`
	Variants        variantConnection `json:"variants"`

	PesoReal              *Metafield `json:"pesoReal"`
	AnchoMm               *Metafield `json:"anchoMm"`
	Material              *Metafield `json:"material"`
	ShopifyColor          *Metafield `json:"shopifyColor"`
	ShopifyAgeGroup       *Metafield `json:"shopifyAgeGroup"`
	ShopifyGender         *Metafield `json:"shopifyGender"`
	ShopifyMaterial       *Metafield `json:"shopifyMaterial"`
	ShopifyJewelryType    *Metafield `json:"shopifyJewelryType"`
	ShopifyNecklaceDesign *Metafield `json:"shopifyNecklaceDesign"`
}

// LiveProduct fetches the complete live record for a product id. It returns
// ErrNotConfigured or ErrUnavailable on any failure, including a product
// with no variants in the response, so the caller can fall back to static
// data as a whole.
func (c *Client) LiveProduct(ctx context.Context, productID string) (*LiveProduct, error) {
	var data struct {
		Product *liveProductNode `json:"product"`
	}
	if err := c.Do(ctx, liveProductQuery, map[string]any{"id": productID}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil || len(data.Product.Variants.Edges) == 0 {
		return nil, fmt.Errorf("%w: no live product data", ErrUnavailable)
	}

	p := data.Product
	return &LiveProduct{
		ID:              p.ID,
		Title:           p.Title,
		DescriptionHTML: p.DescriptionHTML,
		Vendor:          p.Vendor,
		ProductType:     p.ProductType,
		Tags:            p.Tags,
		Variants:        p.Variants.variants(),
		Metafields: map[string]*Metafield{
			KeyWeight:         p.PesoReal,
			KeyWidth:          p.AnchoMm,
			KeyMaterial:       p.Material,
			KeyColor:          p.ShopifyColor,
			KeyAgeGroup:       p.ShopifyAgeGroup,
			KeyGender:         p.ShopifyGender,
			KeyJewelryMat:     p.ShopifyMaterial,
			KeyJewelryType:    p.ShopifyJewelryType,
			KeyNecklaceDesign: p.ShopifyNecklaceDesign,
		},
	}, nil
}
