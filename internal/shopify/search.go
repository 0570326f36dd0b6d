package shopify

import (
	"context"

	"github.com/Cardenas2911/dtalles-jewelry/internal/catalog"
)

// SearchResult is one product hit from a text search.
type SearchResult struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Handle    string        `json:"handle"`
	Price     catalog.Money `json:"price"`
	Image     string        `json:"image,omitempty"`
	VariantID string        `json:"variantId,omitempty"`
}

// SearchProducts runs a Storefront product search with the given query
// string (Shopify search syntax) and result cap.
func (c *Client) SearchProducts(ctx context.Context, query string, first int) ([]SearchResult, error) {
	if first <= 0 {
		first = 10
	}

	var data struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID            string             `json:"id"`
					Title         string             `json:"title"`
					Handle        string             `json:"handle"`
					PriceRange    catalog.PriceRange `json:"priceRange"`
					FeaturedImage *catalog.Image     `json:"featuredImage"`
					Variants      variantConnection  `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}

	vars := map[string]any{"query": query, "first": first}
	if err := c.Do(ctx, searchProductsQuery, vars, &data); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(data.Products.Edges))
	for _, e := range data.Products.Edges {
		r := SearchResult{
			ID:     e.Node.ID,
			Title:  e.Node.Title,
			Handle: e.Node.Handle,
			Price:  e.Node.PriceRange.MinVariantPrice,
		}
		if e.Node.FeaturedImage != nil {
			r.Image = e.Node.FeaturedImage.URL
		}
		if vs := e.Node.Variants.variants(); len(vs) > 0 {
			r.VariantID = vs[0].ID
		}
		results = append(results, r)
	}
	return results, nil
}
