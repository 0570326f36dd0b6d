package shopify

import (
	"context"

	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/catalog"
)

const defaultPageSize = 100

type productNode struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Handle        string             `json:"handle"`
	Description   string             `json:"description"`
	ProductType   string             `json:"productType"`
	Tags          []string           `json:"tags"`
	PriceRange    catalog.PriceRange `json:"priceRange"`
	FeaturedImage *catalog.Image     `json:"featuredImage"`
	Variants      variantConnection  `json:"variants"`
}

func (n productNode) product() catalog.Product {
	return catalog.Product{
		ID:            n.ID,
		Title:         n.Title,
		Handle:        n.Handle,
		Description:   n.Description,
		ProductType:   n.ProductType,
		Tags:          n.Tags,
		PriceRange:    n.PriceRange,
		FeaturedImage: n.FeaturedImage,
		Variants:      n.Variants.variants(),
	}
}

// AllProducts pages through the full catalog, the build-time snapshot
// producer. pageSize of zero or less uses the default.
func (c *Client) AllProducts(ctx context.Context, pageSize int) ([]catalog.Product, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var products []catalog.Product
	var cursor *string
	for {
		var data struct {
			Products struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Edges []struct {
					Node productNode `json:"node"`
				} `json:"edges"`
			} `json:"products"`
		}

		vars := map[string]any{"first": pageSize}
		if cursor != nil {
			vars["cursor"] = *cursor
		}
		if err := c.Do(ctx, allProductsQuery, vars, &data); err != nil {
			return nil, err
		}

		for _, e := range data.Products.Edges {
			products = append(products, e.Node.product())
		}
		if !data.Products.PageInfo.HasNextPage {
			break
		}
		end := data.Products.PageInfo.EndCursor
		cursor = &end
	}

	c.log.Info("catalog snapshot fetched", zap.Int("products", len(products)))
	return products, nil
}
