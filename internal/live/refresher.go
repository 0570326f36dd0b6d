// Package live corrects static-build staleness on product detail views. A
// Refresher fetches the complete live record for a product; a View merges it
// field by field over the static snapshot record and reconciles the user's
// in-progress variant selection against the refreshed variant list.
package live

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Cardenas2911/dtalles-jewelry/internal/shopify"
)

// productFetcher is the slice of the Storefront client the refresher needs.
type productFetcher interface {
	LiveProduct(ctx context.Context, productID string) (*shopify.LiveProduct, error)
}

// Refresher fetches live product records, deduplicating concurrent fetches
// for the same product.
type Refresher struct {
	api productFetcher
	sf  singleflight.Group
	log *zap.Logger
}

// NewRefresher creates a Refresher on top of the given Storefront client.
func NewRefresher(api productFetcher, log *zap.Logger) *Refresher {
	return &Refresher{api: api, log: log}
}

// Fetch returns the live record for productID, or an error when the record
// is unavailable. The caller keeps serving static data on error; there is no
// partial result.
func (r *Refresher) Fetch(ctx context.Context, productID string) (*shopify.LiveProduct, error) {
	v, err, _ := r.sf.Do(productID, func() (any, error) {
		return r.api.LiveProduct(ctx, productID)
	})
	if err != nil {
		r.log.Debug("live product fetch failed", zap.String("product", productID), zap.Error(err))
		return nil, err
	}
	return v.(*shopify.LiveProduct), nil
}

// Refresh runs one fetch for the view's product and applies the outcome,
// discarding it when a newer refresh has already settled.
func (r *Refresher) Refresh(ctx context.Context, view *View) {
	token := view.Begin()
	record, err := r.Fetch(ctx, view.ProductID())
	if err != nil {
		view.Fail(token)
		return
	}
	view.ApplyLive(token, record)
}
