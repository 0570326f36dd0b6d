package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/catalog"
	"github.com/Cardenas2911/dtalles-jewelry/internal/live"
)

// ProductHandler serves the catalog: the filtered grid, filter options, and
// static and live product detail views.
type ProductHandler struct {
	snapshot  *catalog.Snapshot
	options   catalog.FilterOptions
	refresher *live.Refresher
	timeout   time.Duration
	log       *zap.Logger
}

// NewProductHandler creates a ProductHandler. Filter options are derived
// once from the snapshot.
func NewProductHandler(snapshot *catalog.Snapshot, refresher *live.Refresher, timeout time.Duration, log *zap.Logger) *ProductHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProductHandler{
		snapshot:  snapshot,
		options:   catalog.DeriveOptions(snapshot.Products()),
		refresher: refresher,
		timeout:   timeout,
		log:       log,
	}
}

// GridResponseDTO is the filtered product grid.
type GridResponseDTO struct {
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
	Total    int               `json:"total"`
}

// List applies the filter/sort selection from the query string to the
// snapshot. A selection matching zero products is a valid response, not an
// error.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_selection", err.Error())
		return
	}

	products := catalog.Apply(h.snapshot.Products(), sel)
	respondJSON(w, h.log, http.StatusOK, GridResponseDTO{
		Products: products,
		Count:    len(products),
		Total:    h.snapshot.Len(),
	})
}

// Filters returns the selectable filter options.
func (h *ProductHandler) Filters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.log, http.StatusOK, h.options)
}

// Get returns the static snapshot record for a product handle.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, ok := h.snapshot.ByHandle(chi.URLParam(r, "handle"))
	if !ok {
		respondError(w, h.log, http.StatusNotFound, "not_found", "product not found")
		return
	}
	respondJSON(w, h.log, http.StatusOK, product)
}

// DetailResponseDTO is the merged detail view: live data where available,
// static data everywhere else.
type DetailResponseDTO struct {
	ID          string            `json:"id"`
	Handle      string            `json:"handle"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Vendor      string            `json:"vendor,omitempty"`
	ProductType string            `json:"productType,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
	Variants    []catalog.Variant `json:"variants"`
	Selected    *catalog.Variant  `json:"selectedVariant,omitempty"`
	Live        bool              `json:"live"`
}

// GetLive returns the detail view after one live refresh attempt. A failed
// refresh degrades to the static record with no error surfaced.
func (h *ProductHandler) GetLive(w http.ResponseWriter, r *http.Request) {
	product, ok := h.snapshot.ByHandle(chi.URLParam(r, "handle"))
	if !ok {
		respondError(w, h.log, http.StatusNotFound, "not_found", "product not found")
		return
	}

	view := live.NewView(product)
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	h.refresher.Refresh(ctx, view)

	resp := DetailResponseDTO{
		ID:          product.ID,
		Handle:      product.Handle,
		Title:       view.Title(),
		Description: view.Description(),
		Vendor:      view.Vendor(),
		ProductType: view.ProductType(),
		Tags:        view.Tags(),
		Details:     view.Details(),
		Variants:    view.Variants(),
		Live:        view.State() == live.StateLive,
	}
	if selected, ok := view.Selected(); ok {
		resp.Selected = &selected
	}
	respondJSON(w, h.log, http.StatusOK, resp)
}

// selectionFromQuery parses the filter/sort query parameters. Repeated
// parameters OR within a group.
func selectionFromQuery(r *http.Request) (catalog.Selection, error) {
	q := r.URL.Query()
	sel := catalog.NewSelection()

	sel.Category = q["category"]
	sel.Collection = q["collection"]
	sel.Material = q["material"]

	if v := q.Get("price_min"); v != "" {
		min, err := decimal.NewFromString(v)
		if err != nil {
			return sel, err
		}
		sel.PriceMin = min
	}
	if v := q.Get("price_max"); v != "" {
		max, err := decimal.NewFromString(v)
		if err != nil {
			return sel, err
		}
		sel.PriceMax = max
	}

	switch sort := catalog.SortOrder(q.Get("sort")); sort {
	case "", catalog.SortFeatured:
		sel.SortBy = catalog.SortFeatured
	case catalog.SortPriceLowHigh, catalog.SortPriceHighLow:
		sel.SortBy = sort
	default:
		sel.SortBy = catalog.SortFeatured
	}
	return sel, nil
}
