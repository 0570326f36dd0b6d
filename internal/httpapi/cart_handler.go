package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/cart"
)

// CartHandler serves the session cart.
type CartHandler struct {
	log *zap.Logger
}

// NewCartHandler creates a CartHandler.
func NewCartHandler(log *zap.Logger) *CartHandler {
	return &CartHandler{log: log}
}

// AddItemRequestDTO is the add-to-cart request body.
type AddItemRequestDTO struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	VariantTitle string          `json:"variantTitle,omitempty"`
	Handle       string          `json:"handle"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image,omitempty"`
	Quantity     int             `json:"quantity"`
}

// UpdateQuantityRequestDTO is the quantity-update request body.
type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// SetOpenRequestDTO toggles the cart drawer visibility.
type SetOpenRequestDTO struct {
	Open bool `json:"open"`
}

// CartResponseDTO is the full cart view: lines in insertion order, derived
// totals, and the drawer flag.
type CartResponseDTO struct {
	Lines  []cart.Line `json:"lines"`
	Totals cart.Totals `json:"totals"`
	IsOpen bool        `json:"isOpen"`
}

func cartResponse(s *cart.Store) CartResponseDTO {
	return CartResponseDTO{
		Lines:  s.Lines(),
		Totals: s.Totals(),
		IsOpen: s.IsOpen(),
	}
}

// GetCart returns the current cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, h.log, http.StatusUnauthorized, "no_session", "missing session")
		return
	}
	respondJSON(w, h.log, http.StatusOK, cartResponse(sess.Cart))
}

// AddItem adds a line, merging quantity into an existing line with the same
// variant id.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, h.log, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ID == "" {
		respondError(w, h.log, http.StatusBadRequest, "invalid_id", "id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, h.log, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	if req.Price.IsNegative() {
		respondError(w, h.log, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	sess.Cart.AddItem(cart.Line{
		ID:           req.ID,
		Title:        req.Title,
		VariantTitle: req.VariantTitle,
		Handle:       req.Handle,
		Price:        req.Price,
		Image:        req.Image,
		Quantity:     req.Quantity,
	})
	respondJSON(w, h.log, http.StatusOK, cartResponse(sess.Cart))
}

// UpdateQuantity replaces a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, h.log, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess.Cart.UpdateQuantity(chi.URLParam(r, "id"), req.Quantity)
	respondJSON(w, h.log, http.StatusOK, cartResponse(sess.Cart))
}

// RemoveItem deletes a line; removing an absent line is not an error.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, h.log, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	sess.Cart.RemoveItem(chi.URLParam(r, "id"))
	respondJSON(w, h.log, http.StatusOK, cartResponse(sess.Cart))
}

// SetOpen sets the drawer visibility flag.
func (h *CartHandler) SetOpen(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, h.log, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req SetOpenRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess.Cart.SetOpen(req.Open)
	respondJSON(w, h.log, http.StatusOK, cartResponse(sess.Cart))
}
