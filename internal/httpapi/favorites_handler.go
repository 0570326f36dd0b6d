package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/favorites"
)

// FavoritesHandler serves the session wishlist.
type FavoritesHandler struct {
	log *zap.Logger
}

// NewFavoritesHandler creates a FavoritesHandler.
func NewFavoritesHandler(log *zap.Logger) *FavoritesHandler {
	return &FavoritesHandler{log: log}
}

// ToggleRequestDTO is the toggle request body; AddedAt is assigned by the
// store and ignored here.
type ToggleRequestDTO struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	VariantID string `json:"variantId,omitempty"`
}

// WishlistResponseDTO is the full wishlist, most recently added first.
type WishlistResponseDTO struct {
	Items []favorites.Item `json:"items"`
	Count int              `json:"count"`
}

// List returns the wishlist.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, h.log, http.StatusUnauthorized, "no_session", "missing session")
		return
	}
	items := sess.Favorites.Items()
	respondJSON(w, h.log, http.StatusOK, WishlistResponseDTO{Items: items, Count: len(items)})
}

// Toggle flips membership for a product id: inserts with a fresh addedAt, or
// removes an existing entry.
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, h.log, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req ToggleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ID == "" {
		respondError(w, h.log, http.StatusBadRequest, "invalid_id", "id is required")
		return
	}

	sess.Favorites.Toggle(favorites.Item{
		ID:        req.ID,
		Handle:    req.Handle,
		Title:     req.Title,
		Price:     req.Price,
		Image:     req.Image,
		VariantID: req.VariantID,
	})
	respondJSON(w, h.log, http.StatusOK, map[string]bool{
		"favorited": sess.Favorites.IsFavorite(req.ID),
	})
}

// Contains reports membership for a product id.
func (h *FavoritesHandler) Contains(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, h.log, http.StatusUnauthorized, "no_session", "missing session")
		return
	}
	respondJSON(w, h.log, http.StatusOK, map[string]bool{
		"favorited": sess.Favorites.IsFavorite(chi.URLParam(r, "id")),
	})
}
