package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/search"
	"github.com/Cardenas2911/dtalles-jewelry/internal/shopify"
)

// SearchHandler serves product text search. Each session runs its own
// searcher, so one user's in-flight search is only ever superseded by their
// own newer one.
type SearchHandler struct {
	log *zap.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(log *zap.Logger) *SearchHandler {
	return &SearchHandler{log: log}
}

// SearchResponseDTO carries search hits.
type SearchResponseDTO struct {
	Results []shopify.SearchResult `json:"results"`
	Count   int                    `json:"count"`
}

// Search runs a text search for the q parameter. Searching is a degraded
// feature when the Storefront API is unreachable: the client sees an empty,
// explicitly degraded response rather than an error page.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, h.log, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	results, err := sess.Searcher.Search(r.Context(), r.URL.Query().Get("q"))
	switch {
	case errors.Is(err, search.ErrSuperseded):
		respondError(w, h.log, http.StatusConflict, "superseded", "a newer search is in flight")
		return
	case errors.Is(err, shopify.ErrNotConfigured), errors.Is(err, shopify.ErrUnavailable):
		respondJSON(w, h.log, http.StatusOK, struct {
			SearchResponseDTO
			Degraded bool `json:"degraded"`
		}{SearchResponseDTO{Results: []shopify.SearchResult{}}, true})
		return
	case err != nil:
		respondError(w, h.log, http.StatusBadGateway, "search_failed", "search is temporarily unavailable")
		return
	}
	respondJSON(w, h.log, http.StatusOK, SearchResponseDTO{Results: results, Count: len(results)})
}
