package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups the API handlers the router mounts.
type Handlers struct {
	Products  *ProductHandler
	Cart      *CartHandler
	Favorites *FavoritesHandler
	Search    *SearchHandler
	Checkout  *CheckoutHandler
}

// NewRouter builds the storefront API router with the standard middleware
// stack and session resolution on all API routes.
func NewRouter(sessions *Sessions, h Handlers, requestTimeout time.Duration, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/filters", h.Products.Filters)
			r.Get("/{handle}", h.Products.Get)
			r.Get("/{handle}/live", h.Products.GetLive)
		})

		r.Get("/search", h.Search.Search)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{id}", h.Cart.RemoveItem)
			r.Post("/open", h.Cart.SetOpen)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.Favorites.List)
			r.Post("/toggle", h.Favorites.Toggle)
			r.Get("/{id}", h.Favorites.Contains)
		})

		r.Post("/checkout", h.Checkout.Begin)
	})

	return r
}
