package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/checkout"
	"github.com/Cardenas2911/dtalles-jewelry/internal/shopify"
)

// CheckoutHandler starts the checkout handoff for the session cart.
type CheckoutHandler struct {
	handoff *checkout.Handoff
	log     *zap.Logger
}

// NewCheckoutHandler creates a CheckoutHandler.
func NewCheckoutHandler(handoff *checkout.Handoff, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{handoff: handoff, log: log}
}

// CheckoutResponseDTO carries the URL the browser should redirect to.
type CheckoutResponseDTO struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// Begin creates the remote cart and returns the checkout URL. Validation
// failures are 422 and retryable; transport failures are 502. The client
// never gets a URL on a partial or ambiguous success.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		respondError(w, h.log, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	url, err := h.handoff.Begin(r.Context(), sess.Cart.Lines())

	var validation *checkout.ValidationError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, h.log, http.StatusBadRequest, "empty_cart", "cart is empty")
		return
	case errors.As(err, &validation):
		respondError(w, h.log, http.StatusUnprocessableEntity, "checkout_rejected", validation.Error())
		return
	case errors.Is(err, shopify.ErrNotConfigured), errors.Is(err, shopify.ErrUnavailable):
		respondError(w, h.log, http.StatusBadGateway, "checkout_unavailable", "checkout is temporarily unavailable")
		return
	case err != nil:
		respondError(w, h.log, http.StatusBadGateway, "checkout_failed", "checkout failed")
		return
	}

	respondJSON(w, h.log, http.StatusOK, CheckoutResponseDTO{CheckoutURL: url})
}
