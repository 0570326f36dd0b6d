// Package checkout hands the cart off to the commerce platform: it creates
// a remote cart from the local lines and returns the checkout URL to
// redirect to. The checkout flow itself is Shopify's.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/cart"
	"github.com/Cardenas2911/dtalles-jewelry/internal/shopify"
)

// ErrEmptyCart is returned when there is nothing to check out; no network
// call is made.
var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// ValidationError carries the userErrors of a cartCreate response that
// returned no checkout URL. It is a recoverable, user-visible failure
// distinct from a transport failure: the action stays retryable.
type ValidationError struct {
	Errors []shopify.UserError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "checkout rejected: no checkout url returned"
	}
	msgs := make([]string, len(e.Errors))
	for i, ue := range e.Errors {
		msgs[i] = ue.Message
	}
	return "checkout rejected: " + strings.Join(msgs, "; ")
}

// cartCreator is the slice of the Storefront client the handoff needs.
type cartCreator interface {
	CartCreate(ctx context.Context, lines []shopify.CartLineInput) (*shopify.RemoteCart, []shopify.UserError, error)
}

// Handoff creates remote carts and produces redirect URLs.
type Handoff struct {
	api          cartCreator
	checkoutHost string
	log          *zap.Logger
}

// NewHandoff creates a Handoff. checkoutHost is the canonical commerce
// platform host ("<store>.myshopify.com") the checkout URL must point at;
// the storefront is served from a custom domain the checkout flow does not
// expect.
func NewHandoff(api cartCreator, checkoutHost string, log *zap.Logger) *Handoff {
	return &Handoff{api: api, checkoutHost: checkoutHost, log: log}
}

// Begin creates a remote cart with one line per local cart line and returns
// the normalized checkout URL. It never returns a URL on a partial or
// ambiguous success.
func (h *Handoff) Begin(ctx context.Context, lines []cart.Line) (string, error) {
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}

	inputs := make([]shopify.CartLineInput, len(lines))
	for i, line := range lines {
		inputs[i] = shopify.CartLineInput{
			MerchandiseID: line.ID,
			Quantity:      line.Quantity,
		}
	}

	remote, userErrors, err := h.api.CartCreate(ctx, inputs)
	if err != nil {
		return "", err
	}
	if remote == nil || remote.CheckoutURL == "" {
		h.log.Warn("cart create returned no checkout url", zap.Int("userErrors", len(userErrors)))
		return "", &ValidationError{Errors: userErrors}
	}

	redirect, err := normalizeCheckoutURL(remote.CheckoutURL, h.checkoutHost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shopify.ErrUnavailable, err)
	}

	h.log.Info("checkout handoff created", zap.String("cart", remote.ID))
	return redirect, nil
}

// normalizeCheckoutURL rewrites the URL's host to the canonical checkout
// host. An empty host leaves the URL untouched.
func normalizeCheckoutURL(raw, host string) (string, error) {
	if host == "" {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse checkout url: %w", err)
	}
	u.Host = host
	return u.String(), nil
}
