package shopify

import "context"

// CartLineInput is one line of a remote-cart creation request.
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// UserError is a validation error attached to a cartCreate response.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// RemoteCart is the created remote cart.
type RemoteCart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
}

// CartCreate creates a remote cart. A nil RemoteCart with userErrors is the
// defined validation-failure signal; transport failures return an error.
func (c *Client) CartCreate(ctx context.Context, lines []CartLineInput) (*RemoteCart, []UserError, error) {
	var data struct {
		CartCreate struct {
			Cart       *RemoteCart `json:"cart"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"cartCreate"`
	}

	vars := map[string]any{
		"input": map[string]any{"lines": lines},
	}
	if err := c.Do(ctx, cartCreateMutation, vars, &data); err != nil {
		return nil, nil, err
	}
	return data.CartCreate.Cart, data.CartCreate.UserErrors, nil
}
