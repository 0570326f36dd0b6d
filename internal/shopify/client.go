// Package shopify is the Storefront GraphQL API client. The Storefront API
// is an opaque collaborator: every failure here is soft and callers are
// expected to degrade to static data rather than surface errors to the user.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var (
	// ErrNotConfigured is returned when no endpoint or credentials are
	// resolvable. Callers fall back to static data.
	ErrNotConfigured = errors.New("storefront api not configured")

	// ErrUnavailable is returned on transport, status or parse failures, and
	// while the circuit breaker is open.
	ErrUnavailable = errors.New("storefront api unavailable")
)

const defaultTimeout = 10 * time.Second

// Config locates the Storefront API. All three fields are required; a Client
// built from an incomplete Config returns ErrNotConfigured from every call.
type Config struct {
	StoreDomain string // e.g. "dtalles-jewelry.myshopify.com"
	APIVersion  string // e.g. "2024-07"
	AccessToken string
	Timeout     time.Duration
}

func (c Config) complete() bool {
	return c.StoreDomain != "" && c.APIVersion != "" && c.AccessToken != ""
}

// Endpoint returns the graphql.json URL for the configured store.
func (c Config) Endpoint() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.StoreDomain, c.APIVersion)
}

// Client issues Storefront GraphQL operations. A circuit breaker wraps every
// call so a flapping upstream degrades to ErrUnavailable quickly instead of
// stacking up slow requests.
type Client struct {
	endpoint   string
	token      string
	configured bool
	timeout    time.Duration
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker[json.RawMessage]
	log        *zap.Logger
}

// NewClient builds a Client from cfg. An incomplete cfg still yields a
// usable Client whose calls all return ErrNotConfigured.
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   cfg.Endpoint(),
		token:      cfg.AccessToken,
		configured: cfg.complete(),
		timeout:    timeout,
		http:       &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
			Name:    "storefront-api",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		log: log,
	}
}

// Configured reports whether the client has a resolvable endpoint and token.
func (c *Client) Configured() bool { return c.configured }

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// Do executes one GraphQL operation and unmarshals the response data into
// out. Every call is bounded by the client timeout even when the caller's
// context has no deadline.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	if !c.configured {
		return ErrNotConfigured
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	data, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.post(ctx, query, variables)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.log.Warn("storefront circuit open", zap.Error(err))
			return fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return err
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: decode data: %v", ErrUnavailable, err)
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("storefront request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("storefront non-2xx response", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var gql gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gql); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if len(gql.Errors) > 0 {
		c.log.Warn("storefront graphql errors", zap.String("first", gql.Errors[0].Message))
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, gql.Errors[0].Message)
	}
	return gql.Data, nil
}
