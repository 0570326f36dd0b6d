// Package search runs product text searches against the Storefront API. A
// Searcher belongs to one search box instance: requests are tagged with a
// monotonic sequence number so a slow superseded response is discarded
// instead of overwriting newer results.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Cardenas2911/dtalles-jewelry/internal/shopify"
)

// MinQueryLength is the minimum trimmed query length that triggers a
// network call; shorter queries return empty results locally.
const MinQueryLength = 3

const defaultLimit = 10

// ErrSuperseded is returned when a newer search started before this one's
// response arrived.
var ErrSuperseded = errors.New("search superseded by a newer query")

// querier is the slice of the Storefront client the searcher needs.
type querier interface {
	SearchProducts(ctx context.Context, query string, first int) ([]shopify.SearchResult, error)
}

// Searcher runs searches for one search box instance.
type Searcher struct {
	api   querier
	limit int
	seq   atomic.Uint64
	log   *zap.Logger
}

// NewSearcher creates a Searcher returning at most limit results per query.
// A limit of zero or less uses the default.
func NewSearcher(api querier, limit int, log *zap.Logger) *Searcher {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Searcher{api: api, limit: limit, log: log}
}

// WildcardQuery builds the Storefront search expression matching the query
// as a title or tag prefix.
func WildcardQuery(q string) string {
	return fmt.Sprintf("title:%s* OR tag:%s*", q, q)
}

// Search runs one search. Queries shorter than MinQueryLength yield an
// empty result without a network call. ErrSuperseded is returned when a
// newer Search call started while this one was in flight.
func (s *Searcher) Search(ctx context.Context, query string) ([]shopify.SearchResult, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < MinQueryLength {
		return []shopify.SearchResult{}, nil
	}

	token := s.seq.Add(1)
	results, err := s.api.SearchProducts(ctx, WildcardQuery(q), s.limit)
	if s.seq.Load() != token {
		return nil, ErrSuperseded
	}
	if err != nil {
		s.log.Warn("search failed", zap.String("query", q), zap.Error(err))
		return nil, err
	}
	return results, nil
}
