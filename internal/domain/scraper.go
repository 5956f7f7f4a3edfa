// internal/domain/scraper.go
package domain

import (
	"context"
	"errors"
)

// Request-fatal failure kinds. Everything else degrades to a partial result.
var (
	ErrTransport = errors.New("upstream request failed")
	ErrTimeout   = errors.New("upstream request timed out")
	ErrProtocol  = errors.New("upstream response violated the search protocol")
	ErrMarkup    = errors.New("could not parse the response body")
)

// PropertySearcher answers a normalized query from a single listing source.
type PropertySearcher interface {
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
}
