// Package search issues web queries and returns candidate document URLs.
package search

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/agenthands/ise/internal/config"
)

var ErrMissingCredentials = errors.New("search: api key and engine id are required")

type Searcher interface {
	// Search returns result URLs in engine rank order.
	Search(ctx context.Context, query string) ([]string, error)
}

// GoogleSearcher queries the Google Custom Search JSON API.
type GoogleSearcher struct {
	svc      *customsearch.Service
	engineID string
	pageSize int64
}

func NewGoogleSearcher(ctx context.Context, cfg config.SearchConfig, opts ...option.ClientOption) (*GoogleSearcher, error) {
	if cfg.EngineID == "" || (cfg.APIKey == "" && len(opts) == 0) {
		return nil, ErrMissingCredentials
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 10 {
		pageSize = 10
	}
	return &GoogleSearcher{svc: svc, engineID: cfg.EngineID, pageSize: pageSize}, nil
}

// Search drops results that carry a file format (PDF, DOC, ...) so only
// HTML pages are returned.
func (g *GoogleSearcher) Search(ctx context.Context, query string) ([]string, error) {
	resp, err := g.svc.Cse.List().
		Context(ctx).
		Q(query).
		Cx(g.engineID).
		Num(g.pageSize).
		Do()
	if err != nil {
		return nil, fmt.Errorf("custom search %q: %w", query, err)
	}

	urls := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.FileFormat != "" || item.Link == "" {
			continue
		}
		urls = append(urls, item.Link)
	}
	return urls, nil
}
