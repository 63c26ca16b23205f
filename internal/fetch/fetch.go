// Package fetch downloads web pages and reduces them to bounded plain text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agenthands/ise/internal/config"
)

var ErrBadStatus = errors.New("unexpected http status")

// maxBodyBytes caps how much of a page is read before cleaning.
const maxBodyBytes = 5 << 20

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(cfg config.FetchConfig) *HTTPFetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}
}

// Fetch returns the raw HTML of url. Any status other than 200 is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %d", ErrBadStatus, url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(body), nil
}

// CachedFetcher keeps recently fetched pages so concurrent runs sharing a
// process do not download the same page twice. Failures are not cached.
type CachedFetcher struct {
	next  Fetcher
	cache *lru.Cache[string, string]
}

func NewCachedFetcher(next Fetcher, size int) (*CachedFetcher, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	return &CachedFetcher{next: next, cache: cache}, nil
}

func (c *CachedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if page, ok := c.cache.Get(url); ok {
		return page, nil
	}
	page, err := c.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	c.cache.Add(url, page)
	return page, nil
}

func (c *CachedFetcher) Len() int { return c.cache.Len() }
