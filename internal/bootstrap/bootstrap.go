// Package bootstrap builds the collaborators of a discovery run from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/agenthands/ise/internal/classifier"
	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core"
	"github.com/agenthands/ise/internal/core/extraction"
	"github.com/agenthands/ise/internal/core/pairs"
	"github.com/agenthands/ise/internal/fetch"
	"github.com/agenthands/ise/internal/llm"
	"github.com/agenthands/ise/internal/search"
	"github.com/agenthands/ise/internal/tagger"
)

// Components are shared by every run built from the same configuration.
// The page cache, when enabled, is the only state that outlives a run.
type Components struct {
	Config     *config.Config
	Searcher   search.Searcher
	Fetcher    fetch.Fetcher
	Cleaner    fetch.Cleaner
	Classifier classifier.Classifier
	Logger     *slog.Logger

	mu     sync.Mutex
	llm    llm.LLMClient
	tagger tagger.Tagger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	if logger == nil {
		logger = slog.Default()
	}

	searcher, err := search.NewGoogleSearcher(ctx, cfg.Search)
	if err != nil {
		return nil, err
	}

	var fetcher fetch.Fetcher = fetch.NewHTTPFetcher(cfg.Fetch)
	if cfg.Fetch.CacheSize > 0 {
		fetcher, err = fetch.NewCachedFetcher(fetcher, cfg.Fetch.CacheSize)
		if err != nil {
			return nil, err
		}
	}

	return &Components{
		Config:     cfg,
		Searcher:   searcher,
		Fetcher:    fetcher,
		Cleaner:    fetch.TextCleaner{MaxChars: cfg.Fetch.MaxChars},
		Classifier: classifier.NewHTTPClassifier(cfg.Classifier),
		Logger:     logger,
	}, nil
}

// LLM returns the generative client, creating it on first use.
func (c *Components) LLM(ctx context.Context) (llm.LLMClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.llmLocked(ctx)
}

func (c *Components) llmLocked(ctx context.Context) (llm.LLMClient, error) {
	if c.llm != nil {
		return c.llm, nil
	}
	client, err := llm.NewClient(ctx, c.Config.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	c.llm = client
	return client, nil
}

// Tagger returns the configured entity tagger, creating it on first use.
func (c *Components) Tagger(ctx context.Context) (tagger.Tagger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tagger != nil {
		return c.tagger, nil
	}

	switch strings.ToLower(c.Config.Tagger.Provider) {
	case "", "http":
		c.tagger = tagger.NewHTTPTagger(c.Config.Tagger)
	case "llm":
		client, err := c.llmLocked(ctx)
		if err != nil {
			return nil, err
		}
		c.tagger = tagger.NewLLMTagger(client, c.Config.Tagger, c.Config.Generation, c.Config.Prompts.Tagger, c.Logger)
	default:
		return nil, fmt.Errorf("%w: unsupported tagger provider %q", config.ErrInvalidConfig, c.Config.Tagger.Provider)
	}
	return c.tagger, nil
}

// Source builds the relation source for run's method.
func (c *Components) Source(ctx context.Context, run config.Run) (extraction.Source, error) {
	method, err := config.ParseMethod(string(run.Method))
	if err != nil {
		return nil, err
	}
	tg, err := c.Tagger(ctx)
	if err != nil {
		return nil, err
	}

	switch method {
	case config.MethodClassifier:
		builder := pairs.NewBuilder(c.Config.Classifier.WindowSize)
		return extraction.NewClassifierSource(tg, c.Classifier, builder, run.Threshold, c.Logger), nil
	default:
		client, err := c.LLM(ctx)
		if err != nil {
			return nil, err
		}
		return extraction.NewGenerativeSource(tg, client, c.Config.Generation, c.Config.Prompts.Generative, c.Logger), nil
	}
}

// Frontier validates run and returns a frontier ready to execute it.
func (c *Components) Frontier(ctx context.Context, run config.Run, rep core.Reporter) (*core.Frontier, error) {
	if err := run.Validate(); err != nil {
		return nil, err
	}
	src, err := c.Source(ctx, run)
	if err != nil {
		return nil, err
	}
	return core.NewFrontier(c.Searcher, c.Fetcher, c.Cleaner, src, rep, c.Logger), nil
}

func (c *Components) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if closer, ok := c.llm.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
