// Package core drives iterative relation discovery: search, fetch, extract,
// aggregate and re-query until the target is met or the frontier runs dry.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core/extraction"
	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/fetch"
	"github.com/agenthands/ise/internal/relation"
	"github.com/agenthands/ise/internal/search"
)

// Outcome is how a run halted. Every outcome is a successful termination.
type Outcome string

const (
	OutcomeTargetReached Outcome = "target_reached"
	OutcomeNoNewURLs     Outcome = "no_new_urls"
	OutcomeNoMoreQueries Outcome = "no_more_queries"
)

type Result struct {
	RunID      string        `json:"run_id"`
	Method     config.Method `json:"method"`
	Relation   string        `json:"relation"`
	SeedQuery  string        `json:"seed_query"`
	Outcome    Outcome       `json:"outcome"`
	Iterations int           `json:"iterations"`
	// Policy names the merge and ranking policy of the run's source.
	Policy string `json:"policy"`
	// Queries lists every query issued, seed first.
	Queries []string `json:"queries"`
	// Tuples is the final answer: the top k for scored runs, everything otherwise.
	Tuples     []model.Tuple `json:"tuples"`
	URLsSeen   int           `json:"urls_seen"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

type Frontier struct {
	Searcher search.Searcher
	Fetcher  fetch.Fetcher
	Cleaner  fetch.Cleaner
	Source   extraction.Source
	Reporter Reporter
	Logger   *slog.Logger
}

func NewFrontier(s search.Searcher, f fetch.Fetcher, c fetch.Cleaner, src extraction.Source, rep Reporter, logger *slog.Logger) *Frontier {
	if c == nil {
		c = fetch.TextCleaner{MaxChars: fetch.DefaultMaxChars}
	}
	if rep == nil {
		rep = NopReporter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Frontier{Searcher: s, Fetcher: f, Cleaner: c, Source: src, Reporter: rep, Logger: logger}
}

// Run executes one discovery run. Errors are returned for invalid parameters,
// search failures and cancellation; every halt is a nil error.
func (f *Frontier) Run(ctx context.Context, run config.Run) (*Result, error) {
	if err := run.Validate(); err != nil {
		return nil, err
	}
	rel, err := run.RelationSpec()
	if err != nil {
		return nil, err
	}
	run.Method, _ = config.ParseMethod(string(run.Method))

	state := NewIterationState(run.Query, f.Source.Policy())
	result := &Result{
		RunID:     uuid.NewString(),
		Method:    run.Method,
		Relation:  rel.Name,
		SeedQuery: run.Query,
		Policy:    state.Results.Policy().Name(),
		StartedAt: time.Now().UTC(),
	}
	logger := f.Logger.With("run_id", result.RunID, "relation", rel.Name, "source", f.Source.Name())
	f.Reporter.RunStarted(result.RunID, run, rel)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.Reporter.IterationStarted(state.Iteration, state.Query)

		urls, err := f.Searcher.Search(ctx, state.Query)
		if err != nil {
			return nil, fmt.Errorf("search failed at iteration %d: %w", state.Iteration, err)
		}

		fresh := state.Unseen(urls)
		if len(fresh) == 0 {
			logger.Info("Search returned no unseen URLs", "iteration", state.Iteration, "query", state.Query)
			return f.halt(result, state, run, rel, logger, OutcomeNoNewURLs), nil
		}

		batch, err := f.fetchExtract(ctx, state, fresh, rel, logger)
		if err != nil {
			return nil, err
		}
		added := state.Results.MergeAll(batch)
		logger.Info("Iteration finished",
			"iteration", state.Iteration,
			"extracted", len(batch),
			"new_tuples", added,
			"total_tuples", state.Results.Len(),
		)

		if state.Results.Len() >= run.Target {
			return f.halt(result, state, run, rel, logger, OutcomeTargetReached), nil
		}

		next, ok := state.Results.NextQuery(state.Used)
		if !ok {
			return f.halt(result, state, run, rel, logger, OutcomeNoMoreQueries), nil
		}
		f.Reporter.IterationFinished(state.Iteration, rel, state.Results.Ranked())
		state.Advance(next)
	}
}

// fetchExtract visits each URL once, in order. Fetch and extraction failures
// skip the URL; only cancellation stops the batch.
func (f *Frontier) fetchExtract(ctx context.Context, state *IterationState, urls []string, rel relation.Spec, logger *slog.Logger) ([]model.Tuple, error) {
	var batch []model.Tuple
	for i, url := range urls {
		state.MarkSeen(url)
		f.Reporter.URLStarted(i+1, len(urls), url)

		raw, err := f.Fetcher.Fetch(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Unable to fetch URL", "url", url, "error", err)
			f.Reporter.URLFailed(url, err)
			continue
		}

		text := f.Cleaner.Clean(raw)
		f.Reporter.DocumentCleaned(url, len([]rune(text)))

		tuples, err := f.Source.Extract(ctx, text, rel)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Unable to extract relations", "url", url, "error", err)
			f.Reporter.URLFailed(url, err)
			continue
		}
		f.Reporter.DocumentExtracted(url, len(tuples))
		batch = append(batch, tuples...)
	}
	return batch, nil
}

func (f *Frontier) halt(result *Result, state *IterationState, run config.Run, rel relation.Spec, logger *slog.Logger, outcome Outcome) *Result {
	result.Outcome = outcome
	result.Queries = []string{run.Query}
	for _, k := range state.Used.Keys() {
		result.Queries = append(result.Queries, k.Query())
	}
	result.Iterations = state.Iteration + 1
	result.Tuples = state.Results.Final(run.Target)
	result.URLsSeen = len(state.SeenURLs)
	result.FinishedAt = time.Now().UTC()

	logger.Info("Run finished",
		"outcome", outcome,
		"policy", result.Policy,
		"iterations", result.Iterations,
		"queries", result.Queries,
		"tuples", len(result.Tuples),
	)

	f.Reporter.RunFinished(result, rel)
	return result
}
