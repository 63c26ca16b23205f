package core

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/relation"
)

// Reporter observes a run. It never influences control flow.
type Reporter interface {
	RunStarted(runID string, run config.Run, rel relation.Spec)
	IterationStarted(iteration int, query string)
	URLStarted(index, total int, url string)
	URLFailed(url string, err error)
	DocumentCleaned(url string, chars int)
	DocumentExtracted(url string, tuples int)
	IterationFinished(iteration int, rel relation.Spec, ranked []model.Tuple)
	RunFinished(result *Result, rel relation.Spec)
}

type NopReporter struct{}

func (NopReporter) RunStarted(string, config.Run, relation.Spec) {}
func (NopReporter) IterationStarted(int, string) {}
func (NopReporter) URLStarted(int, int, string) {}
func (NopReporter) URLFailed(string, error) {}
func (NopReporter) DocumentCleaned(string, int) {}
func (NopReporter) DocumentExtracted(string, int) {}
func (NopReporter) IterationFinished(int, relation.Spec, []model.Tuple) {}
func (NopReporter) RunFinished(*Result, relation.Spec) {}

// TextReporter prints the run transcript for a terminal.
type TextReporter struct {
	W io.Writer
}

func (r TextReporter) RunStarted(runID string, run config.Run, rel relation.Spec) {
	fmt.Fprintln(r.W, "____")
	fmt.Fprintln(r.W, "Parameters:")
	fmt.Fprintf(r.W, "Run ID     = %s\n", runID)
	fmt.Fprintf(r.W, "Method     = %s\n", run.Method)
	fmt.Fprintf(r.W, "Relation   = %s\n", rel.Name)
	if run.Method == config.MethodClassifier {
		fmt.Fprintf(r.W, "Threshold  = %g\n", run.Threshold)
	}
	fmt.Fprintf(r.W, "Query      = %s\n", run.Query)
	fmt.Fprintf(r.W, "# of Tuples  = %d\n", run.Target)
}

func (r TextReporter) IterationStarted(iteration int, query string) {
	fmt.Fprintf(r.W, "=========== Iteration: %d - Query: %s ===========\n\n", iteration, query)
}

func (r TextReporter) URLStarted(index, total int, url string) {
	fmt.Fprintf(r.W, "URL ( %d / %d): %s\n", index, total, url)
}

func (r TextReporter) URLFailed(url string, err error) {
	fmt.Fprintf(r.W, "        Unable to process URL, continuing: %v\n", err)
}

func (r TextReporter) DocumentCleaned(url string, chars int) {
	fmt.Fprintf(r.W, "        Webpage length (num characters): %d\n", chars)
}

func (r TextReporter) DocumentExtracted(url string, tuples int) {
	fmt.Fprintf(r.W, "        Relations extracted from this website: %d\n\n", tuples)
}

func (r TextReporter) IterationFinished(iteration int, rel relation.Spec, ranked []model.Tuple) {
	PrintResults(r.W, rel, ranked)
}

func (r TextReporter) RunFinished(result *Result, rel relation.Spec) {
	switch result.Outcome {
	case OutcomeNoNewURLs:
		fmt.Fprintln(r.W, "All the urls have already been seen. Stopping program.")
	case OutcomeNoMoreQueries:
		fmt.Fprintln(r.W, "There are no new queries to be made. Stopping program.")
	}
	PrintResults(r.W, rel, result.Tuples)
	fmt.Fprintf(r.W, "Total # of iterations = %d\n", result.Iterations)
}

// PrintResults writes one line per tuple under a header naming the relation
// and the tuple count.
func PrintResults(w io.Writer, rel relation.Spec, tuples []model.Tuple) {
	fmt.Fprintf(w, "================== ALL RELATIONS for %s ( %d ) =================\n", rel.Name, len(tuples))
	for _, t := range tuples {
		if t.Scored {
			fmt.Fprintf(w, "Confidence: %.8f\t| Subject: %s\t| Object: %s\n", t.Confidence, t.Subject, t.Object)
			continue
		}
		fmt.Fprintf(w, "Subject: %s\t| Object: %s\n", t.Subject, t.Object)
	}
}

// LogReporter reports through a structured logger, for runs without a terminal.
type LogReporter struct {
	Logger *slog.Logger
}

func (r LogReporter) RunStarted(runID string, run config.Run, rel relation.Spec) {
	r.Logger.Info("Run started", "run_id", runID, "method", run.Method, "relation", rel.Name, "query", run.Query, "k", run.Target)
}

func (r LogReporter) IterationStarted(iteration int, query string) {
	r.Logger.Info("Iteration started", "iteration", iteration, "query", query)
}

func (r LogReporter) URLStarted(index, total int, url string) {
	r.Logger.Debug("Fetching URL", "index", index, "total", total, "url", url)
}

func (r LogReporter) URLFailed(url string, err error) {}

func (r LogReporter) DocumentCleaned(url string, chars int) {
	r.Logger.Debug("Cleaned document", "url", url, "chars", chars)
}

func (r LogReporter) DocumentExtracted(url string, tuples int) {
	r.Logger.Debug("Extracted document", "url", url, "tuples", tuples)
}

func (r LogReporter) IterationFinished(iteration int, rel relation.Spec, ranked []model.Tuple) {
	r.Logger.Info("Results so far", "iteration", iteration, "relation", rel.Name, "tuples", len(ranked))
}

func (r LogReporter) RunFinished(result *Result, rel relation.Spec) {
	r.Logger.Info("Run finished",
		"run_id", result.RunID,
		"outcome", result.Outcome,
		"iterations", result.Iterations,
		"tuples", len(result.Tuples),
	)
}
