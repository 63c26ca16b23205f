// Package extraction turns cleaned document text into relation tuples, either
// by scoring entity pairs with a classifier or by prompting a generative model.
package extraction

import (
	"context"
	"log/slog"

	"github.com/agenthands/ise/internal/core/dedupe"
	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/relation"
)

// Source extracts the tuples of one relation from one document. An error
// means the whole document was unusable; per-sentence failures are logged
// and skipped.
type Source interface {
	Name() string
	// Policy is the dedupe policy the run's result set must use.
	Policy() dedupe.Policy
	Extract(ctx context.Context, text string, rel relation.Spec) ([]model.Tuple, error)
}

// docStats are the per-document counters reported after extraction.
type docStats struct {
	sentences int
	annotated int
	relations int
}

func (s docStats) log(logger *slog.Logger, source string, kept int) {
	logger.Info("Extracted relations from document",
		"source", source,
		"sentences", s.sentences,
		"annotated_sentences", s.annotated,
		"relations_found", s.relations,
		"relations_kept", kept,
	)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
