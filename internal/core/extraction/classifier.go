package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agenthands/ise/internal/classifier"
	"github.com/agenthands/ise/internal/core/dedupe"
	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/core/pairs"
	"github.com/agenthands/ise/internal/relation"
	"github.com/agenthands/ise/internal/tagger"
)

// ClassifierSource scores every typed entity-pair window of a sentence and
// keeps predictions of the target relation at or above Threshold.
type ClassifierSource struct {
	Tagger     tagger.Tagger
	Classifier classifier.Classifier
	Pairs      *pairs.Builder
	Threshold  float64
	Logger     *slog.Logger
}

func NewClassifierSource(tg tagger.Tagger, clf classifier.Classifier, builder *pairs.Builder, threshold float64, logger *slog.Logger) *ClassifierSource {
	if builder == nil {
		builder = pairs.NewBuilder(pairs.DefaultWindow)
	}
	return &ClassifierSource{
		Tagger:     tg,
		Classifier: clf,
		Pairs:      builder,
		Threshold:  threshold,
		Logger:     orDefault(logger),
	}
}

func (s *ClassifierSource) Name() string { return "classifier" }

func (s *ClassifierSource) Policy() dedupe.Policy { return dedupe.ByConfidence{} }

func (s *ClassifierSource) Extract(ctx context.Context, text string, rel relation.Spec) ([]model.Tuple, error) {
	doc, err := s.Tagger.Tag(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to tag document: %w", err)
	}

	results := dedupe.NewResultSet(s.Policy())
	stats := docStats{sentences: len(doc.Sentences)}

	for i, sent := range doc.Sentences {
		candidates := s.Pairs.Candidates(sent, rel)
		if len(candidates) == 0 {
			continue
		}

		preds, err := s.Classifier.Predict(ctx, candidates)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.Logger.Warn("Skipping sentence, classification failed", "sentence", i+1, "error", err)
			continue
		}
		if len(preds) != len(candidates) {
			s.Logger.Warn("Skipping sentence, classification failed", "sentence", i+1,
				"error", fmt.Errorf("%w: got %d for %d candidates", classifier.ErrPredictionCount, len(preds), len(candidates)))
			continue
		}

		annotated := false
		for j, p := range preds {
			if p.Label == relation.NoRelation || !rel.Accepts(p.Label) {
				continue
			}
			annotated = true
			stats.relations++

			c := candidates[j]
			if p.Confidence < s.Threshold {
				s.Logger.Debug("Confidence below threshold",
					"subject", c.Subject.Text, "object", c.Object.Text, "confidence", p.Confidence)
				continue
			}
			if !results.Merge(model.NewScoredTuple(c.Subject.Text, c.Object.Text, p.Confidence)) {
				s.Logger.Debug("Duplicate with lower confidence",
					"subject", c.Subject.Text, "object", c.Object.Text, "confidence", p.Confidence)
			}
		}
		if annotated {
			stats.annotated++
		}
	}

	stats.log(s.Logger, s.Name(), results.Len())
	return results.Tuples(), nil
}
