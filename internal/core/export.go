package core

import (
	"context"
	"fmt"

	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/driver"
)

// Exporter writes a run's final answer into the graph as
// (:Entity)-[:RELATION {name, confidence, run_id}]->(:Entity).
type Exporter struct {
	Driver driver.GraphDriver
}

func NewExporter(d driver.GraphDriver) *Exporter {
	return &Exporter{Driver: d}
}

func (e *Exporter) Export(ctx context.Context, result *Result) error {
	runParams := map[string]interface{}{
		"run_id":     result.RunID,
		"relation":   result.Relation,
		"method":     string(result.Method),
		"seed_query": result.SeedQuery,
		"outcome":    string(result.Outcome),
		"iterations": result.Iterations,
		"created_at": result.StartedAt,
	}
	if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveRunQuery, runParams); err != nil {
		return fmt.Errorf("failed to save run %s: %w", result.RunID, err)
	}

	for rank, t := range result.Tuples {
		params := map[string]interface{}{
			"subject":    t.Subject,
			"object":     t.Object,
			"relation":   result.Relation,
			"run_id":     result.RunID,
			"confidence": t.Confidence,
			"scored":     t.Scored,
			"rank":       rank,
		}
		if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveRelationQuery, params); err != nil {
			return fmt.Errorf("failed to save relation %s: %w", t, err)
		}
	}
	return nil
}

// Relations reads back the tuples exported for runID in rank order.
func (e *Exporter) Relations(ctx context.Context, runID string) ([]model.Tuple, error) {
	res, err := e.Driver.ExecuteQuery(ctx, driver.ListRunRelationsQuery, map[string]interface{}{"run_id": runID})
	if err != nil {
		return nil, fmt.Errorf("failed to list relations for run %s: %w", runID, err)
	}

	out := make([]model.Tuple, 0, len(res.Records))
	for _, rec := range res.Records {
		subject, _ := rec.Get("subject")
		object, _ := rec.Get("object")
		confidence, _ := rec.Get("confidence")
		scored, _ := rec.Get("scored")

		t := model.Tuple{}
		t.Subject, _ = subject.(string)
		t.Object, _ = object.(string)
		t.Confidence, _ = confidence.(float64)
		t.Scored, _ = scored.(bool)
		out = append(out, t)
	}
	return out, nil
}
