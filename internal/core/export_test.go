package core

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/driver"
	"github.com/agenthands/ise/internal/relation"
)

func mustWorkFor(t *testing.T) relation.Spec {
	t.Helper()
	rel, err := relation.Lookup(2)
	require.NoError(t, err)
	return rel
}

func TestExporter_Export(t *testing.T) {
	d := &MockDriver{}
	res := &Result{
		RunID:      "run-1",
		Method:     config.MethodClassifier,
		Relation:   "Work_For",
		SeedQuery:  "bill gates microsoft",
		Outcome:    OutcomeTargetReached,
		Iterations: 2,
		Tuples: []model.Tuple{
			model.NewScoredTuple("Bill Gates", "Microsoft", 0.99),
			model.NewScoredTuple("Satya Nadella", "Microsoft", 0.95),
		},
	}

	require.NoError(t, NewExporter(d).Export(context.Background(), res))
	require.Len(t, d.Executed, 3)

	assert.Equal(t, driver.SaveRunQuery, d.Executed[0].Query)
	assert.Equal(t, "run-1", d.Executed[0].Params["run_id"])
	assert.Equal(t, "classifier", d.Executed[0].Params["method"])

	second := d.Executed[2]
	assert.Equal(t, driver.SaveRelationQuery, second.Query)
	assert.Equal(t, "Satya Nadella", second.Params["subject"])
	assert.Equal(t, "Work_For", second.Params["relation"])
	assert.Equal(t, 0.95, second.Params["confidence"])
	assert.Equal(t, 1, second.Params["rank"])
}

func TestExporter_ExportError(t *testing.T) {
	d := &MockDriver{Err: errors.New("connection refused")}
	err := NewExporter(d).Export(context.Background(), &Result{RunID: "run-1"})
	assert.Error(t, err)
}

func TestExporter_Relations(t *testing.T) {
	d := &MockDriver{MockResult: neo4j.EagerResult{
		Keys: []string{"subject", "object", "confidence", "scored"},
		Records: []*neo4j.Record{{
			Keys:   []string{"subject", "object", "confidence", "scored"},
			Values: []any{"Bill Gates", "Microsoft", 0.99, true},
		}},
	}}

	tuples, err := NewExporter(d).Relations(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, []model.Tuple{model.NewScoredTuple("Bill Gates", "Microsoft", 0.99)}, tuples)
	assert.Equal(t, "run-1", d.Executed[0].Params["run_id"])
}
