//go:build integration

package integration

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ise/internal/bootstrap"
	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core"
)

// TestGenerativeRun needs live search credentials and a generative model.
// Entities are labelled by the same model, so no NER service is required.
func TestGenerativeRun(t *testing.T) {
	_ = godotenv.Load("../../.env")

	if os.Getenv("GOOGLE_API_KEY") == "" || os.Getenv("GOOGLE_ENGINE_ID") == "" {
		t.Skip("Skipping integration test: GOOGLE_API_KEY or GOOGLE_ENGINE_ID not set")
	}
	if os.Getenv("LLM_PROVIDER") == "" {
		t.Skip("Skipping integration test: LLM_PROVIDER not set")
	}

	cfg := config.Default()
	cfg.ApplyEnv()
	cfg.Tagger.Provider = "llm"

	ctx := context.Background()
	components, err := bootstrap.New(ctx, cfg, nil)
	require.NoError(t, err)
	defer components.Close()

	run := config.Run{
		Method:   config.MethodGenerative,
		Relation: 4,
		Query:    "google sundar pichai",
		Target:   3,
	}

	var out bytes.Buffer
	frontier, err := components.Frontier(ctx, run, core.TextReporter{W: &out})
	require.NoError(t, err)

	result, err := frontier.Run(ctx, run)
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Contains(t, out.String(), "Total # of iterations")
	t.Log(out.String())
}
