package llm

import (
	"context"

	"github.com/agenthands/ise/internal/config"
)

// LLMClient sends one prompt to a generative model and returns its text.
// Zero-valued fields of gen leave the provider default in place.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, gen config.GenerationConfig) (string, error)
}
