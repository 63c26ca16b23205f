package extraction

import (
	"context"
	"sync"

	"github.com/agenthands/ise/internal/classifier"
	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/relation"
)

// MockLLMClient answers prompts from a queue, falling back to Response.
type MockLLMClient struct {
	mu        sync.Mutex
	Response  string
	Responses []string
	Err       error
	Prompts   []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string, gen config.GenerationConfig) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) > 0 {
		out := m.Responses[0]
		m.Responses = m.Responses[1:]
		return out, nil
	}
	return m.Response, nil
}

// MockTagger returns Doc for every text.
type MockTagger struct {
	Doc model.Document
	Err error
}

func (m *MockTagger) Tag(ctx context.Context, text string) (model.Document, error) {
	if m.Err != nil {
		return model.Document{}, m.Err
	}
	return m.Doc, nil
}

// MockClassifier predicts by (subject, object) text, defaulting to no_relation.
type MockClassifier struct {
	Predictions map[model.Key]classifier.Prediction
	Err         error
	Calls       int
}

func (m *MockClassifier) Predict(ctx context.Context, candidates []model.Candidate) ([]classifier.Prediction, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]classifier.Prediction, 0, len(candidates))
	for _, c := range candidates {
		p, ok := m.Predictions[model.Key{Subject: c.Subject.Text, Object: c.Object.Text}]
		if !ok {
			p = classifier.Prediction{Label: relation.NoRelation, Confidence: 0.99}
		}
		out = append(out, p)
	}
	return out, nil
}
