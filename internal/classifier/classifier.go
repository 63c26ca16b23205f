// Package classifier scores entity-pair candidates with a span-pair relation
// model served over HTTP.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core/model"
)

var (
	ErrPredictionCount = errors.New("classifier returned a different number of predictions than examples")
	ErrBadStatus       = errors.New("classifier returned an error status")
)

// Prediction is the label and confidence for one candidate.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type Classifier interface {
	// Predict returns one prediction per candidate, in order.
	Predict(ctx context.Context, candidates []model.Candidate) ([]Prediction, error)
}

// HTTPClassifier posts candidates to a prediction endpoint.
type HTTPClassifier struct {
	url    string
	client *http.Client
}

func NewHTTPClassifier(cfg config.ClassifierConfig) *HTTPClassifier {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPClassifier{url: cfg.URL, client: &http.Client{Timeout: timeout}}
}

// wireEntity uses an inclusive end index, the convention span-pair models expect.
type wireEntity struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type wireExample struct {
	Tokens  []string   `json:"tokens"`
	Subject wireEntity `json:"subj"`
	Object  wireEntity `json:"obj"`
}

type predictRequest struct {
	Examples []wireExample `json:"examples"`
}

type predictResponse struct {
	Predictions []Prediction `json:"predictions"`
}

func toWire(e model.EntityInfo) wireEntity {
	return wireEntity{Text: e.Text, Type: string(e.Type), Start: e.Span.Start, End: e.Span.End - 1}
}

func (c *HTTPClassifier) Predict(ctx context.Context, candidates []model.Candidate) ([]Prediction, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	req := predictRequest{Examples: make([]wireExample, 0, len(candidates))}
	for _, cand := range candidates {
		req.Examples = append(req.Examples, wireExample{
			Tokens:  cand.Tokens,
			Subject: toWire(cand.Subject),
			Object:  toWire(cand.Object),
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal examples: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %d %s", ErrBadStatus, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}
	if len(out.Predictions) != len(candidates) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPredictionCount, len(out.Predictions), len(candidates))
	}
	return out.Predictions, nil
}
