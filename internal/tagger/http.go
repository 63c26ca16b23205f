package tagger

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

var ErrBadStatus = errors.New("tagger returned an error status")

// HTTPTagger calls an NER service that segments text and labels entities.
type HTTPTagger struct {
	url    string
	client *http.Client
}

func NewHTTPTagger(cfg config.TaggerConfig) *HTTPTagger {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPTagger{url: cfg.URL, client: &http.Client{Timeout: timeout}}
}

type annotateRequest struct {
	Text string `json:"text"`
}

type annotatedEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type annotatedSentence struct {
	Text     string            `json:"text"`
	Tokens   []model.Token     `json:"tokens"`
	Entities []annotatedEntity `json:"entities"`
}

type annotateResponse struct {
	Sentences []annotatedSentence `json:"sentences"`
}

// Tag posts text to the service. Entity start/end are token offsets within
// the sentence, end exclusive.
func (t *HTTPTagger) Tag(ctx context.Context, text string) (model.Document, error) {
	body, err := json.Marshal(annotateRequest{Text: text})
	if err != nil {
		return model.Document{}, fmt.Errorf("marshal text: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return model.Document{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return model.Document{}, fmt.Errorf("tagger request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.Document{}, fmt.Errorf("%w: %d %s", ErrBadStatus, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Document{}, fmt.Errorf("decode annotations: %w", err)
	}

	doc := model.Document{Sentences: make([]model.Sentence, 0, len(out.Sentences))}
	for _, s := range out.Sentences {
		sent := model.Sentence{Text: s.Text, Tokens: s.Tokens}
		for _, e := range s.Entities {
			sent.Entities = append(sent.Entities, model.Entity{
				Text: e.Text,
				Type: MapLabel(e.Label),
				Span: model.Span{Start: e.Start, End: e.End},
			})
		}
		doc.Sentences = append(doc.Sentences, sent)
	}
	return doc, nil
}
