package tagger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core/common"
	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/llm"
)

const DefaultPrompt = `Label the named entities in the numbered sentences below.
Use only these labels: PERSON, ORGANIZATION, LOCATION, DATE. Cities, states, provinces and countries are LOCATION.
Copy each entity's text exactly as it appears in its sentence.
Respond with a single JSON object and nothing else:
{"entities": [{"sentence": 1, "text": "Jeff Bezos", "label": "PERSON"}]}
Return {"entities": []} when there are none.

Sentences:
%s`

// LLMTagger segments text locally and asks a generative model to label the
// entities of each batch of sentences.
type LLMTagger struct {
	client llm.LLMClient
	prompt string
	batch  int
	gen    config.GenerationConfig
	logger *slog.Logger
}

// NewLLMTagger labels entities with client, sampling with gen.
func NewLLMTagger(client llm.LLMClient, cfg config.TaggerConfig, gen config.GenerationConfig, prompt string, logger *slog.Logger) *LLMTagger {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	batch := cfg.BatchSentences
	if batch <= 0 {
		batch = 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMTagger{client: client, prompt: prompt, batch: batch, gen: gen, logger: logger}
}

type labeledEntity struct {
	Sentence int    `json:"sentence"`
	Text     string `json:"text"`
	Label    string `json:"label"`
}

type labeledEntities struct {
	Entities []labeledEntity `json:"entities"`
}

// Tag fails only when the model call fails. A batch whose answer cannot be
// parsed keeps its sentences without entities.
func (t *LLMTagger) Tag(ctx context.Context, text string) (model.Document, error) {
	doc := model.Document{Sentences: Segment(text)}

	for start := 0; start < len(doc.Sentences); start += t.batch {
		end := min(start+t.batch, len(doc.Sentences))
		chunk := doc.Sentences[start:end]

		var sb strings.Builder
		for i, s := range chunk {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, s.Text)
		}

		resp, err := t.client.Generate(ctx, fmt.Sprintf(t.prompt, sb.String()), t.gen)
		if err != nil {
			return model.Document{}, fmt.Errorf("failed to label entities: %w", err)
		}

		labeled, err := common.ParseJSON[labeledEntities](resp)
		if err != nil {
			t.logger.Warn("Discarding unparseable entity labels", "error", err, "first_sentence", start+1)
			continue
		}
		attach(chunk, labeled.Entities)
	}
	return doc, nil
}

func attach(chunk []model.Sentence, labeled []labeledEntity) {
	for _, le := range labeled {
		if le.Sentence < 1 || le.Sentence > len(chunk) {
			continue
		}
		sent := &chunk[le.Sentence-1]

		words := make([]string, 0, 4)
		for _, tk := range tokenize(le.Text) {
			words = append(words, tk.text)
		}
		if len(words) == 0 {
			continue
		}

		taken := make([]model.Span, 0, len(sent.Entities))
		for _, e := range sent.Entities {
			taken = append(taken, e.Span)
		}
		span, ok := locate(sent.Tokens, words, taken)
		if !ok {
			continue
		}
		sent.Entities = append(sent.Entities, model.Entity{
			Text: strings.TrimSpace(le.Text),
			Type: MapLabel(le.Label),
			Span: span,
		})
	}
}
