package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core/common"
	"github.com/agenthands/ise/internal/core/dedupe"
	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/llm"
	"github.com/agenthands/ise/internal/relation"
	"github.com/agenthands/ise/internal/tagger"
)

// ErrNonAnswer marks a generative response that does not carry relations.
var ErrNonAnswer = errors.New("response is not a relation answer")

// unknownMarker is what the prompt asks the model to answer when a sentence
// has no subject or object.
const unknownMarker = "unknown"

// DefaultPrompt takes, in order: relation description, implicit hint,
// answer format, worked example and the sentence.
const DefaultPrompt = `Given a sentence, find every %[1]s relation between the entities it mentions.
If no relation is stated explicitly, also consider implied connections such as
%[2]s, as these count as a relation too.
Respond with one line per relation found, using only this format:
%[3]s

Here is an example of a %[1]s relation:
%[4]s

If the sentence does not mention a subject or an object, return only ["Unknown", "Unknown"].

Sentence:
"%[5]s"

Only extract connections between entities specifically mentioned in the sentence, without making any inferences or assumptions.`

// GenerativeSource prompts a generative model once per sentence that holds
// the entity types the relation needs.
type GenerativeSource struct {
	Tagger     tagger.Tagger
	LLM        llm.LLMClient
	Generation config.GenerationConfig
	Prompt     string
	Logger     *slog.Logger
}

func NewGenerativeSource(tg tagger.Tagger, client llm.LLMClient, gen config.GenerationConfig, prompt string, logger *slog.Logger) *GenerativeSource {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &GenerativeSource{
		Tagger:     tg,
		LLM:        client,
		Generation: gen,
		Prompt:     prompt,
		Logger:     orDefault(logger),
	}
}

func (s *GenerativeSource) Name() string { return "generative" }

func (s *GenerativeSource) Policy() dedupe.Policy { return dedupe.FirstSeen{} }

func (s *GenerativeSource) Extract(ctx context.Context, text string, rel relation.Spec) ([]model.Tuple, error) {
	doc, err := s.Tagger.Tag(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to tag document: %w", err)
	}

	results := dedupe.NewResultSet(s.Policy())
	stats := docStats{sentences: len(doc.Sentences)}

	for i, sent := range doc.Sentences {
		if !Qualifies(sent, rel) {
			continue
		}

		resp, err := s.LLM.Generate(ctx, s.BuildPrompt(rel, sent.Text), s.Generation)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.Logger.Warn("Skipping sentence, generation failed", "sentence", i+1, "error", err)
			continue
		}

		tuples, err := ParseResponse(resp, rel)
		if err != nil {
			s.Logger.Debug("Discarding response", "sentence", i+1, "error", err)
			continue
		}

		stats.annotated++
		stats.relations += len(tuples)
		for _, t := range tuples {
			if !results.Merge(t) {
				s.Logger.Debug("Duplicate relation ignored", "subject", t.Subject, "object", t.Object)
			}
		}
	}

	stats.log(s.Logger, s.Name(), results.Len())
	return results.Tuples(), nil
}

func (s *GenerativeSource) BuildPrompt(rel relation.Spec, sentence string) string {
	return fmt.Sprintf(s.Prompt, rel.Description, rel.ImplicitHint, rel.AnswerFormat, rel.Example, sentence)
}

// Qualifies reports whether sent mentions every entity type rel needs. Any
// location-category entity satisfies all location types at once.
func Qualifies(sent model.Sentence, rel relation.Spec) bool {
	found := make(map[model.EntityType]bool)
	location := false
	for _, e := range sent.Entities {
		if !rel.Wants(e.Type) {
			continue
		}
		if e.Type.IsLocation() {
			location = true
			continue
		}
		found[e.Type] = true
	}

	if len(found) == 0 && !location {
		return false
	}
	for _, t := range rel.EntityTypes {
		if t.IsLocation() {
			if !location {
				return false
			}
			continue
		}
		if !found[t] {
			return false
		}
	}
	return true
}

// ParseResponse accepts a response only if it contains a list literal of
// strings, carries no unknown marker and names rel. Every line must then be a
// list of at least three strings whose first and third become the tuple.
// Repeated keys within the response are dropped.
func ParseResponse(response string, rel relation.Spec) ([]model.Tuple, error) {
	if !common.ListLiteralPattern.MatchString(response) {
		return nil, fmt.Errorf("%w: no list literal", ErrNonAnswer)
	}
	if strings.Contains(strings.ToLower(response), unknownMarker) {
		return nil, fmt.Errorf("%w: unknown marker", ErrNonAnswer)
	}
	if !strings.Contains(response, rel.Name) {
		return nil, fmt.Errorf("%w: missing relation name %s", ErrNonAnswer, rel.Name)
	}

	lists, err := common.ParseStringLists(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNonAnswer, err)
	}

	seen := make(map[model.Key]bool, len(lists))
	out := make([]model.Tuple, 0, len(lists))
	for _, items := range lists {
		if len(items) < 3 {
			return nil, fmt.Errorf("%w: expected a triple, got %d elements", ErrNonAnswer, len(items))
		}
		t := model.NewTuple(strings.TrimSpace(items[0]), strings.TrimSpace(items[2]))
		if seen[t.Key()] {
			continue
		}
		seen[t.Key()] = true
		out = append(out, t)
	}
	return out, nil
}
