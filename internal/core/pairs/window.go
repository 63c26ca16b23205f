// Package pairs turns tagged sentences into bounded entity-pair windows for
// relation classification.
package pairs

import (
	"sort"
	"strings"

	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/relation"
)

// DefaultWindow bounds both the token gap between two entities and the
// length of the context window handed to the classifier.
const DefaultWindow = 40

type Builder struct {
	Window int
}

func NewBuilder(window int) *Builder {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Builder{Window: window}
}

// Pairs enumerates every pair of entities in sentence order whose types pass
// keep, whose texts differ, and whose trimmed window fits in b.Window tokens.
func (b *Builder) Pairs(sent model.Sentence, keep func(model.EntityType) bool) []model.EntityPair {
	ents := sortedEntities(sent)
	var out []model.EntityPair

	for i, e1 := range ents {
		if keep != nil && !keep(e1.Type) {
			continue
		}
		for _, e2 := range ents[i+1:] {
			if keep != nil && !keep(e2.Type) {
				continue
			}
			if strings.EqualFold(e1.Text, e2.Text) {
				continue
			}
			gap := e2.Span.Start - e1.Span.End
			if gap < 1 || gap > b.Window {
				continue
			}

			left := leftBound(sent.Tokens, e1.Span.Start)
			right := rightBound(sent.Tokens, e2.Span.End)
			if right-left > b.Window {
				continue
			}

			out = append(out, model.EntityPair{
				Tokens: sent.TokenTexts(left, right),
				First:  localInfo(e1, left),
				Second: localInfo(e2, left),
			})
		}
	}
	return out
}

// Candidates returns the pair orderings whose subject and object types match
// the relation's signature.
func (b *Builder) Candidates(sent model.Sentence, rel relation.Spec) []model.Candidate {
	var out []model.Candidate
	for _, p := range b.Pairs(sent, rel.Wants) {
		for _, c := range p.Orderings() {
			if c.Subject.Type == rel.Subject && c.Object.Type == rel.Object {
				out = append(out, c)
			}
		}
	}
	return out
}

// leftBound is the first token after the nearest punctuation before start.
func leftBound(tokens []model.Token, start int) int {
	for i := start - 1; i >= 0; i-- {
		if tokens[i].Punct {
			return i + 1
		}
	}
	return 0
}

// rightBound is one past the first punctuation token at or after end.
func rightBound(tokens []model.Token, end int) int {
	for i := end; i < len(tokens); i++ {
		if tokens[i].Punct {
			return i + 1
		}
	}
	return len(tokens)
}

func localInfo(e model.Entity, offset int) model.EntityInfo {
	return model.EntityInfo{Text: e.Text, Type: e.Type, Span: e.Span.Shift(offset)}
}

// sortedEntities drops spans that fall outside the sentence and orders the
// rest by position.
func sortedEntities(sent model.Sentence) []model.Entity {
	ents := make([]model.Entity, 0, len(sent.Entities))
	for _, e := range sent.Entities {
		if e.Span.Start < 0 || e.Span.End > len(sent.Tokens) || e.Span.Len() <= 0 {
			continue
		}
		ents = append(ents, e)
	}
	sort.SliceStable(ents, func(i, j int) bool {
		return ents[i].Span.Start < ents[j].Span.Start
	})
	return ents
}
