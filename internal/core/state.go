package core

import (
	"github.com/agenthands/ise/internal/core/dedupe"
)

// IterationState is everything a run carries from one iteration to the next.
// Only the frontier mutates it, and only between phases.
type IterationState struct {
	Iteration int
	Query     string
	Results   *dedupe.ResultSet
	SeenURLs  map[string]struct{}
	Used      *dedupe.UsedQueries
}

func NewIterationState(seed string, policy dedupe.Policy) *IterationState {
	return &IterationState{
		Query:    seed,
		Results:  dedupe.NewResultSet(policy),
		SeenURLs: make(map[string]struct{}),
		Used:     dedupe.NewUsedQueries(),
	}
}

// Unseen filters urls down to those never visited, preserving order and
// dropping repeats within urls itself.
func (s *IterationState) Unseen(urls []string) []string {
	out := make([]string, 0, len(urls))
	batch := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if _, ok := s.SeenURLs[u]; ok {
			continue
		}
		if _, ok := batch[u]; ok {
			continue
		}
		batch[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

func (s *IterationState) MarkSeen(url string) {
	s.SeenURLs[url] = struct{}{}
}

// Advance moves to the next iteration with query.
func (s *IterationState) Advance(query string) {
	s.Iteration++
	s.Query = query
}
