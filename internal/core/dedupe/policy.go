package dedupe

import (
	"sort"

	"github.com/agenthands/ise/internal/core/model"
)

// Policy decides how same-key tuples are merged, how a result set is
// ordered, and which tuples make up the final answer.
type Policy interface {
	Name() string
	// Replace reports whether incoming supersedes existing for the same key.
	Replace(existing, incoming model.Tuple) bool
	// Rank orders tuples given in discovery order.
	Rank(tuples []model.Tuple) []model.Tuple
	// Select picks the next query seed among tuples whose key is unused.
	Select(ranked []model.Tuple, used *UsedQueries) (model.Tuple, bool)
	// Final truncates the ranked tuples to the answer for a target of k.
	Final(ranked []model.Tuple, k int) []model.Tuple
}

// ByConfidence is the policy for classifier-scored tuples.
type ByConfidence struct{}

func (ByConfidence) Name() string { return "confidence" }

func (ByConfidence) Replace(existing, incoming model.Tuple) bool {
	return incoming.Confidence > existing.Confidence
}

func (ByConfidence) Rank(tuples []model.Tuple) []model.Tuple {
	out := append([]model.Tuple(nil), tuples...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func (ByConfidence) Select(ranked []model.Tuple, used *UsedQueries) (model.Tuple, bool) {
	var (
		best  model.Tuple
		found bool
	)
	for _, t := range ranked {
		if used.Contains(t.Key()) {
			continue
		}
		if !found || t.Confidence > best.Confidence {
			best, found = t, true
		}
	}
	return best, found
}

func (ByConfidence) Final(ranked []model.Tuple, k int) []model.Tuple {
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return append([]model.Tuple(nil), ranked...)
}

// FirstSeen is the policy for unscored generative tuples: the first record
// of a key wins and insertion order is the only order.
type FirstSeen struct{}

func (FirstSeen) Name() string { return "first-seen" }

func (FirstSeen) Replace(model.Tuple, model.Tuple) bool { return false }

func (FirstSeen) Rank(tuples []model.Tuple) []model.Tuple {
	return append([]model.Tuple(nil), tuples...)
}

func (FirstSeen) Select(ranked []model.Tuple, used *UsedQueries) (model.Tuple, bool) {
	for _, t := range ranked {
		if !used.Contains(t.Key()) {
			return t, true
		}
	}
	return model.Tuple{}, false
}

// Final ignores k: unscored tuples carry no signal to truncate by.
func (FirstSeen) Final(ranked []model.Tuple, _ int) []model.Tuple {
	return append([]model.Tuple(nil), ranked...)
}
