// Package dedupe merges extracted tuples into a run's result set, ranks them
// and picks the next query seed.
package dedupe

import (
	"github.com/agenthands/ise/internal/core/model"
)

// ResultSet maps each (subject, object) key to the best tuple seen so far.
// Keys are never removed and keep their discovery order.
type ResultSet struct {
	policy Policy
	order  []model.Key
	items  map[model.Key]model.Tuple
}

func NewResultSet(policy Policy) *ResultSet {
	if policy == nil {
		policy = FirstSeen{}
	}
	return &ResultSet{
		policy: policy,
		items:  make(map[model.Key]model.Tuple),
	}
}

func (r *ResultSet) Policy() Policy { return r.policy }

func (r *ResultSet) Len() int { return len(r.order) }

// Merge records t and reports whether it was stored, either as a new key or
// as a replacement the policy preferred.
func (r *ResultSet) Merge(t model.Tuple) bool {
	key := t.Key()
	existing, ok := r.items[key]
	if !ok {
		r.items[key] = t
		r.order = append(r.order, key)
		return true
	}
	if r.policy.Replace(existing, t) {
		r.items[key] = t
		return true
	}
	return false
}

// MergeAll merges tuples in order and returns how many new keys appeared.
func (r *ResultSet) MergeAll(tuples []model.Tuple) int {
	before := r.Len()
	for _, t := range tuples {
		r.Merge(t)
	}
	return r.Len() - before
}

func (r *ResultSet) Get(key model.Key) (model.Tuple, bool) {
	t, ok := r.items[key]
	return t, ok
}

// Tuples returns the stored tuples in key discovery order.
func (r *ResultSet) Tuples() []model.Tuple {
	out := make([]model.Tuple, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.items[k])
	}
	return out
}

func (r *ResultSet) Ranked() []model.Tuple {
	return r.policy.Rank(r.Tuples())
}

// Final returns the answer for a target of k tuples.
func (r *ResultSet) Final(k int) []model.Tuple {
	return r.policy.Final(r.Ranked(), k)
}

// NextQuery selects an unused key, marks it used and returns its query text.
// It returns false when every key has already been used.
func (r *ResultSet) NextQuery(used *UsedQueries) (string, bool) {
	t, ok := r.policy.Select(r.Ranked(), used)
	if !ok {
		return "", false
	}
	used.Mark(t.Key())
	return t.Key().Query(), true
}

// UsedQueries is the append-only set of keys already turned into queries.
type UsedQueries struct {
	keys  map[model.Key]struct{}
	order []model.Key
}

func NewUsedQueries() *UsedQueries {
	return &UsedQueries{keys: make(map[model.Key]struct{})}
}

func (u *UsedQueries) Contains(k model.Key) bool {
	_, ok := u.keys[k]
	return ok
}

func (u *UsedQueries) Mark(k model.Key) {
	if u.Contains(k) {
		return
	}
	u.keys[k] = struct{}{}
	u.order = append(u.order, k)
}

func (u *UsedQueries) Len() int { return len(u.order) }

// Keys returns the used keys in the order they were marked.
func (u *UsedQueries) Keys() []model.Key {
	return append([]model.Key(nil), u.order...)
}
