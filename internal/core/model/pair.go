package model

// EntityInfo describes an entity inside a context window. Span is relative
// to the window's first token.
type EntityInfo struct {
	Text string     `json:"text"`
	Type EntityType `json:"type"`
	Span Span       `json:"span"`
}

// EntityPair is a bounded token window holding two entities in sentence order.
type EntityPair struct {
	Tokens []string   `json:"tokens"`
	First  EntityInfo `json:"first"`
	Second EntityInfo `json:"second"`
}

// Candidate is one ordering of an EntityPair, the unit a relation classifier scores.
type Candidate struct {
	Tokens  []string   `json:"tokens"`
	Subject EntityInfo `json:"subj"`
	Object  EntityInfo `json:"obj"`
}

// Orderings returns the subject-first and object-first readings of the pair.
func (p EntityPair) Orderings() []Candidate {
	return []Candidate{
		{Tokens: p.Tokens, Subject: p.First, Object: p.Second},
		{Tokens: p.Tokens, Subject: p.Second, Object: p.First},
	}
}
