package model

import "strings"

// EntityType is the closed vocabulary entity labels are mapped into before
// they reach extraction.
type EntityType string

const (
	Organization    EntityType = "ORGANIZATION"
	Person          EntityType = "PERSON"
	Location        EntityType = "LOCATION"
	City            EntityType = "CITY"
	StateOrProvince EntityType = "STATE_OR_PROVINCE"
	Country         EntityType = "COUNTRY"
	Date            EntityType = "DATE"
	Other           EntityType = "OTHER"
)

// IsLocation reports whether t belongs to the location category.
func (t EntityType) IsLocation() bool {
	switch t {
	case Location, City, StateOrProvince, Country:
		return true
	}
	return false
}

// ParseEntityType maps a vocabulary label to its EntityType, falling back to Other.
func ParseEntityType(label string) EntityType {
	switch t := EntityType(strings.ToUpper(strings.TrimSpace(label))); t {
	case Organization, Person, Location, City, StateOrProvince, Country, Date:
		return t
	}
	return Other
}

// Span is a half-open token interval [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Span) Len() int { return s.End - s.Start }

// Shift re-expresses the span relative to offset.
func (s Span) Shift(offset int) Span {
	return Span{Start: s.Start - offset, End: s.End - offset}
}

type Token struct {
	Text  string `json:"text"`
	Punct bool   `json:"is_punct"`
}

// Entity is a tagged mention. Span indexes the tokens of its sentence.
type Entity struct {
	Text string     `json:"text"`
	Type EntityType `json:"type"`
	Span Span       `json:"span"`
}

type Sentence struct {
	Text     string   `json:"text"`
	Tokens   []Token  `json:"tokens"`
	Entities []Entity `json:"entities"`
}

// TokenTexts returns the token strings in [from, to).
func (s Sentence) TokenTexts(from, to int) []string {
	out := make([]string, 0, to-from)
	for _, tok := range s.Tokens[from:to] {
		out = append(out, tok.Text)
	}
	return out
}

// Document is the tagger's sentence-segmented, entity-annotated view of a text.
type Document struct {
	Sentences []Sentence `json:"sentences"`
}
