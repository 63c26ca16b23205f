package config

import (
	"fmt"
	"strings"

	"github.com/agenthands/ise/internal/relation"
)

// Method selects how relations are extracted from a document.
type Method string

const (
	MethodClassifier Method = "classifier"
	MethodGenerative Method = "generative"
)

// ParseMethod accepts the canonical names and the model-named aliases
// "spanbert" and "gemini", with or without a leading dash.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimLeft(strings.TrimSpace(s), "-")) {
	case "classifier", "spanbert":
		return MethodClassifier, nil
	case "generative", "gemini":
		return MethodGenerative, nil
	}
	return "", fmt.Errorf("%w: extraction method must be classifier (spanbert) or generative (gemini), got %q", ErrInvalidConfig, s)
}

// Run holds the parameters of one discovery run.
type Run struct {
	Method    Method  `json:"method"`
	Relation  int     `json:"relation"`
	Threshold float64 `json:"threshold"`
	Query     string  `json:"query"`
	Target    int     `json:"k"`
}

// Validate checks every run parameter. The threshold is only checked for
// the classifier method.
func (r Run) Validate() error {
	method, err := ParseMethod(string(r.Method))
	if err != nil {
		return err
	}
	if _, err := relation.Lookup(r.Relation); err != nil {
		return fmt.Errorf("%w: relation type must be an integer between 1 and 4: %v", ErrInvalidConfig, err)
	}
	if method == MethodClassifier && !(r.Threshold > 0 && r.Threshold <= 1) {
		return fmt.Errorf("%w: confidence threshold must be greater than 0 and at most 1, got %v", ErrInvalidConfig, r.Threshold)
	}
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("%w: seed query cannot be empty", ErrInvalidConfig)
	}
	if r.Target <= 0 {
		return fmt.Errorf("%w: number of tuples must be greater than 0, got %d", ErrInvalidConfig, r.Target)
	}
	return nil
}

func (r Run) RelationSpec() (relation.Spec, error) {
	return relation.Lookup(r.Relation)
}
