package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNoJSONObject    = errors.New("no JSON object found in response")
	ErrNotListLiteral  = errors.New("line is not a list of strings")
	ErrEmptyListAnswer = errors.New("response holds no list literal")
)

// ListLiteralPattern matches a bracketed, comma separated list of
// double-quoted strings such as ["a", "b", "c"].
var ListLiteralPattern = regexp.MustCompile(`\["[^"]*"(?:, ?"[^"]*")*\]`)

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start == -1 || end < start {
		return zero, ErrNoJSONObject
	}
	jsonStr := response[start : end+1]

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}
	return result, nil
}

// ParseStringLists parses a response made of one list literal per line.
// Blank lines and markdown fences are skipped; any other line that is not a
// list of strings fails the whole response.
func ParseStringLists(response string) ([][]string, error) {
	var out [][]string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimSuffix(line, ",")

		var items []string
		if !ListLiteralPattern.MatchString(line) {
			return nil, fmt.Errorf("%w: %q", ErrNotListLiteral, line)
		}
		if err := json.Unmarshal([]byte(line), &items); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrNotListLiteral, line, err)
		}
		out = append(out, items)
	}
	if len(out) == 0 {
		return nil, ErrEmptyListAnswer
	}
	return out, nil
}
