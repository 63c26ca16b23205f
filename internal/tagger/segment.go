package tagger

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agenthands/ise/internal/core/model"
)

// tokenPattern keeps words with inner apostrophes, periods, hyphens and
// ampersands together and splits every other non-space rune off on its own.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’.&\-][\p{L}\p{N}]+)*|\S`)

type token struct {
	text       string
	start, end int
}

func tokenize(text string) []token {
	idx := tokenPattern.FindAllStringIndex(text, -1)
	out := make([]token, 0, len(idx))
	for _, loc := range idx {
		out = append(out, token{text: text[loc[0]:loc[1]], start: loc[0], end: loc[1]})
	}
	return out
}

func isPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}

func isTerminator(s string) bool {
	return s == "." || s == "!" || s == "?"
}

var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true, "jr": true,
	"st": true, "mt": true, "gen": true, "gov": true, "sen": true, "rep": true, "rev": true,
	"inc": true, "corp": true, "co": true, "ltd": true, "vs": true, "no": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true,
	"aug": true, "sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
}

// abbreviated reports whether the period at toks[i] closes an abbreviation
// such as "U.S.", "J." or "Dr." rather than a sentence.
func abbreviated(toks []token, i int) bool {
	if i == 0 || toks[i].text != "." || toks[i-1].end != toks[i].start {
		return false
	}
	prev := toks[i-1].text
	if strings.Contains(prev, ".") {
		return true
	}
	if r, size := utf8.DecodeRuneInString(prev); size == len(prev) && unicode.IsUpper(r) {
		return true
	}
	return abbreviations[strings.ToLower(prev)]
}

// opensSentence reports whether a token can start a new sentence.
func opensSentence(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r) || unicode.IsDigit(r) || strings.ContainsRune(`"'“‘([`, r)
}

// Segment splits text into sentences of tokens without entities. A sentence
// ends at . ! or ? when the next token opens a new sentence, unless the
// period belongs to an abbreviation.
func Segment(text string) []model.Sentence {
	toks := tokenize(text)
	var out []model.Sentence
	begin := 0

	flush := func(end int) {
		if end <= begin {
			return
		}
		sent := model.Sentence{
			Text:   text[toks[begin].start:toks[end-1].end],
			Tokens: make([]model.Token, 0, end-begin),
		}
		for _, tk := range toks[begin:end] {
			sent.Tokens = append(sent.Tokens, model.Token{Text: tk.text, Punct: isPunct(tk.text)})
		}
		out = append(out, sent)
		begin = end
	}

	for i, tk := range toks {
		if !isTerminator(tk.text) || abbreviated(toks, i) {
			continue
		}
		if i+1 == len(toks) || opensSentence(toks[i+1].text) {
			flush(i + 1)
		}
	}
	flush(len(toks))
	return out
}

// locate finds the first run of tokens matching words that does not overlap
// a span in taken. Matching falls back to case-insensitive comparison.
func locate(tokens []model.Token, words []string, taken []model.Span) (model.Span, bool) {
	for _, fold := range []bool{false, true} {
		for start := 0; start+len(words) <= len(tokens); start++ {
			span := model.Span{Start: start, End: start + len(words)}
			if overlaps(span, taken) {
				continue
			}
			if matchAt(tokens[start:span.End], words, fold) {
				return span, true
			}
		}
	}
	return model.Span{}, false
}

func matchAt(tokens []model.Token, words []string, fold bool) bool {
	for i, w := range words {
		if fold {
			if !strings.EqualFold(tokens[i].Text, w) {
				return false
			}
		} else if tokens[i].Text != w {
			return false
		}
	}
	return true
}

func overlaps(s model.Span, taken []model.Span) bool {
	for _, t := range taken {
		if s.Start < t.End && t.Start < s.End {
			return true
		}
	}
	return false
}
