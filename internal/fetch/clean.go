package fetch

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxChars bounds the text handed to extraction.
const DefaultMaxChars = 10000

var whitespace = regexp.MustCompile(`\s+`)

type Cleaner interface {
	Clean(rawHTML string) string
}

// TextCleaner keeps the visible text of a page, normalizes it, collapses
// whitespace and truncates it to MaxChars characters.
type TextCleaner struct {
	MaxChars int
}

func (c TextCleaner) Clean(rawHTML string) string {
	max := c.MaxChars
	if max <= 0 {
		max = DefaultMaxChars
	}
	text := norm.NFKC.String(VisibleText(rawHTML))
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	return truncateRunes(text, max)
}

// VisibleText returns the text nodes of an HTML document, skipping script,
// style and similar non-rendered elements.
func VisibleText(rawHTML string) string {
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	var sb strings.Builder
	hidden := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if isHidden(string(name)) {
				hidden++
			}
			sb.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if isHidden(string(name)) && hidden > 0 {
				hidden--
			}
			sb.WriteByte(' ')
		case html.SelfClosingTagToken:
			sb.WriteByte(' ')
		case html.TextToken:
			if hidden == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

func isHidden(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
