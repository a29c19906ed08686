package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/claimcheck/internal/model"
)

const (
	contextBefore = 30 // Characters kept before a citation phrase
	contextAfter  = 70 // Characters kept after the start of a citation phrase
)

var citationPhrases = []string{
	"according to", "cited by", "reported by", "study by", "research by",
	"experts", "scientists",
}

// SourceExtractor finds citation-like phrases in free text
type SourceExtractor struct {
	pattern *regexp.Regexp
}

// NewSourceExtractor creates a new source extractor
func NewSourceExtractor() *SourceExtractor {
	return &SourceExtractor{
		pattern: phraseRegexp(citationPhrases),
	}
}

// Extract scans left to right for citation phrases and returns one source per
// non-overlapping match, in order of appearance. Context windows are measured
// in characters and clamped to the text bounds.
func (e *SourceExtractor) Extract(text string) []model.DetectedSource {
	matches := e.pattern.FindAllStringIndex(text, -1)
	sources := make([]model.DetectedSource, 0, len(matches))
	if len(matches) == 0 {
		return sources
	}

	runes := []rune(text)
	for _, m := range matches {
		start := utf8.RuneCountInString(text[:m[0]])

		from := max(0, start-contextBefore)
		to := min(len(runes), start+contextAfter)

		sources = append(sources, model.DetectedSource{
			Type:    model.SourceTypeCitation,
			Context: strings.TrimSpace(string(runes[from:to])),
		})
	}

	return sources
}
