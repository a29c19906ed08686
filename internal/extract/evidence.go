package extract

import (
	"regexp"

	"github.com/ppiankov/claimcheck/internal/model"
)

var (
	empiricalKeywords = []string{"evidence", "study", "research", "data"}
	wellbeingKeywords = []string{"benefit", "improve", "help", "support"}
	harmonyKeywords   = []string{"balance", "harmony", "integrate"}
)

// EvidenceDetector derives evidence flags from keyword matches
type EvidenceDetector struct {
	empirical *regexp.Regexp
	wellbeing *regexp.Regexp
	harmony   *regexp.Regexp
}

// NewEvidenceDetector creates a new evidence detector
func NewEvidenceDetector() *EvidenceDetector {
	return &EvidenceDetector{
		empirical: phraseRegexp(empiricalKeywords),
		wellbeing: phraseRegexp(wellbeingKeywords),
		harmony:   phraseRegexp(harmonyKeywords),
	}
}

// Detect computes all three flags. Matching is substring based, so "database"
// counts as empirical and "helpful" as wellbeing.
func (d *EvidenceDetector) Detect(text string) model.EvidenceFlags {
	return model.EvidenceFlags{
		HasEmpirical:     d.empirical.MatchString(text),
		ServesWellbeing:  d.wellbeing.MatchString(text),
		MaintainsHarmony: d.harmony.MatchString(text),
	}
}
