package extract

import (
	"regexp"

	"github.com/ppiankov/claimcheck/internal/model"
)

// manipulationPhrases lists the trigger phrases per pattern. Some phrases belong to
// more than one pattern ("limited time", "don't miss out").
var manipulationPhrases = map[model.ManipulationPattern][]string{
	model.PatternEmotional: {"fear", "urgent", "must act", "limited time", "don't wait", "before it's too late"},
	model.PatternSocial:    {"everyone knows", "nobody wants", "you don't want to be", "don't miss out"},
	model.PatternAuthority: {"experts say", "scientists claim", "studies show", "research proves"},
	model.PatternScarcity:  {"limited time", "exclusive", "rare opportunity", "don't miss out"},
}

type manipulationRule struct {
	pattern model.ManipulationPattern
	re      *regexp.Regexp
}

// ManipulationDetector reports which persuasion tactics appear in a text
type ManipulationDetector struct {
	rules []manipulationRule
}

// NewManipulationDetector creates a new manipulation detector
func NewManipulationDetector() *ManipulationDetector {
	patterns := model.ManipulationPatterns()
	rules := make([]manipulationRule, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, manipulationRule{
			pattern: p,
			re:      phraseRegexp(manipulationPhrases[p]),
		})
	}

	return &ManipulationDetector{rules: rules}
}

// Detect tests every pattern independently and returns the ones that matched,
// in declaration order
func (d *ManipulationDetector) Detect(text string) []model.ManipulationPattern {
	detected := make([]model.ManipulationPattern, 0, len(d.rules))
	for _, rule := range d.rules {
		if rule.re.MatchString(text) {
			detected = append(detected, rule.pattern)
		}
	}
	return detected
}
