package model

// EvidenceFlags are the three keyword-derived signals a rubric scores
type EvidenceFlags struct {
	HasEmpirical     bool `json:"hasEmpirical" yaml:"hasEmpirical"`         // evidence, study, research, data
	ServesWellbeing  bool `json:"servesWellbeing" yaml:"servesWellbeing"`   // benefit, improve, help, support
	MaintainsHarmony bool `json:"maintainsHarmony" yaml:"maintainsHarmony"` // balance, harmony, integrate
}

// Count returns how many flags are set
func (f EvidenceFlags) Count() int {
	n := 0
	for _, set := range []bool{f.HasEmpirical, f.ServesWellbeing, f.MaintainsHarmony} {
		if set {
			n++
		}
	}
	return n
}

// SourceType classifies a detected source
type SourceType string

// SourceTypeCitation is the only source type the extractor produces
const SourceTypeCitation SourceType = "citation"

// DetectedSource is a citation-like phrase found in free text
type DetectedSource struct {
	Type    SourceType `json:"type" yaml:"type"`
	Context string     `json:"context" yaml:"context"` // Text window around the matched phrase
}

// ManipulationPattern names a category of persuasion tactic
type ManipulationPattern string

const (
	PatternEmotional ManipulationPattern = "emotional" // Fear and urgency
	PatternSocial    ManipulationPattern = "social"    // Social proof and pressure
	PatternAuthority ManipulationPattern = "authority" // Appeals to unnamed experts
	PatternScarcity  ManipulationPattern = "scarcity"  // Limited availability
)

// ManipulationPatterns returns every pattern in declaration order
func ManipulationPatterns() []ManipulationPattern {
	return []ManipulationPattern{
		PatternEmotional,
		PatternSocial,
		PatternAuthority,
		PatternScarcity,
	}
}
