package rubric

import (
	"errors"
	"fmt"

	"github.com/ppiankov/claimcheck/internal/model"
)

// ErrUnknownFramework is returned when a framework has no rubric
var ErrUnknownFramework = errors.New("unknown framework")

// ConfidenceFunc maps evidence flags to a confidence label
type ConfidenceFunc func(flags model.EvidenceFlags) model.Confidence

// Rubric pairs a framework's requirement checklist with its confidence rule
type Rubric struct {
	Framework    model.Framework
	requirements []string
	confidence   ConfidenceFunc
}

// Requirements returns a copy of the ordered requirement list
func (r Rubric) Requirements() []string {
	out := make([]string, len(r.requirements))
	copy(out, r.requirements)
	return out
}

// Confidence computes the confidence label for the given flags
func (r Rubric) Confidence(flags model.EvidenceFlags) model.Confidence {
	return r.confidence(flags)
}

// Table holds the four fixed rubrics
type Table struct {
	rubrics map[model.Framework]Rubric
}

// NewTable creates the rubric table
func NewTable() *Table {
	return &Table{
		rubrics: map[model.Framework]Rubric{
			// Evidence and logic
			model.FrameworkEmpirical: {
				Framework: model.FrameworkEmpirical,
				requirements: []string{
					"Verifiable evidence from multiple sources",
					"Logical consistency across different contexts",
					"Reproducible results with documented methodology",
					"Cross-referenced academic and scientific sources",
					"Peer-reviewed validation where applicable",
				},
				confidence: func(flags model.EvidenceFlags) model.Confidence {
					return binaryConfidence(flags.HasEmpirical)
				},
			},

			// Community impact and responsible truth
			model.FrameworkResponsible: {
				Framework: model.FrameworkResponsible,
				requirements: []string{
					"Benefits community wellbeing with documented impact",
					"Aligns with traditional knowledge and modern research",
					"Respects natural balance and sustainable practices",
					"Verified by diverse community perspectives",
					"Supported by both qualitative and quantitative evidence",
				},
				confidence: func(flags model.EvidenceFlags) model.Confidence {
					return binaryConfidence(flags.ServesWellbeing)
				},
			},

			// Harmony and contextual truth
			model.FrameworkHarmonic: {
				Framework: model.FrameworkHarmonic,
				requirements: []string{
					"Maintains balance across different domains",
					"Considers context from multiple viewpoints",
					"Integrates perspectives from various disciplines",
					"Synthesizes traditional and modern knowledge",
					"Demonstrates coherence across different frameworks",
				},
				confidence: func(flags model.EvidenceFlags) model.Confidence {
					return binaryConfidence(flags.MaintainsHarmony)
				},
			},

			model.FrameworkPluralistic: {
				Framework: model.FrameworkPluralistic,
				requirements: []string{
					"Consider multiple ways of knowing and validate across frameworks",
					"Evaluate contextual appropriateness in different settings",
					"Assess practical outcomes with measurable metrics",
					"Check alignment with community values and scientific consensus",
					"Cross-reference academic, practical, and community sources",
					"Integrate insights from diverse knowledge systems",
				},
				confidence: pluralisticConfidence,
			},
		},
	}
}

// Lookup returns the rubric for a framework
func (t *Table) Lookup(framework model.Framework) (Rubric, error) {
	r, ok := t.rubrics[framework]
	if !ok {
		return Rubric{}, fmt.Errorf("%w: %q", ErrUnknownFramework, framework)
	}
	return r, nil
}

// Validate returns the framework's requirements and the confidence for the given flags
func (t *Table) Validate(framework model.Framework, flags model.EvidenceFlags) (model.ValidationResult, error) {
	r, err := t.Lookup(framework)
	if err != nil {
		return model.ValidationResult{}, err
	}

	return model.ValidationResult{
		Requirements: model.RubricRequirements{
			Type:         r.Framework,
			Requirements: r.Requirements(),
		},
		Confidence: r.Confidence(flags),
	}, nil
}

// Suggestions renders one verification line per requirement, in requirement order
func (t *Table) Suggestions(claim string, framework model.Framework) ([]string, error) {
	r, err := t.Lookup(framework)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0, len(r.requirements))
	for _, req := range r.requirements {
		suggestions = append(suggestions, fmt.Sprintf("- Verify if claim \"%s\" meets requirement: %s", claim, req))
	}
	return suggestions, nil
}

func binaryConfidence(ok bool) model.Confidence {
	if ok {
		return model.ConfidenceHigh
	}
	return model.ConfidenceLow
}

// pluralisticConfidence averages the three flags. With three binary inputs the only
// reachable averages are 0, 1/3, 2/3 and 1, so high means all three and medium means
// at least one.
func pluralisticConfidence(flags model.EvidenceFlags) model.Confidence {
	avg := float64(flags.Count()) / 3.0

	if avg > 0.7 {
		return model.ConfidenceHigh
	} else if avg > 0.3 {
		return model.ConfidenceMedium
	}
	return model.ConfidenceLow
}
