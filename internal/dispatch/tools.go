package dispatch

import "github.com/ppiankov/claimcheck/internal/model"

// Operation names
const (
	OpAnalyzeClaim      = "analyze_claim"
	OpValidateSources   = "validate_sources"
	OpCheckManipulation = "check_manipulation"
)

// Tool describes an operation for protocol registration and listings
type Tool struct {
	Name                 string
	Title                string
	Description          string
	TextDescription      string
	AcceptsFramework     bool
	FrameworkDescription string
}

// FrameworkValues returns the framework enum advertised in tool schemas
func FrameworkValues() []string {
	frameworks := model.Frameworks()
	values := make([]string, len(frameworks))
	for i, f := range frameworks {
		values[i] = string(f)
	}
	return values
}

// Tools returns the advertised operations
func Tools() []Tool {
	return []Tool{
		{
			Name:                 OpAnalyzeClaim,
			Title:                "Analyze claim",
			Description:          "Analyze a claim using multiple epistemological frameworks and suggest validation steps",
			TextDescription:      "Claim to analyze",
			AcceptsFramework:     true,
			FrameworkDescription: "Validation framework to use (empirical, responsible, harmonic, or pluralistic)",
		},
		{
			Name:                 OpValidateSources,
			Title:                "Validate sources",
			Description:          "Validate sources and evidence using configured framework",
			TextDescription:      "Text containing claims and sources to validate",
			AcceptsFramework:     true,
			FrameworkDescription: "Validation framework to use",
		},
		{
			Name:            OpCheckManipulation,
			Title:           "Check manipulation",
			Description:     "Check for manipulation tactics across different cultural contexts",
			TextDescription: "Text to analyze for manipulation",
		},
	}
}
