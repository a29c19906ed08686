package model

// Framework names one of the fixed epistemological rubrics a claim is validated against
type Framework string

const (
	FrameworkEmpirical   Framework = "empirical"   // Evidence, logic and reproducibility
	FrameworkResponsible Framework = "responsible" // Community wellbeing and documented impact
	FrameworkHarmonic    Framework = "harmonic"    // Balance and contextual coherence
	FrameworkPluralistic Framework = "pluralistic" // All of the above combined
)

// DefaultFramework is used when neither the request nor the configuration names a valid framework
const DefaultFramework = FrameworkPluralistic

// Frameworks returns every framework in declaration order
func Frameworks() []Framework {
	return []Framework{
		FrameworkEmpirical,
		FrameworkResponsible,
		FrameworkHarmonic,
		FrameworkPluralistic,
	}
}

// ParseFramework recognizes exactly the four framework keys
func ParseFramework(s string) (Framework, bool) {
	for _, f := range Frameworks() {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// FrameworkOrDefault returns the parsed framework, or DefaultFramework for anything unrecognized
func FrameworkOrDefault(s string) Framework {
	if f, ok := ParseFramework(s); ok {
		return f
	}
	return DefaultFramework
}

func (f Framework) String() string {
	return string(f)
}

// Confidence is the coarse label describing how well evidence flags support a claim
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)
