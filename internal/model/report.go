package model

// RubricRequirements is the requirement checklist a framework imposes on a claim
type RubricRequirements struct {
	Type         Framework `json:"type" yaml:"type"`
	Requirements []string  `json:"requirements" yaml:"requirements"`
}

// ValidationResult pairs a framework's requirements with the computed confidence
type ValidationResult struct {
	Requirements RubricRequirements `json:"requirements" yaml:"requirements"`
	Confidence   Confidence         `json:"confidence" yaml:"confidence"`
}

// ClaimAnalysis is the structured result of analyze_claim
type ClaimAnalysis struct {
	Framework       Framework        `json:"framework" yaml:"framework"`
	Validation      ValidationResult `json:"validation" yaml:"validation"`
	Suggestions     []string         `json:"suggestions" yaml:"suggestions"`
	CrossRefPrompts []string         `json:"crossRefPrompts" yaml:"crossRefPrompts"`
}

// SourceValidation is the structured result of validate_sources
type SourceValidation struct {
	Framework         Framework        `json:"framework" yaml:"framework"`
	Sources           []DetectedSource `json:"sources" yaml:"sources"`
	ValidationPrompts []string         `json:"validationPrompts" yaml:"validationPrompts"`
}

// ManipulationCheck is the structured result of check_manipulation
type ManipulationCheck struct {
	DetectedPatterns  []ManipulationPattern `json:"detectedPatterns" yaml:"detectedPatterns"`
	ValidationPrompts []string              `json:"validationPrompts" yaml:"validationPrompts"`
}
