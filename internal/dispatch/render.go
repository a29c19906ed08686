package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

func renderClaimAnalysis(p model.ClaimAnalysis) string {
	return fmt.Sprintf("Analysis using %s framework:\n\n", p.Framework) +
		fmt.Sprintf("Requirements:\n%s\n\n", strings.Join(p.Suggestions, "\n")) +
		fmt.Sprintf("Confidence level: %s\n\n", p.Validation.Confidence) +
		fmt.Sprintf("Suggested cross-references:\n%s", strings.Join(p.CrossRefPrompts, "\n"))
}

func renderSourceValidation(p model.SourceValidation) string {
	return fmt.Sprintf("Source validation using %s framework:\n\n", p.Framework) +
		fmt.Sprintf("Found %d sources to validate.\n\n", len(p.Sources)) +
		fmt.Sprintf("Validation steps:\n%s", strings.Join(p.ValidationPrompts, "\n"))
}

func renderManipulationCheck(p model.ManipulationCheck) string {
	detected := "None"
	if len(p.DetectedPatterns) > 0 {
		names := make([]string, len(p.DetectedPatterns))
		for i, pattern := range p.DetectedPatterns {
			names[i] = string(pattern)
		}
		detected = strings.Join(names, ", ")
	}

	return "Manipulation check results:\n\n" +
		fmt.Sprintf("Detected patterns: %s\n\n", detected) +
		fmt.Sprintf("Suggested validation:\n%s", strings.Join(p.ValidationPrompts, "\n"))
}

// encodePayload marshals without HTML escaping so quotes and angle brackets in
// claims survive verbatim
func encodePayload(payload any, indent bool) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
