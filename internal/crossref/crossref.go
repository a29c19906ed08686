// Package crossref builds the static cross-reference suggestions attached to every
// result. Suggestions are prompts for a human or another agent; nothing here
// performs a search.
package crossref

import (
	"fmt"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Triplets are appended per active framework category. Pluralistic activates all three.

func empiricalActive(f model.Framework) bool {
	return f == model.FrameworkEmpirical || f == model.FrameworkPluralistic
}

func responsibleActive(f model.Framework) bool {
	return f == model.FrameworkResponsible || f == model.FrameworkPluralistic
}

func harmonicActive(f model.Framework) bool {
	return f == model.FrameworkHarmonic || f == model.FrameworkPluralistic
}

// ForClaim returns the cross-reference prompts for analyze_claim
func ForClaim(text string, framework model.Framework) []string {
	prompts := []string{
		fmt.Sprintf(`- Use Exa MCP server to search for general information: "%s"`, text),
		fmt.Sprintf(`- Use Brave Search for independent web sources: "%s"`, text),
		fmt.Sprintf(`- Search ArXiv for preprints and technical papers: "%s"`, text),
		fmt.Sprintf(`- Use Google Scholar MCP server to find peer-reviewed research: "%s"`, text),
		"- Cross-reference findings between academic and general sources to identify consensus or conflicts",
	}

	if empiricalActive(framework) {
		prompts = append(prompts,
			"- Compare methodologies between ArXiv papers and peer-reviewed research",
			"- Analyze replication status across different studies",
			"- Cross-validate findings between academic databases",
		)
	}

	if responsibleActive(framework) {
		prompts = append(prompts,
			fmt.Sprintf(`- Use Exa MCP server to search for community impact studies: "%s"`, text),
			"- Cross-reference academic findings with community experiences",
			"- Compare traditional knowledge with modern research findings",
		)
	}

	if harmonicActive(framework) {
		prompts = append(prompts,
			fmt.Sprintf(`- Use Exa MCP server to search for alternative perspectives: "%s"`, text),
			"- Compare Eastern and Western research approaches",
			"- Synthesize findings across different knowledge systems",
		)
	}

	return prompts
}

// ForSource returns the verification prompts for one detected source context
func ForSource(context string, framework model.Framework) []string {
	prompts := []string{
		fmt.Sprintf(`- Use Exa MCP server to verify credibility of: "%s"`, context),
		fmt.Sprintf(`- Use Brave Search to find independent verification: "%s"`, context),
		fmt.Sprintf(`- Search ArXiv for related technical papers: "%s"`, context),
		fmt.Sprintf(`- Use Google Scholar MCP server to check academic citations: "%s"`, context),
		"- Cross-reference findings between different platforms to establish credibility",
	}

	if empiricalActive(framework) {
		prompts = append(prompts,
			"- Compare methodologies and results across different studies",
			"- Verify replication status and reproducibility",
			"- Cross-validate findings between different research groups",
		)
	}

	if responsibleActive(framework) {
		prompts = append(prompts,
			fmt.Sprintf(`- Use Exa MCP server to search for community perspectives: "%s"`, context),
			"- Compare academic findings with real-world impacts",
			"- Cross-reference with local knowledge and experiences",
		)
	}

	if harmonicActive(framework) {
		prompts = append(prompts,
			"- Compare perspectives across different cultural contexts",
			"- Synthesize findings from multiple knowledge systems",
			"- Identify areas of consensus and divergence",
		)
	}

	return prompts
}

// ForSources concatenates ForSource over every source, in source order
func ForSources(sources []model.DetectedSource, framework model.Framework) []string {
	prompts := make([]string, 0)
	for _, s := range sources {
		prompts = append(prompts, ForSource(s.Context, framework)...)
	}
	return prompts
}

// ForManipulation returns the validation prompts for check_manipulation. Each
// conditional triplet is appended at most once.
func ForManipulation(text string, detected []model.ManipulationPattern) []string {
	prompts := []string{
		fmt.Sprintf(`- Use Exa MCP server to search for factual information: "%s"`, text),
		fmt.Sprintf(`- Use Brave Search for independent fact-checking: "%s"`, text),
		fmt.Sprintf(`- Search ArXiv for technical analysis: "%s"`, text),
		fmt.Sprintf(`- Use Google Scholar MCP server to find peer-reviewed research: "%s"`, text),
		"- Cross-reference findings across different platforms to establish truth",
	}

	hit := make(map[model.ManipulationPattern]bool, len(detected))
	for _, p := range detected {
		hit[p] = true
	}

	if hit[model.PatternAuthority] {
		prompts = append(prompts,
			"- Use Google Scholar MCP server to verify credibility of cited authorities",
			"- Cross-reference authority claims with independent research",
			"- Compare expert opinions across different fields",
		)
	}

	if hit[model.PatternEmotional] {
		prompts = append(prompts,
			"- Use Exa MCP server to find balanced, non-emotional discussions",
			"- Compare emotional appeals with empirical evidence",
			"- Cross-validate claims across multiple neutral sources",
		)
	}

	if hit[model.PatternSocial] || hit[model.PatternScarcity] {
		prompts = append(prompts,
			"- Verify claims using multiple independent sources",
			"- Cross-reference marketing claims with factual data",
			"- Compare urgency claims with historical patterns",
		)
	}

	return prompts
}
