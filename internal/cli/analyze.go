package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/dispatch"
)

// inputFlags are the input and output flags of one text command
type inputFlags struct {
	file   string
	html   bool
	output string
}

var (
	analyzeFlags      inputFlags
	sourcesFlags      inputFlags
	manipulationFlags inputFlags
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze a claim against a validation framework",
	Long: `Analyze runs analyze_claim on a claim:
- Detect evidence, wellbeing and harmony language
- List the framework's requirements and a confidence level
- Suggest cross-references for further research

Example:
  claimcheck analyze "Studies show this supplement improves memory"
  claimcheck analyze --framework empirical --output json "Research proves X"
  claimcheck analyze --file article.html --html`,
	RunE: operationRunner(dispatch.OpAnalyzeClaim, &analyzeFlags),
}

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources [text...]",
	Short: "List citation phrases worth validating",
	Long: `Sources runs validate_sources on a text:
- Find citation phrases such as "according to" or "experts"
- Show the text around each one
- Suggest validation steps per source

Example:
  claimcheck sources "According to the ministry, the program works."
  claimcheck sources --file article.txt --output yaml`,
	RunE: operationRunner(dispatch.OpValidateSources, &sourcesFlags),
}

// manipulationCmd represents the manipulation command
var manipulationCmd = &cobra.Command{
	Use:   "manipulation [text...]",
	Short: "Check a text for persuasion tactics",
	Long: `Manipulation runs check_manipulation on a text and reports emotional,
social, authority and scarcity pressure, with suggested validation steps.

Example:
  claimcheck manipulation "Act now, limited time offer!"`,
	RunE: operationRunner(dispatch.OpCheckManipulation, &manipulationFlags),
}

func init() {
	addTextCommand(analyzeCmd, &analyzeFlags)
	addTextCommand(sourcesCmd, &sourcesFlags)
	addTextCommand(manipulationCmd, &manipulationFlags)
}

func addTextCommand(cmd *cobra.Command, flags *inputFlags) {
	rootCmd.AddCommand(cmd)

	// Input flags
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "read text from file (- for stdin)")
	cmd.Flags().BoolVar(&flags.html, "html", false, "treat input as HTML and analyze its visible text")

	// Output flags
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: text, json or yaml (default from config)")
}

func operationRunner(operation string, flags *inputFlags) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		format := outputFormat(flags.output)
		if err := checkFormat(format); err != nil {
			return err
		}

		text, err := readInput(args, flags.file, cmd.InOrStdin(), flags.html)
		if err != nil {
			return err
		}

		d, err := dispatch.New(cfg.DefaultFramework(), logger)
		if err != nil {
			return fmt.Errorf("create dispatcher: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		res, err := d.Call(ctx, operation, map[string]any{"text": text})
		if err != nil {
			return err
		}

		return writeResult(cmd.OutOrStdout(), format, res)
	}
}

// outputFormat prefers a command's --output flag over the configured default
func outputFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Output.Format
}
