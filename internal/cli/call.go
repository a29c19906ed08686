package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/dispatch"
)

var (
	callArgs   string
	callOutput string
)

// callCmd represents the call command
var callCmd = &cobra.Command{
	Use:   "call <operation>",
	Short: "Dispatch a raw tool call",
	Long: `Call sends a tool name and a JSON argument object straight to the dispatcher,
exactly as the MCP server would. Errors are reported with their code.

Example:
  claimcheck call analyze_claim --args '{"text":"Research shows X","framework":"empirical"}'
  claimcheck call check_manipulation --args '{"text":42}'`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringVar(&callArgs, "args", "", "tool arguments as a JSON object")
	callCmd.Flags().StringVarP(&callOutput, "output", "o", "", "output format: text, json or yaml (default from config)")
}

func runCall(cmd *cobra.Command, args []string) error {
	format := outputFormat(callOutput)
	if err := checkFormat(format); err != nil {
		return err
	}

	toolArgs, err := parseCallArgs(callArgs)
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

	res, err := d.Call(ctx, args[0], toolArgs)
	if err != nil {
		code := dispatch.CodeOf(err)
		return fmt.Errorf("%s (%d): %w", code, int(code), err)
	}

	return writeResult(cmd.OutOrStdout(), format, res)
}

// parseCallArgs decodes raw JSON arguments. Valid JSON that is not an object is
// passed on as missing arguments so the dispatcher reports it.
func parseCallArgs(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("parse --args: %w", err)
	}

	args, _ := decoded.(map[string]any)
	return args, nil
}
