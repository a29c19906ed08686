package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/dispatch"
	"github.com/ppiankov/claimcheck/internal/server"
)

var toolsJSON bool

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools",
	Long:  `List the tools advertised by the MCP server. --json prints the MCP tool definitions with their input schemas.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()

		if toolsJSON {
			data, err := json.MarshalIndent(server.ToolDefinitions(), "", "  ")
			if err != nil {
				return fmt.Errorf("error marshaling tools: %w", err)
			}
			_, err = fmt.Fprintln(w, string(data))
			return err
		}

		for _, t := range dispatch.Tools() {
			fmt.Fprintf(w, "%s\n", t.Name)
			fmt.Fprintf(w, "  %s\n", t.Description)
			fmt.Fprintf(w, "  text       (required) %s\n", t.TextDescription)
			if t.AcceptsFramework {
				fmt.Fprintf(w, "  framework  (optional) one of %s\n", strings.Join(dispatch.FrameworkValues(), ", "))
			}
			fmt.Fprintln(w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)

	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "print MCP tool definitions as JSON")
}
