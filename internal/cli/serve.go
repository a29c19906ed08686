package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/dispatch"
	"github.com/ppiankov/claimcheck/internal/server"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Serve exposes analyze_claim, validate_sources and check_manipulation as MCP
tools. The stdio transport (default) speaks JSON-RPC on stdin/stdout; logs go
to stderr. The http transport serves the streamable HTTP endpoint at /mcp.

Example:
  claimcheck serve
  claimcheck serve --transport http --addr :8080
  VALIDATION_FRAMEWORK=empirical claimcheck serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("transport", "", "transport: stdio or http (default from config)")
	serveCmd.Flags().String("addr", "", "listen address for the http transport (default from config)")

	_ = viper.BindPFlag("server.transport", serveCmd.Flags().Lookup("transport"))
	_ = viper.BindPFlag("server.http_addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := dispatch.New(cfg.DefaultFramework(), logger)
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)
	s := server.New(cfg, d, limiter, logger)

	logger.Info("starting claimcheck",
		zap.String("version", cfg.Server.Version),
		zap.String("transport", cfg.Server.Transport),
		zap.String("framework", string(d.DefaultFramework())),
	)

	return s.Serve(ctx, cfg.Server, os.Stdin, os.Stdout)
}
