package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/logging"
	"github.com/ppiankov/claimcheck/internal/model"
)

// Version is the claimcheck release
const Version = "0.1.0"

var (
	cfgFile   string
	verbose   bool
	framework string
	logLevel  string

	// Populated by PersistentPreRunE
	cfg    model.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimcheck",
	Short: "claimcheck - Claim validation and manipulation checks for MCP clients",
	Long: `claimcheck is an MCP tool server that helps a client reason about a claim.

It analyzes claims against four validation frameworks (empirical, responsible,
harmonic, pluralistic), lists citation phrases worth verifying, and flags
common persuasion tactics.

It does not determine what is true. Every result is a checklist of
prompts for further research.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}

		if _, ok := model.ParseFramework(cfg.Framework); !ok && cfg.Framework != "" {
			logger.Warn("unknown framework, using default",
				zap.String("framework", cfg.Framework),
				zap.String("default", string(model.DefaultFramework)),
			)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of claimcheck.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "claimcheck v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimcheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&framework, "framework", "", "default validation framework (empirical, responsible, harmonic, pluralistic)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("framework", rootCmd.PersistentFlags().Lookup("framework"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	configureViper(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".claimcheck"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configureViper registers defaults and environment bindings. Every key is
// reachable as CLAIMCHECK_<SECTION>_<KEY>; the default framework also honors
// VALIDATION_FRAMEWORK.
func configureViper(v *viper.Viper) {
	defaults := model.DefaultConfig()

	v.SetDefault("framework", defaults.Framework)
	v.SetDefault("server.name", defaults.Server.Name)
	v.SetDefault("server.version", defaults.Server.Version)
	v.SetDefault("server.transport", defaults.Server.Transport)
	v.SetDefault("server.http_addr", defaults.Server.HTTPAddr)
	v.SetDefault("server.instructions", defaults.Server.Instructions)
	v.SetDefault("rate_limit.requests_per_second", defaults.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", defaults.RateLimit.Burst)
	v.SetDefault("rate_limit.idle_ttl", defaults.RateLimit.IdleTTL)
	v.SetDefault("concurrency.workers", defaults.Concurrency.Workers)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.verbose", defaults.Output.Verbose)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.development", defaults.Logging.Development)

	// Read in environment variables that match CLAIMCHECK_*
	v.SetEnvPrefix("CLAIMCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("framework", "CLAIMCHECK_FRAMEWORK", "VALIDATION_FRAMEWORK")
}

func loadConfig(v *viper.Viper) (model.Config, error) {
	var c model.Config
	if err := v.Unmarshal(&c); err != nil {
		return model.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}
