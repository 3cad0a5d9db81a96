package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raviX007/natural-language-wine-search/internal/config"
	logpkg "github.com/raviX007/natural-language-wine-search/internal/logger"
)

var (
	cfgFile  string
	envName  string
	apiKey   string
	logLevel string

	cfg    config.Config
	env    string
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "winesearch",
	Short: "Natural-language wine search over a vector store",
	Long: `winesearch translates free-text questions about wine into a structured filter
plus a semantic query, then runs a filtered similarity search in Valkey or Redis.

Example usage:
  winesearch serve                                   # Start the web UI and JSON API
  winesearch search "red wines from Italy above 95"  # One query from the terminal
  winesearch seed                                    # Load the catalog into an empty collection
  winesearch reset                                   # Drop and reseed the collection`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntime,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		showFailure(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment name (default is $ENV or local)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "OpenAI API key (default is $OPENAI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

// loadRuntime loads the configuration and builds the logger shared by all subcommands.
func loadRuntime(_ *cobra.Command, _ []string) error {
	env = envName
	if env == "" {
		env = config.GetEnv()
	}

	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err = logpkg.NewLogger(env, level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	return nil
}
