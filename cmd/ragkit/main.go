// -----------------------------------------------------------------------
// Last Modified: Monday, 19th October 2026 3:05:00 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/app"
	"github.com/ternarybob/ragkit/internal/common"
)

var (
	// Command-line flags
	configFiles  []string // Multiple --config flags supported
	logLevel     string
	promptDriver string
	noBanner     bool

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:               "ragkit",
	Short:             "Query text and web content through a RAG pipeline",
	Long:              "ragkit answers natural language queries over literal text, stored task memory\nor scraped web pages using configurable prompt, embedding and vector store drivers.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times, later files override earlier ones)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&promptDriver, "prompt-driver", "", "Prompt driver: gemini, claude or echo (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noBanner, "no-banner", false, "Do not print the startup banner")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(namespacesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = common.GetFullVersion()
}

// loadConfig runs the startup sequence shared by every command:
// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
// 2. Apply CLI overrides (highest priority)
// 3. Initialize logger
// 4. Print banner
func loadConfig(cmd *cobra.Command, args []string) error {
	if len(configFiles) == 0 {
		if _, err := os.Stat("ragkit.toml"); err == nil {
			configFiles = append(configFiles, "ragkit.toml")
		} else if _, err := os.Stat("deployments/local/ragkit.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/ragkit.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel != "" {
		config.Logging.Level = logLevel
	}
	if promptDriver != "" {
		config.Drivers.Prompt = common.DriverName(promptDriver)
		if err := config.Validate(); err != nil {
			return err
		}
	}

	logger = common.InitLogger(config)

	if !noBanner {
		common.PrintBanner(config, logger)
	}

	logger.Debug().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Msg("Resolved configuration")

	return nil
}

// withApp builds the application, runs fn with a context cancelled on interrupt, and closes the application
func withApp(fn func(ctx context.Context, application *app.App) error) error {
	application, err := app.New(config, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close application")
		}
	}()

	ctx, stop := signal.NotifyContext(application.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, application)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
