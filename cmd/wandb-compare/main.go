package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wandbcompare/internal/compare"
	"wandbcompare/internal/config"
	"wandbcompare/internal/wandb"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	baseURL     string
	baselineTag string
	outputPath  string
	timeout     time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wandb-compare",
	Short: "Publish a W&B baseline comparison link for CI",
	Long: `wandb-compare resolves a project's baseline run and the run produced by
the current CI job in Weights & Biases, builds the side-by-side comparison
URL, and writes it to a file for later pipeline steps (e.g. a PR comment).

Required environment: WANDB_API_KEY, WANDB_ENTITY, WANDB_PROJECT, RUN_ID.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger. Everything goes to stdout: CI collects one stream.
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stdout"}
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runCompare,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "wandb-compare.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "W&B API base URL (or set WANDB_BASE_URL env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall operation timeout")

	// Compare flags
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Report file path (default: report_url.txt)")
	rootCmd.Flags().StringVar(&baselineTag, "baseline-tag", "", "Tag marking the baseline run (default: baseline)")

	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runCompare resolves both runs and publishes the comparison URL
func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Handle graceful shutdown: CI runners send SIGTERM on cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	comparer := compare.New(newClient(cfg), compare.Params{
		Entity:      cfg.WandB.Entity,
		Project:     cfg.WandB.Project,
		RunID:       cfg.WandB.RunID,
		BaselineTag: cfg.WandB.BaselineTag,
		AppURL:      wandb.AppURL(cfg.WandB.BaseURL),
	})
	comparer.SetLogger(logger)

	result, err := comparer.Execute(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return err
	}

	if err := compare.WriteReport(cfg.Report.Path, result.URL); err != nil {
		fmt.Printf("Error: %v\n", err)
		return err
	}
	fmt.Printf("Report URL written to %s\n", cfg.Report.Path)

	return nil
}

// loadConfig resolves configuration: defaults, then file, then environment,
// then flags. Validation runs before any client exists, so a missing value
// never costs a network call.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Flags override file and environment
	if baseURL != "" {
		cfg.WandB.BaseURL = baseURL
	}
	if baselineTag != "" {
		cfg.WandB.BaselineTag = baselineTag
	}
	if outputPath != "" {
		cfg.Report.Path = outputPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newClient builds the API client from resolved configuration.
func newClient(cfg *config.Config) *wandb.Client {
	client := wandb.NewClientWithConfig(wandb.ClientConfig{
		APIKey:  cfg.WandB.APIKey,
		BaseURL: cfg.WandB.BaseURL,
		Timeout: cfg.GetTimeout(),
	})
	client.SetLogger(logger)
	return client
}
