package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// checkCmd verifies configuration and API access without writing a report
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration and W&B API access",
	Long: `Validates the resolved configuration and performs the viewer lookup to
confirm the API key works, without touching any run or writing a report.

Useful when wiring wandb-compare into a new repository.`,
	RunE: runCheck,
}

// runCheck validates configuration and probes the API
func runCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("wandb-compare configuration check")
	fmt.Println("=================================")

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("✗ Configuration invalid: %v\n", err)
		return err
	}
	fmt.Println("✓ Configuration complete")
	fmt.Printf("  Entity:   %s\n", cfg.WandB.Entity)
	fmt.Printf("  Project:  %s\n", cfg.WandB.Project)
	fmt.Printf("  Run ID:   %s\n", cfg.WandB.RunID)
	fmt.Printf("  Base URL: %s\n", cfg.WandB.BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	viewer, err := newClient(cfg).Viewer(ctx)
	if err != nil {
		fmt.Printf("✗ API access failed: %v\n", err)
		return err
	}
	fmt.Printf("✓ Authenticated (default entity: %s)\n", viewer.Entity)

	return nil
}
