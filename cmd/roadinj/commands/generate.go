package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epistat/roadinj/internal/pipeline"
	"github.com/epistat/roadinj/internal/popio"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Stage 2: generate synthetic outcomes from the fitted model",
	Long: `Reads a previously aggregated cohort dataset (OUTPUT_PATH),
loads the fitted rate model (MODEL_PATH), evaluates the probability
and rate generators, and rewrites the dataset with the
p_synthetic and lambda_synthetic columns appended.

The model artifact must exist; a missing or corrupt artifact is a
fatal error.

Example:
  go run ./cmd/roadinj generate`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, repo, err := openRepo(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	table, err := popio.ReadCohorts(cfg.Pipeline.OutputPath)
	if err != nil {
		return fmt.Errorf("stage 2 needs an aggregated dataset (run aggregate first): %w", err)
	}

	runner := pipeline.NewRunner(cfg, log, repo)
	outcomes, err := runner.Generate(ctx, table)
	if err != nil {
		return err
	}

	if err := popio.WriteDataset(cfg.Pipeline.OutputPath, table, outcomes); err != nil {
		return err
	}

	fmt.Printf("=== roadinj Generate ===\n\n")
	fmt.Printf("Model:   %s\n", cfg.Pipeline.ModelPath)
	fmt.Printf("Output:  %s (%d rows with p_synthetic, lambda_synthetic)\n",
		cfg.Pipeline.OutputPath, table.Len())

	return nil
}
