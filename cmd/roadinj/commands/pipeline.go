package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epistat/roadinj/internal/pipeline"
)

// pipelineCmd represents the pipeline command
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run both stages end to end",
	Long: `Aggregates the raw population CSV and generates synthetic
outcomes in one run, producing the complete modeling-ready dataset.

Example:
  go run ./cmd/roadinj pipeline`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
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

	runner := pipeline.NewRunner(cfg, log, repo)
	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("=== roadinj Pipeline ===\n\n")
	fmt.Printf("Cohorts:  %d\n", result.Table.Len())
	fmt.Printf("Output:   %s\n", cfg.Pipeline.OutputPath)
	fmt.Printf("Duration: %s\n", result.Duration)

	return nil
}
