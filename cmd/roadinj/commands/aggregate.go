package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epistat/roadinj/internal/pipeline"
)

// aggregateCmd represents the aggregate command
var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Stage 1: aggregate raw population counts into cohorts",
	Long: `Reads the raw population CSV (POPS_PATH), aggregates it into
5-year age/sex/year cohorts, and writes the cohort dataset
(OUTPUT_PATH). With DATABASE_URL set, cohorts and the aggregation
report are also stored in Postgres.

Example:
  go run ./cmd/roadinj aggregate`,
	RunE: runAggregate,
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
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
	table, report, err := runner.Aggregate(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("=== roadinj Aggregate ===\n\n")
	fmt.Printf("Input:   %s (%d rows)\n", cfg.Pipeline.PopsPath, report.RowsRead)
	fmt.Printf("Output:  %s (%d cohorts)\n", cfg.Pipeline.OutputPath, table.Len())
	fmt.Printf("Dropped: %d over age 85, %d outside year windows\n", report.DroppedAge, report.DroppedYear)
	if report.UnknownSex > 0 {
		fmt.Printf("Warning: %d rows had unrecognized sex values (coerced to female)\n", report.UnknownSex)
	}
	if report.ZeroSample > 0 {
		fmt.Printf("Warning: %d zero-population cohorts excluded\n", report.ZeroSample)
	}

	return nil
}
