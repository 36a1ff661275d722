package commands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// dataCheckCmd represents the data check command
var dataCheckCmd = &cobra.Command{
	Use:   "data-check",
	Short: "Check stored dataset state",
	Long: `Checks the state of the pipeline tables in Postgres:

- cohort rows per year group
- stored synthetic outcomes
- aggregation report history

Requires DATABASE_URL.

Example:
  go run ./cmd/roadinj data-check`,
	RunE: runDataCheck,
}

func init() {
	rootCmd.AddCommand(dataCheckCmd)
}

func runDataCheck(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, repo, err := requireRepo(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("=== roadinj Data Check ===\n\n")

	checkCohorts(ctx, repo.Pool())
	checkOutcomes(ctx, repo.Pool())
	checkReports(ctx, repo.Pool())

	return nil
}

func checkCohorts(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("Cohorts (roadinj.cohorts)")
	fmt.Println("--------------------------------------------------")

	var total int
	pool.QueryRow(ctx, `SELECT COUNT(*) FROM roadinj.cohorts`).Scan(&total)
	fmt.Printf("  total: %d cohorts\n", total)

	rows, err := pool.Query(ctx,
		`SELECT year, COUNT(*), SUM(sample_size) FROM roadinj.cohorts GROUP BY year ORDER BY year`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var year, count int
			var sample float64
			if rows.Scan(&year, &count, &sample) == nil {
				fmt.Printf("  %d: %d cohorts, total population %.0f\n", year, count, sample)
			}
		}
	}
	fmt.Println()
}

func checkOutcomes(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("Outcomes (roadinj.outcomes)")
	fmt.Println("--------------------------------------------------")

	var total int
	var model string
	pool.QueryRow(ctx, `SELECT COUNT(*) FROM roadinj.outcomes`).Scan(&total)
	fmt.Printf("  total: %d rows\n", total)

	if total > 0 {
		pool.QueryRow(ctx,
			`SELECT model_path FROM roadinj.outcomes ORDER BY generated_at DESC LIMIT 1`).Scan(&model)
		fmt.Printf("  latest model: %s\n", model)
	}
	fmt.Println()
}

func checkReports(ctx context.Context, pool *pgxpool.Pool) {
	fmt.Println("Aggregation reports (roadinj.aggregation_reports)")
	fmt.Println("--------------------------------------------------")

	var total int
	pool.QueryRow(ctx, `SELECT COUNT(*) FROM roadinj.aggregation_reports`).Scan(&total)
	fmt.Printf("  total: %d reports\n", total)

	if total > 0 {
		var rowsRead, cohorts, unknownSex int
		pool.QueryRow(ctx, `
			SELECT rows_read, cohorts, unknown_sex
			FROM roadinj.aggregation_reports
			ORDER BY run_at DESC LIMIT 1
		`).Scan(&rowsRead, &cohorts, &unknownSex)
		fmt.Printf("  latest: %d rows read, %d cohorts", rowsRead, cohorts)
		if unknownSex > 0 {
			fmt.Printf(" (%d unrecognized sex values)", unknownSex)
		}
		fmt.Println()
	}
	fmt.Println()
}
