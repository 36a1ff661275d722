package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/epistat/roadinj/internal/ratemodel"
	"github.com/epistat/roadinj/pkg/database"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline configuration and environment state",
	Long: `Prints a one-shot summary of the pipeline environment:

- effective configuration (paths, seed, noise)
- presence of the input, output and model files
- database connectivity when DATABASE_URL is set

Example:
  go run ./cmd/roadinj status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("=== roadinj Status ===\n\n")

	fmt.Println("Configuration")
	fmt.Println("--------------------------------------------------")
	fmt.Printf("  %-14s %s\n", "env:", cfg.Env)
	fmt.Printf("  %-14s %s\n", "port:", cfg.Port)
	fmt.Printf("  %-14s %d\n", "seed:", cfg.Pipeline.Seed)
	fmt.Printf("  %-14s %g\n", "noise sd:", cfg.Pipeline.NoiseSD)
	fmt.Printf("  %-14s %s\n", "schedule:", cfg.ScheduleCron)
	fmt.Println()

	fmt.Println("Files")
	fmt.Println("--------------------------------------------------")
	printFileStatus("populations:", cfg.Pipeline.PopsPath)
	printFileStatus("dataset:", cfg.Pipeline.OutputPath)
	printModelStatus(cfg.Pipeline.ModelPath)
	fmt.Println()

	fmt.Println("Database")
	fmt.Println("--------------------------------------------------")
	if !cfg.HasDatabase() {
		fmt.Println("  not configured (file-only mode)")
		fmt.Println()
		return nil
	}

	db, err := database.New(cfg)
	if err != nil {
		fmt.Printf("  connection failed: %v\n", err)
		fmt.Println()
		return nil
	}
	defer db.Close()

	health, err := db.HealthCheck(context.Background())
	if err != nil {
		log.WithError(err).Warn("Database health check failed")
		fmt.Printf("  unhealthy: %v\n", err)
	} else {
		fmt.Printf("  %-14s %v\n", "healthy:", health.Healthy)
		fmt.Printf("  %-14s %v\n", "response:", health.ResponseTime)
		fmt.Printf("  %-14s %d/%d (idle %d)\n", "connections:",
			health.TotalConns, health.MaxConns, health.IdleConns)
	}
	fmt.Println()

	return nil
}

func printFileStatus(label, path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("  %-14s %s (missing)\n", label, path)
		return
	}
	fmt.Printf("  %-14s %s (%d bytes)\n", label, path, info.Size())
}

func printModelStatus(path string) {
	model, err := ratemodel.LoadFile(path)
	if err != nil {
		fmt.Printf("  %-14s %s (unusable: %v)\n", "model:", path, err)
		return
	}
	fmt.Printf("  %-14s %s (%d covariates)\n", "model:", path, len(model.Spec.Covariates))
}
