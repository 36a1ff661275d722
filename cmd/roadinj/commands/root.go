package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roadinj",
	Short: "Synthetic road-injury dataset pipeline",
	Long: `roadinj builds a modeling-ready road-injury dataset.

Two batch stages:
  1. aggregate - raw per-year population counts into 5-year age/sex/year cohorts
  2. generate  - synthetic reporting probability and injury rate from a fitted model

Usage:
  go run ./cmd/roadinj [command]

Examples:
  go run ./cmd/roadinj aggregate
  go run ./cmd/roadinj pipeline
  go run ./cmd/roadinj serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
