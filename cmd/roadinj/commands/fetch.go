package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epistat/roadinj/internal/fetch"
	"github.com/epistat/roadinj/pkg/httputil"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download raw population counts from the configured source",
	Long: `Downloads population data from FETCH_URL into POPS_PATH.

FETCH_FORMAT controls parsing:
  csv  - the endpoint serves pops.csv directly
  html - scrape the population table from a statistics portal page

Example:
  FETCH_URL=https://example.org/pops.csv go run ./cmd/roadinj fetch`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	client := httputil.New(cfg, log)
	fetcher := fetch.New(cfg, log, client)

	if err := fetcher.Fetch(context.Background(), cfg.Pipeline.PopsPath); err != nil {
		return err
	}

	fmt.Printf("=== roadinj Fetch ===\n\n")
	fmt.Printf("Source: %s (%s)\n", cfg.Fetch.URL, cfg.Fetch.Format)
	fmt.Printf("Saved:  %s\n", cfg.Pipeline.PopsPath)

	return nil
}
