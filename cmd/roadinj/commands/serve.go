package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/epistat/roadinj/internal/api"
	"github.com/epistat/roadinj/internal/api/handlers"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generated dataset over HTTP",
	Long: `Starts a read-only API over the cohorts, outcomes and
aggregation reports stored in Postgres.

Endpoints:
  GET /health
  GET /api/cohorts[?year=1995]
  GET /api/outcomes
  GET /api/report

Requires DATABASE_URL.

Example:
  go run ./cmd/roadinj serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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

	dataHandler := handlers.NewDataHandler(repo, log)
	router := api.NewRouter(dataHandler, log)
	server := api.New(cfg, log, router)

	// Run the server until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
