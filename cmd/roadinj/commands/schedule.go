package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/epistat/roadinj/internal/pipeline"
	"github.com/epistat/roadinj/internal/scheduler"
	"github.com/epistat/roadinj/internal/scheduler/jobs"
)

var scheduleRunNow bool

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a cron schedule",
	Long: `Registers the full pipeline as a scheduled job (SCHEDULE_CRON,
default 02:00 daily) and keeps running until interrupted. Failed runs
are retried.

Example:
  SCHEDULE_CRON="0 0 2 * * *" go run ./cmd/roadinj schedule`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "run-now", false, "run the pipeline immediately on startup")
}

func runSchedule(cmd *cobra.Command, args []string) error {
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
	job := jobs.NewPipelineJob(runner, cfg, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	if scheduleRunNow {
		if err := sched.RunJob(job.Name()); err != nil {
			return err
		}
	}

	fmt.Printf("=== roadinj Scheduler ===\n\n")
	fmt.Printf("Job:      %s\n", job.Name())
	fmt.Printf("Schedule: %s\n", job.Schedule())
	fmt.Println("\nPress Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	return nil
}
