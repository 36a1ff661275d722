// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/epistat/roadinj/internal/pipeline"
	"github.com/epistat/roadinj/pkg/config"
	"github.com/epistat/roadinj/pkg/logger"
)

// PipelineJob re-runs the full aggregation + generation pipeline on a
// schedule, so the dataset tracks an updated pops.csv.
type PipelineJob struct {
	runner *pipeline.Runner
	config *config.Config
	logger *logger.Logger
}

// NewPipelineJob creates a new pipeline job
func NewPipelineJob(runner *pipeline.Runner, cfg *config.Config, log *logger.Logger) *PipelineJob {
	return &PipelineJob{
		runner: runner,
		config: cfg,
		logger: log,
	}
}

// Name returns the job name
func (j *PipelineJob) Name() string {
	return "pipeline"
}

// Schedule returns the configured cron expression
func (j *PipelineJob) Schedule() string {
	return j.config.ScheduleCron
}

// Run executes the full pipeline
func (j *PipelineJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled pipeline run")

	result, err := j.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("scheduled pipeline run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"cohorts":  result.Table.Len(),
		"duration": result.Duration,
	}).Info("Scheduled pipeline run finished")

	return nil
}
