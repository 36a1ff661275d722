// Package pipeline coordinates the two batch stages end to end.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/epistat/roadinj/internal/contracts"
	"github.com/epistat/roadinj/internal/data/repos"
	"github.com/epistat/roadinj/internal/popio"
	"github.com/epistat/roadinj/internal/ratemodel"
	"github.com/epistat/roadinj/internal/s1_cohort"
	"github.com/epistat/roadinj/internal/s2_synth"
	"github.com/epistat/roadinj/pkg/config"
	"github.com/epistat/roadinj/pkg/logger"
)

// Runner coordinates aggregation, outcome generation, file output and
// optional persistence
// ⭐ SSOT: pipeline sequencing happens only here
type Runner struct {
	config *config.Config
	logger *logger.Logger

	// Optional; nil when no database is configured
	repo *repos.CohortRepository
}

// RunResult holds the artifacts of a complete pipeline run
type RunResult struct {
	Table    *contracts.CohortTable
	Report   *contracts.AggregationReport
	Outcomes *contracts.GeneratedOutcomes
	Duration time.Duration
}

// NewRunner creates a new pipeline Runner
func NewRunner(cfg *config.Config, log *logger.Logger, repo *repos.CohortRepository) *Runner {
	return &Runner{
		config: cfg,
		logger: log,
		repo:   repo,
	}
}

// Aggregate runs Stage 1: read pops.csv, build the cohort table,
// write roadInj_data.csv, and persist when a repository is present.
func (r *Runner) Aggregate(ctx context.Context) (*contracts.CohortTable, *contracts.AggregationReport, error) {
	records, err := popio.ReadPopulations(r.config.Pipeline.PopsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("stage 1: %w", err)
	}

	agg := s1_cohort.NewAggregator(s1_cohort.Config{
		MaxAge: 85,
		Seed:   r.config.Pipeline.Seed,
	})
	table, report := agg.Aggregate(records)

	r.logReport(report)

	if err := popio.WriteCohorts(r.config.Pipeline.OutputPath, table); err != nil {
		return nil, nil, fmt.Errorf("stage 1: %w", err)
	}

	if r.repo != nil {
		if err := r.repo.SaveCohorts(ctx, table); err != nil {
			return nil, nil, fmt.Errorf("stage 1: %w", err)
		}
		if err := r.repo.SaveReport(ctx, report); err != nil {
			return nil, nil, fmt.Errorf("stage 1: %w", err)
		}
	}

	return table, report, nil
}

// Generate runs Stage 2 on an already-aggregated table: load the
// fitted model, evaluate both generators, and persist when possible.
func (r *Runner) Generate(ctx context.Context, table *contracts.CohortTable) (*contracts.GeneratedOutcomes, error) {
	model, err := ratemodel.LoadFile(r.config.Pipeline.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("stage 2: %w", err)
	}

	noise := r.noise()

	pGen := s2_synth.NewProbabilityGenerator(noise)
	p, err := pGen.Generate(table)
	if err != nil {
		return nil, fmt.Errorf("stage 2: %w", err)
	}

	lamGen, err := s2_synth.NewRateGenerator(model, noise)
	if err != nil {
		return nil, fmt.Errorf("stage 2: %w", err)
	}
	lambda, err := lamGen.Generate(table)
	if err != nil {
		return nil, fmt.Errorf("stage 2: %w", err)
	}

	outcomes := &contracts.GeneratedOutcomes{
		GeneratedAt: time.Now(),
		ModelPath:   r.config.Pipeline.ModelPath,
		P:           p,
		Lambda:      lambda,
	}

	if r.repo != nil {
		if err := r.repo.SaveOutcomes(ctx, table, outcomes); err != nil {
			return nil, fmt.Errorf("stage 2: %w", err)
		}
	}

	return outcomes, nil
}

// Run executes both stages and writes the combined dataset
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()

	table, report, err := r.Aggregate(ctx)
	if err != nil {
		return nil, err
	}

	outcomes, err := r.Generate(ctx, table)
	if err != nil {
		return nil, err
	}

	if err := popio.WriteDataset(r.config.Pipeline.OutputPath, table, outcomes); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}

	result := &RunResult{
		Table:    table,
		Report:   report,
		Outcomes: outcomes,
		Duration: time.Since(start),
	}

	r.logger.WithFields(map[string]interface{}{
		"cohorts":  table.Len(),
		"duration": result.Duration,
	}).Info("Pipeline run complete")

	return result, nil
}

// noise returns the configured noise strategy; zero SD means the
// deterministic default.
func (r *Runner) noise() s2_synth.NoiseFunc {
	if r.config.Pipeline.NoiseSD > 0 {
		return s2_synth.GaussianNoise(r.config.Pipeline.NoiseSD, r.config.Pipeline.Seed)
	}
	return s2_synth.ZeroNoise
}

func (r *Runner) logReport(report *contracts.AggregationReport) {
	log := r.logger.WithFields(map[string]interface{}{
		"rows_read":    report.RowsRead,
		"dropped_age":  report.DroppedAge,
		"dropped_year": report.DroppedYear,
		"cohorts":      report.Cohorts,
	})
	log.Info("Aggregation finished")

	if report.UnknownSex > 0 {
		r.logger.WithField("rows", report.UnknownSex).
			Warn("Unrecognized sex values coerced to female")
	}
	if report.ZeroSample > 0 {
		r.logger.WithField("groups", report.ZeroSample).
			Warn("Zero-population cohorts excluded from output")
	}
	if report.Degenerate() {
		r.logger.Warn("No cohorts survived filtering; output table is empty")
	}
}
