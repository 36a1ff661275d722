// Package repos persists pipeline artifacts to Postgres.
package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epistat/roadinj/internal/contracts"
)

// CohortRepository handles persistence of cohorts, aggregation
// reports and generated outcomes
type CohortRepository struct {
	db *pgxpool.Pool
}

// NewCohortRepository creates a new CohortRepository
func NewCohortRepository(db *pgxpool.Pool) *CohortRepository {
	return &CohortRepository{db: db}
}

// Pool returns the underlying database pool
func (r *CohortRepository) Pool() *pgxpool.Pool {
	return r.db
}

// EnsureSchema creates the roadinj schema and tables if absent
func (r *CohortRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS roadinj`,
		`CREATE TABLE IF NOT EXISTS roadinj.cohorts (
			age           DOUBLE PRECISION NOT NULL,
			sex           SMALLINT NOT NULL,
			year          INTEGER NOT NULL,
			sample_size   DOUBLE PRECISION NOT NULL,
			seatbelt_use  DOUBLE PRECISION NOT NULL,
			"offset"      DOUBLE PRECISION NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (age, sex, year)
		)`,
		`CREATE TABLE IF NOT EXISTS roadinj.aggregation_reports (
			id            BIGSERIAL PRIMARY KEY,
			run_at        TIMESTAMPTZ NOT NULL,
			rows_read     INTEGER NOT NULL,
			dropped_age   INTEGER NOT NULL,
			dropped_year  INTEGER NOT NULL,
			unknown_sex   INTEGER NOT NULL,
			zero_sample   INTEGER NOT NULL,
			cohorts       INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS roadinj.outcomes (
			age           DOUBLE PRECISION NOT NULL,
			sex           SMALLINT NOT NULL,
			year          INTEGER NOT NULL,
			p_synthetic   DOUBLE PRECISION NOT NULL,
			lambda_synthetic DOUBLE PRECISION NOT NULL,
			model_path    TEXT NOT NULL,
			generated_at  TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (age, sex, year)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveCohorts upserts the full cohort table
func (r *CohortRepository) SaveCohorts(ctx context.Context, table *contracts.CohortTable) error {
	query := `
		INSERT INTO roadinj.cohorts (age, sex, year, sample_size, seatbelt_use, "offset", updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (age, sex, year) DO UPDATE SET
			sample_size = EXCLUDED.sample_size,
			seatbelt_use = EXCLUDED.seatbelt_use,
			"offset" = EXCLUDED."offset",
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, row := range table.Rows {
		batch.Queue(query, row.Age, row.Sex, row.Year, row.SampleSize, row.Seatbelt, row.Offset)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range table.Rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert cohort: %w", err)
		}
	}
	return nil
}

// SaveReport stores an aggregation report
func (r *CohortRepository) SaveReport(ctx context.Context, report *contracts.AggregationReport) error {
	query := `
		INSERT INTO roadinj.aggregation_reports
			(run_at, rows_read, dropped_age, dropped_year, unknown_sex, zero_sample, cohorts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		report.RunAt,
		report.RowsRead,
		report.DroppedAge,
		report.DroppedYear,
		report.UnknownSex,
		report.ZeroSample,
		report.Cohorts,
	)
	if err != nil {
		return fmt.Errorf("insert aggregation report: %w", err)
	}
	return nil
}

// SaveOutcomes upserts the generated outcome columns, keyed like the
// cohorts they belong to
func (r *CohortRepository) SaveOutcomes(ctx context.Context, table *contracts.CohortTable, outcomes *contracts.GeneratedOutcomes) error {
	if outcomes.Len() != table.Len() {
		return fmt.Errorf("outcomes have %d rows for %d cohorts", outcomes.Len(), table.Len())
	}

	query := `
		INSERT INTO roadinj.outcomes
			(age, sex, year, p_synthetic, lambda_synthetic, model_path, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (age, sex, year) DO UPDATE SET
			p_synthetic = EXCLUDED.p_synthetic,
			lambda_synthetic = EXCLUDED.lambda_synthetic,
			model_path = EXCLUDED.model_path,
			generated_at = EXCLUDED.generated_at
	`

	batch := &pgx.Batch{}
	for i, row := range table.Rows {
		batch.Queue(query,
			row.Age, row.Sex, row.Year,
			outcomes.P[i], outcomes.Lambda[i],
			outcomes.ModelPath, outcomes.GeneratedAt,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range table.Rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert outcome: %w", err)
		}
	}
	return nil
}

// ListCohorts returns stored cohorts, optionally filtered by year
// group (0 means all), ordered by (year, sex, age)
func (r *CohortRepository) ListCohorts(ctx context.Context, year int) (*contracts.CohortTable, error) {
	query := `
		SELECT age, sex, year, sample_size, seatbelt_use, "offset"
		FROM roadinj.cohorts
		WHERE ($1 = 0 OR year = $1)
		ORDER BY year, sex, age
	`

	rows, err := r.db.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query cohorts: %w", err)
	}
	defer rows.Close()

	table := &contracts.CohortTable{}
	for rows.Next() {
		var row contracts.CohortRow
		if err := rows.Scan(&row.Age, &row.Sex, &row.Year, &row.SampleSize, &row.Seatbelt, &row.Offset); err != nil {
			return nil, fmt.Errorf("scan cohort: %w", err)
		}
		row.Intercept = 1
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cohorts: %w", err)
	}

	return table, nil
}

// OutcomeRow is one stored outcome joined to its cohort key
type OutcomeRow struct {
	Age         float64   `json:"age"`
	Sex         int       `json:"sex"`
	Year        int       `json:"year"`
	P           float64   `json:"p_synthetic"`
	Lambda      float64   `json:"lambda_synthetic"`
	ModelPath   string    `json:"model_path"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ListOutcomes returns stored outcomes ordered by (year, sex, age)
func (r *CohortRepository) ListOutcomes(ctx context.Context) ([]OutcomeRow, error) {
	query := `
		SELECT age, sex, year, p_synthetic, lambda_synthetic, model_path, generated_at
		FROM roadinj.outcomes
		ORDER BY year, sex, age
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeRow
	for rows.Next() {
		var row OutcomeRow
		if err := rows.Scan(&row.Age, &row.Sex, &row.Year, &row.P, &row.Lambda, &row.ModelPath, &row.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}

	return out, nil
}

// LatestReport returns the most recent aggregation report
func (r *CohortRepository) LatestReport(ctx context.Context) (*contracts.AggregationReport, error) {
	query := `
		SELECT run_at, rows_read, dropped_age, dropped_year, unknown_sex, zero_sample, cohorts
		FROM roadinj.aggregation_reports
		ORDER BY run_at DESC
		LIMIT 1
	`

	report := &contracts.AggregationReport{}
	err := r.db.QueryRow(ctx, query).Scan(
		&report.RunAt,
		&report.RowsRead,
		&report.DroppedAge,
		&report.DroppedYear,
		&report.UnknownSex,
		&report.ZeroSample,
		&report.Cohorts,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no aggregation reports stored")
		}
		return nil, fmt.Errorf("query latest report: %w", err)
	}

	return report, nil
}
