package s2_synth

import (
	"fmt"
	"math"

	"github.com/epistat/roadinj/internal/contracts"
	"github.com/epistat/roadinj/internal/ratemodel"
)

// RateGenerator produces the synthetic injury count per cohort:
// exp(X.coefs + noise) * sample_size. Note the units: this is a rate
// times exposure, total injuries per cohort, not injuries per person.
//
// The fitted model is injected at construction; loading the artifact
// is the caller's concern, which keeps the I/O boundary explicit.
type RateGenerator struct {
	model *ratemodel.Model
	noise NoiseFunc
}

// NewRateGenerator creates a generator from a loaded model and a noise
// strategy; nil noise means zero noise.
func NewRateGenerator(model *ratemodel.Model, noise NoiseFunc) (*RateGenerator, error) {
	if model == nil {
		return nil, fmt.Errorf("rate generator requires a model")
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("rate generator: %w", err)
	}

	return &RateGenerator{model: model, noise: orZero(noise)}, nil
}

// Generate evaluates the synthetic injury count for every row.
// The table must provide every covariate the model names (the
// reference model uses age, sex and (Intercept)); a missing column is
// a fatal schema error. Output is strictly positive and parallel to
// the input rows.
func (g *RateGenerator) Generate(table *contracts.CohortTable) ([]float64, error) {
	design, err := g.designMatrix(table)
	if err != nil {
		return nil, err
	}

	sampleSize, err := table.Column(contracts.ColSampleSize)
	if err != nil {
		return nil, fmt.Errorf("rate generator: %w", err)
	}

	n := table.Len()
	noise := g.noise(n)
	if len(noise) != n {
		return nil, fmt.Errorf("noise returned %d values for %d rows", len(noise), n)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		logLam := g.model.LinearPredictor(design[i])
		out[i] = math.Exp(logLam+noise[i]) * sampleSize[i]
	}
	return out, nil
}

// designMatrix builds the covariate matrix, one row per cohort, with
// columns in the model's covariate order.
func (g *RateGenerator) designMatrix(table *contracts.CohortTable) ([][]float64, error) {
	covs := g.model.Spec.Covariates

	cols := make([][]float64, len(covs))
	for j, name := range covs {
		col, err := table.Column(name)
		if err != nil {
			return nil, fmt.Errorf("design matrix: %w", err)
		}
		cols[j] = col
	}

	design := make([][]float64, table.Len())
	for i := range design {
		row := make([]float64, len(covs))
		for j := range covs {
			row[j] = cols[j][i]
		}
		design[i] = row
	}
	return design, nil
}
