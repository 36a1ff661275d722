package s2_synth

import (
	"fmt"
	"math"

	"github.com/epistat/roadinj/internal/contracts"
)

// ProbabilityGenerator produces the synthetic reporting probability
// p = expit(-3*(seatbelt - 1) - 1 + noise) for each cohort row.
type ProbabilityGenerator struct {
	noise NoiseFunc
}

// NewProbabilityGenerator creates a generator with the given noise
// strategy; nil means zero noise.
func NewProbabilityGenerator(noise NoiseFunc) *ProbabilityGenerator {
	return &ProbabilityGenerator{noise: orZero(noise)}
}

// Generate evaluates the probability for every row of the table.
// Requires the seatbeltUse_synthetic column; output lies in (0,1)
// and is decreasing in seatbelt use when noise is zero.
func (g *ProbabilityGenerator) Generate(table *contracts.CohortTable) ([]float64, error) {
	seatbelt, err := table.Column(contracts.ColSeatbelt)
	if err != nil {
		return nil, fmt.Errorf("probability generator: %w", err)
	}

	// One noise draw for the whole batch
	noise := g.noise(len(seatbelt))
	if len(noise) != len(seatbelt) {
		return nil, fmt.Errorf("noise returned %d values for %d rows", len(noise), len(seatbelt))
	}

	out := make([]float64, len(seatbelt))
	for i, s := range seatbelt {
		out[i] = expit(-3*(s-1) - 1 + noise[i])
	}
	return out, nil
}

// expit is the standard logistic transform exp(x)/(1+exp(x))
func expit(x float64) float64 {
	return math.Exp(x) / (1 + math.Exp(x))
}

// logit is the inverse transform ln(p/(1-p))
func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}
