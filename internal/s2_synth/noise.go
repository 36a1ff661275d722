package s2_synth

import (
	"math/rand"
	"time"
)

// NoiseFunc draws one batch of noise: a vector of n values.
// Generators call it once per batch, not once per row.
type NoiseFunc func(n int) []float64

// ZeroNoise returns an all-zero vector; the deterministic default.
func ZeroNoise(n int) []float64 {
	return make([]float64, n)
}

// GaussianNoise returns a NoiseFunc drawing N(0, sd) values from a
// seeded source. Seed 0 means time-seeded.
func GaussianNoise(sd float64, seed int64) NoiseFunc {
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = rng.NormFloat64() * sd
		}
		return out
	}
}

// orZero substitutes the zero-noise default for a nil strategy
func orZero(noise NoiseFunc) NoiseFunc {
	if noise == nil {
		return ZeroNoise
	}
	return noise
}
