package s2_synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epistat/roadinj/internal/contracts"
)

func testTable(seatbelts ...float64) *contracts.CohortTable {
	table := &contracts.CohortTable{}
	for i, s := range seatbelts {
		table.Rows = append(table.Rows, contracts.CohortRow{
			Age:        40 + float64(i),
			Sex:        i % 2,
			Year:       1995,
			SampleSize: 100,
			Seatbelt:   s,
			Offset:     4.6051701859880913680, // ln(100)
			Intercept:  1,
		})
	}
	return table
}

func TestExpit(t *testing.T) {
	assert.InDelta(t, 0.5, expit(0), 1e-12)
	assert.InDelta(t, 0.0, expit(-20), 1e-8)
	assert.InDelta(t, 1.0, expit(20), 1e-8)

	// expit and logit are inverses
	for _, p := range []float64{0.01, 0.25, 0.5, 0.9, 0.99} {
		assert.InDelta(t, p, expit(logit(p)), 1e-12)
	}
}

func TestProbabilityGenerator_Bounds(t *testing.T) {
	gen := NewProbabilityGenerator(nil)

	table := testTable(0, 0.1, 0.25, 0.5, 0.75, 0.999)
	p, err := gen.Generate(table)
	require.NoError(t, err)
	require.Len(t, p, table.Len())

	for i, v := range p {
		assert.Greater(t, v, 0.0, "row %d", i)
		assert.Less(t, v, 1.0, "row %d", i)
	}
}

func TestProbabilityGenerator_MonotoneInSeatbelt(t *testing.T) {
	gen := NewProbabilityGenerator(nil)

	table := testTable(0.1, 0.3, 0.5, 0.7, 0.9)
	p, err := gen.Generate(table)
	require.NoError(t, err)

	// With zero noise, higher seatbelt use means lower p
	for i := 1; i < len(p); i++ {
		assert.Less(t, p[i], p[i-1])
	}
}

func TestProbabilityGenerator_KnownValue(t *testing.T) {
	gen := NewProbabilityGenerator(nil)

	// seatbelt = 1 gives f = -1, p = expit(-1)
	p, err := gen.Generate(testTable(1))
	require.NoError(t, err)
	assert.InDelta(t, expit(-1), p[0], 1e-15)

	// seatbelt = 0 gives f = 2, p = expit(2)
	p, err = gen.Generate(testTable(0))
	require.NoError(t, err)
	assert.InDelta(t, expit(2), p[0], 1e-15)
}

func TestProbabilityGenerator_Deterministic(t *testing.T) {
	table := testTable(0.12, 0.42, 0.77)

	p1, err := NewProbabilityGenerator(ZeroNoise).Generate(table)
	require.NoError(t, err)
	p2, err := NewProbabilityGenerator(ZeroNoise).Generate(table)
	require.NoError(t, err)

	// Bit-for-bit reproducible with zero noise
	assert.Equal(t, p1, p2)
}

func TestProbabilityGenerator_BatchNoise(t *testing.T) {
	calls := 0
	noise := func(n int) []float64 {
		calls++
		return make([]float64, n)
	}

	_, err := NewProbabilityGenerator(noise).Generate(testTable(0.1, 0.2, 0.3))
	require.NoError(t, err)

	// One draw per batch, not per row
	assert.Equal(t, 1, calls)
}

func TestProbabilityGenerator_WithNoiseStaysBounded(t *testing.T) {
	gen := NewProbabilityGenerator(GaussianNoise(2.0, 123))

	table := testTable(0, 0.2, 0.4, 0.6, 0.8, 0.99)
	p, err := gen.Generate(table)
	require.NoError(t, err)

	for _, v := range p {
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestGaussianNoise_Seeded(t *testing.T) {
	n1 := GaussianNoise(1, 42)(5)
	n2 := GaussianNoise(1, 42)(5)
	assert.Equal(t, n1, n2)

	n3 := GaussianNoise(1, 43)(5)
	assert.NotEqual(t, n1, n3)
}

func TestZeroNoise(t *testing.T) {
	out := ZeroNoise(4)
	assert.Equal(t, []float64{0, 0, 0, 0}, out)
}
