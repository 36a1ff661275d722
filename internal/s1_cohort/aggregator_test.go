package s1_cohort

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epistat/roadinj/internal/contracts"
)

func TestYearWindow(t *testing.T) {
	tests := []struct {
		year      int
		wantLabel int
		wantOK    bool
	}{
		{1993, 1995, true},
		{1995, 1995, true},
		{1997, 1995, true},
		{1998, 2000, true},
		{2002, 2000, true},
		{2003, 2005, true},
		{2008, 2010, true},
		{2012, 2010, true},
		{1992, 0, false},
		{2013, 0, false},
	}

	for _, tt := range tests {
		label, ok := yearWindow(tt.year)
		assert.Equal(t, tt.wantOK, ok, "year %d", tt.year)
		if ok {
			assert.Equal(t, tt.wantLabel, label, "year %d", tt.year)
		}
	}
}

func TestRoundToHalf(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{42.3, 42.5},
		{42.2, 42.0},
		{42.25, 42.0}, // tie, rounds to even
		{42.75, 43.0}, // tie, rounds to even
		{0.25, 0.0},
		{0.75, 1.0},
		{42.0, 42.0},
		{42.5, 42.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, roundToHalf(tt.in), "roundToHalf(%v)", tt.in)
	}
}

func TestAggregate_AgeFilter(t *testing.T) {
	agg := NewAggregator(Config{MaxAge: 85, Seed: 1})

	records := []contracts.PopulationRecord{
		{Sex: "male", AgeStart: 84, AgeEnd: 88, Year: 1995, Population: 100}, // midpoint 86 > 85
		{Sex: "male", AgeStart: 80, AgeEnd: 84, Year: 1995, Population: 50},  // midpoint 82
	}

	table, report := agg.Aggregate(records)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, 82.0, table.Rows[0].Age)
	assert.Equal(t, 1, report.DroppedAge)
	for _, row := range table.Rows {
		assert.LessOrEqual(t, row.Age, 85.0)
	}
}

func TestAggregate_SexIndicator(t *testing.T) {
	agg := NewAggregator(Config{MaxAge: 85, Seed: 1})

	records := []contracts.PopulationRecord{
		{Sex: "male", AgeStart: 20, AgeEnd: 24, Year: 1995, Population: 10},
		{Sex: "female", AgeStart: 20, AgeEnd: 24, Year: 1995, Population: 20},
		{Sex: "unknown", AgeStart: 30, AgeEnd: 34, Year: 1995, Population: 30},
	}

	table, report := agg.Aggregate(records)

	require.Equal(t, 3, table.Len())

	// Unrecognized sex is coerced to female but counted
	assert.Equal(t, 1, report.UnknownSex)

	bySex := map[int]float64{}
	for _, row := range table.Rows {
		bySex[row.Sex] += row.SampleSize
	}
	assert.Equal(t, 10.0, bySex[1])
	assert.Equal(t, 50.0, bySex[0])
}

func TestAggregate_Additivity(t *testing.T) {
	agg := NewAggregator(Config{MaxAge: 85, Seed: 1})

	// Same (age, sex, yearGroup) from two different calendar years
	records := []contracts.PopulationRecord{
		{Sex: "female", AgeStart: 40, AgeEnd: 44, Year: 1994, Population: 100},
		{Sex: "female", AgeStart: 40, AgeEnd: 44, Year: 1996, Population: 50},
	}

	table, _ := agg.Aggregate(records)

	require.Equal(t, 1, table.Len())
	row := table.Rows[0]
	assert.Equal(t, 150.0, row.SampleSize)
	assert.InDelta(t, math.Log(150), row.Offset, 1e-12)
}

func TestAggregate_EndToEnd(t *testing.T) {
	agg := NewAggregator(Config{MaxAge: 85, Seed: 7})

	records := []contracts.PopulationRecord{
		{Sex: "male", AgeStart: 40, AgeEnd: 44, Year: 1996, Population: 200},
		{Sex: "male", AgeStart: 40, AgeEnd: 44, Year: 1994, Population: 300},
	}

	table, report := agg.Aggregate(records)

	require.Equal(t, 1, table.Len())
	row := table.Rows[0]
	assert.Equal(t, 42.0, row.Age)
	assert.Equal(t, 1, row.Sex)
	assert.Equal(t, 1995, row.Year)
	assert.Equal(t, 500.0, row.SampleSize)
	assert.InDelta(t, math.Log(500), row.Offset, 1e-12)
	assert.Equal(t, 1.0, row.Intercept)
	assert.GreaterOrEqual(t, row.Seatbelt, 0.0)
	assert.Less(t, row.Seatbelt, 1.0)

	assert.Equal(t, 2, report.RowsRead)
	assert.Equal(t, 1, report.Cohorts)
	assert.False(t, report.Degenerate())
}

func TestAggregate_DropUnmappedYears(t *testing.T) {
	agg := NewAggregator(Config{MaxAge: 85, Seed: 1})

	records := []contracts.PopulationRecord{
		{Sex: "male", AgeStart: 20, AgeEnd: 24, Year: 2013, Population: 100},
		{Sex: "male", AgeStart: 20, AgeEnd: 24, Year: 1990, Population: 100},
	}

	table, report := agg.Aggregate(records)

	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 2, report.DroppedYear)
	assert.True(t, report.Degenerate())
}

func TestAggregate_ZeroSampleExcluded(t *testing.T) {
	agg := NewAggregator(Config{MaxAge: 85, Seed: 1})

	records := []contracts.PopulationRecord{
		{Sex: "male", AgeStart: 20, AgeEnd: 24, Year: 1995, Population: 0},
		{Sex: "female", AgeStart: 20, AgeEnd: 24, Year: 1995, Population: 40},
	}

	table, report := agg.Aggregate(records)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, 0, table.Rows[0].Sex)
	assert.Equal(t, 1, report.ZeroSample)

	// No -Inf offsets ever reach the output
	for _, row := range table.Rows {
		assert.False(t, math.IsInf(row.Offset, -1))
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	agg := NewAggregator(DefaultConfig())

	table, report := agg.Aggregate(nil)

	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 0, report.RowsRead)
	assert.False(t, report.Degenerate())
}

func TestAggregate_SeededReproducibility(t *testing.T) {
	records := []contracts.PopulationRecord{
		{Sex: "male", AgeStart: 20, AgeEnd: 24, Year: 1995, Population: 10},
		{Sex: "female", AgeStart: 30, AgeEnd: 34, Year: 2001, Population: 20},
		{Sex: "male", AgeStart: 40, AgeEnd: 44, Year: 2006, Population: 30},
	}

	t1, _ := NewAggregator(Config{MaxAge: 85, Seed: 99}).Aggregate(records)
	t2, _ := NewAggregator(Config{MaxAge: 85, Seed: 99}).Aggregate(records)

	require.Equal(t, t1.Len(), t2.Len())
	for i := range t1.Rows {
		assert.Equal(t, t1.Rows[i], t2.Rows[i])
	}
}
