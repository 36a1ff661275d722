package s1_cohort

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/epistat/roadinj/internal/contracts"
)

// Aggregator turns raw per-year population records into cohort rows
type Aggregator struct {
	config Config
	rng    *rand.Rand
}

// Config holds aggregation settings
type Config struct {
	MaxAge float64 // records with midpoint age above this are dropped
	Seed   int64   // RNG seed for the synthetic seatbelt column; 0 means time-seeded
}

// DefaultConfig returns the reference dataset settings
func DefaultConfig() Config {
	return Config{MaxAge: 85}
}

// NewAggregator creates a new Aggregator
func NewAggregator(config Config) *Aggregator {
	var rng *rand.Rand
	if config.Seed != 0 {
		rng = rand.New(rand.NewSource(config.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Aggregator{
		config: config,
		rng:    rng,
	}
}

// groupKey identifies one (age, sex, year-group) cohort.
// Age is stored doubled so the key stays integral on the 0.5 grid.
type groupKey struct {
	age2 int
	sex  int
	year int
}

// Aggregate builds the cohort table from raw records
// ⭐ SSOT: S0 → S1 cohort aggregation
func (a *Aggregator) Aggregate(records []contracts.PopulationRecord) (*contracts.CohortTable, *contracts.AggregationReport) {
	report := &contracts.AggregationReport{
		RunAt:    time.Now(),
		RowsRead: len(records),
	}

	sums := make(map[groupKey]float64)

	for i := range records {
		rec := &records[i]

		sex := 0
		if rec.Sex == "male" {
			sex = 1
		} else if rec.Sex != "female" {
			// Anything unrecognized is coerced to female. Kept for
			// output parity with the reference dataset; counted so
			// callers can see it happening.
			report.UnknownSex++
		}

		age := rec.MidpointAge()
		if age > a.config.MaxAge {
			report.DroppedAge++
			continue
		}
		age = roundToHalf(age)

		year, ok := yearWindow(rec.Year)
		if !ok {
			report.DroppedYear++
			continue
		}

		key := groupKey{age2: int(math.Round(age * 2)), sex: sex, year: year}
		sums[key] += rec.Population
	}

	keys := make([]groupKey, 0, len(sums))
	for key := range sums {
		keys = append(keys, key)
	}
	// Deterministic output order: (year, sex, age)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		if keys[i].sex != keys[j].sex {
			return keys[i].sex < keys[j].sex
		}
		return keys[i].age2 < keys[j].age2
	})

	table := &contracts.CohortTable{Rows: make([]contracts.CohortRow, 0, len(keys))}
	for _, key := range keys {
		sampleSize := sums[key]
		if sampleSize <= 0 {
			// A cohort with no observed population has no usable
			// offset (ln 0); exclude it rather than emit -Inf.
			report.ZeroSample++
			continue
		}

		table.Rows = append(table.Rows, contracts.CohortRow{
			Age:        float64(key.age2) / 2,
			Sex:        key.sex,
			Year:       key.year,
			SampleSize: sampleSize,
			Seatbelt:   a.rng.Float64(),
			Offset:     math.Log(sampleSize),
			Intercept:  1,
		})
	}

	report.Cohorts = table.Len()
	return table, report
}

// roundToHalf rounds an age to the nearest 0.5, ties to even
// (42.25 -> 42.0, 42.75 -> 43.0), matching the reference dataset's
// numeric convention.
func roundToHalf(age float64) float64 {
	return math.RoundToEven(age*2) / 2
}
