package contracts

import "time"

// AggregationReport summarizes what Stage 1 kept and dropped
// ⭐ SSOT: S1 data-quality accounting
type AggregationReport struct {
	RunAt       time.Time `json:"run_at"`
	RowsRead    int       `json:"rows_read"`
	DroppedAge  int       `json:"dropped_age"`  // midpoint age > 85
	DroppedYear int       `json:"dropped_year"` // year outside every window
	UnknownSex  int       `json:"unknown_sex"`  // coerced to female
	ZeroSample  int       `json:"zero_sample"`  // groups excluded for sample_size <= 0
	Cohorts     int       `json:"cohorts"`
}

// Degenerate reports whether aggregation produced no cohorts at all
func (r *AggregationReport) Degenerate() bool {
	return r.RowsRead > 0 && r.Cohorts == 0
}

// KeptRate returns the fraction of input rows that survived filtering
func (r *AggregationReport) KeptRate() float64 {
	if r.RowsRead == 0 {
		return 0
	}
	kept := r.RowsRead - r.DroppedAge - r.DroppedYear
	return float64(kept) / float64(r.RowsRead)
}
