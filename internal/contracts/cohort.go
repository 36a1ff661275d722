package contracts

import "fmt"

// Column names of the cohort dataset, in output order.
// These match the downstream modeling conventions exactly, including
// the design-matrix style "(Intercept)" name.
const (
	ColAge        = "age"
	ColSex        = "sex"
	ColYear       = "year"
	ColSampleSize = "sample_size"
	ColSeatbelt   = "seatbeltUse_synthetic"
	ColOffset     = "offset"
	ColIntercept  = "(Intercept)"
)

// Columns lists the cohort dataset columns in output order
var Columns = []string{
	ColAge, ColSex, ColYear, ColSampleSize, ColSeatbelt, ColOffset, ColIntercept,
}

// CohortRow is one aggregated (age, sex, year-group) cohort
// ⭐ SSOT: S1 → S2 cohort data contract
type CohortRow struct {
	Age        float64 `json:"age"`  // midpoint age on a 0.5 grid, <= 85
	Sex        int     `json:"sex"`  // 1 = male, 0 = female
	Year       int     `json:"year"` // 5-year window midpoint label
	SampleSize float64 `json:"sample_size"`
	Seatbelt   float64 `json:"seatbeltUse_synthetic"` // uniform [0,1) synthetic predictor
	Offset     float64 `json:"offset"`                // ln(SampleSize)
	Intercept  float64 `json:"(Intercept)"`           // always 1
}

// Value returns the row's value for a named column
func (r *CohortRow) Value(col string) (float64, error) {
	switch col {
	case ColAge:
		return r.Age, nil
	case ColSex:
		return float64(r.Sex), nil
	case ColYear:
		return float64(r.Year), nil
	case ColSampleSize:
		return r.SampleSize, nil
	case ColSeatbelt:
		return r.Seatbelt, nil
	case ColOffset:
		return r.Offset, nil
	case ColIntercept:
		return r.Intercept, nil
	default:
		return 0, fmt.Errorf("unknown column %q", col)
	}
}

// CohortTable is the ordered cohort dataset produced by Stage 1
type CohortTable struct {
	Rows []CohortRow `json:"rows"`
}

// Len returns the number of cohort rows
func (t *CohortTable) Len() int {
	return len(t.Rows)
}

// Column extracts a named column as a vector in row order.
// An unknown column name is a schema error and is fatal to the caller.
func (t *CohortTable) Column(name string) ([]float64, error) {
	out := make([]float64, len(t.Rows))
	for i := range t.Rows {
		v, err := t.Rows[i].Value(name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
