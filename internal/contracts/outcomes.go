package contracts

import "time"

// GeneratedOutcomes carries the Stage 2 synthetic outcome vectors,
// parallel to the cohort table's rows.
// ⭐ SSOT: S2 output contract
type GeneratedOutcomes struct {
	GeneratedAt time.Time `json:"generated_at"`
	ModelPath   string    `json:"model_path"`
	P           []float64 `json:"p_synthetic"`      // reporting probability, in (0,1)
	Lambda      []float64 `json:"lambda_synthetic"` // total injuries per cohort (rate x exposure)
}

// Len returns the number of outcome rows
func (o *GeneratedOutcomes) Len() int {
	return len(o.P)
}
