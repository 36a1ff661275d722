// Package ratemodel loads the fitted injury-rate model artifact that
// an external training process produces. The artifact is a pair:
// the model specification (which covariates the linear predictor
// uses) and the fitted coefficients.
package ratemodel

import (
	"encoding/json"
	"fmt"
	"os"
)

// Spec describes the fitted model's covariate structure
type Spec struct {
	Covariates []string `json:"covariates"`
}

// Model is the loaded artifact: specification plus fitted coefficients.
// Treated as immutable, versionless input; nothing here refits it.
type Model struct {
	Spec  Spec      `json:"model"`
	Coefs []float64 `json:"coefs"`
}

// LoadFile reads and validates a model artifact.
// A missing, corrupt or inconsistent artifact is a fatal load error:
// it propagates to the caller, never retried or defaulted.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}

	return &m, nil
}

// Validate checks the artifact's internal consistency
func (m *Model) Validate() error {
	if len(m.Spec.Covariates) == 0 {
		return fmt.Errorf("model has no covariates")
	}
	if len(m.Coefs) != len(m.Spec.Covariates) {
		return fmt.Errorf("coefficient count %d does not match covariate count %d",
			len(m.Coefs), len(m.Spec.Covariates))
	}
	return nil
}

// LinearPredictor computes x . coefs for one design-matrix row.
// The row must be in covariate order.
func (m *Model) LinearPredictor(row []float64) float64 {
	var sum float64
	for i, c := range m.Coefs {
		sum += c * row[i]
	}
	return sum
}
