// Package handlers implements the read-only API over the generated
// dataset.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/epistat/roadinj/internal/data/repos"
	"github.com/epistat/roadinj/pkg/logger"
)

// DataHandler serves cohorts, outcomes and aggregation reports
type DataHandler struct {
	repo   *repos.CohortRepository
	logger *logger.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(repo *repos.CohortRepository, log *logger.Logger) *DataHandler {
	return &DataHandler{
		repo:   repo,
		logger: log,
	}
}

// GetCohorts returns stored cohorts, optionally filtered by ?year=
// GET /api/cohorts
func (h *DataHandler) GetCohorts(w http.ResponseWriter, r *http.Request) {
	year := 0
	if q := r.URL.Query().Get("year"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			respondError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		year = v
	}

	table, err := h.repo.ListCohorts(r.Context(), year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list cohorts")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve cohorts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   table.Len(),
		"cohorts": table.Rows,
	})
}

// GetOutcomes returns the stored synthetic outcomes
// GET /api/outcomes
func (h *DataHandler) GetOutcomes(w http.ResponseWriter, r *http.Request) {
	outcomes, err := h.repo.ListOutcomes(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list outcomes")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve outcomes")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(outcomes),
		"outcomes": outcomes,
	})
}

// GetReport returns the latest aggregation report
// GET /api/report
func (h *DataHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.repo.LatestReport(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest report")
		respondError(w, http.StatusNotFound, "No aggregation report available")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
