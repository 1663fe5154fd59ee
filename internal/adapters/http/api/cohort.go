// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// CohortHandler handles cohort-level query requests.
type CohortHandler struct {
	deps Dependencies
}

// NewCohortHandler creates a new cohort handler.
func NewCohortHandler(deps Dependencies) *CohortHandler {
	return &CohortHandler{deps: deps}
}

// HandleGetTrends handles GET /cohort/trends requests.
func (h *CohortHandler) HandleGetTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	trends, err := h.deps.CohortTrends(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trends": trends})
}

// HandleGetCorrelations handles GET /cohort/correlations requests.
func (h *CohortHandler) HandleGetCorrelations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.CohortCorrelations(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
