// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// SubjectsHandler handles subject-level query requests.
type SubjectsHandler struct {
	deps Dependencies
}

// NewSubjectsHandler creates a new subjects handler.
func NewSubjectsHandler(deps Dependencies) *SubjectsHandler {
	return &SubjectsHandler{deps: deps}
}

// HandleGetAnalysis handles GET /subjects/analysis requests.
func (h *SubjectsHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	analysis, err := h.deps.SubjectAnalysis(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
