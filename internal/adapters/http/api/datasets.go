// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/sage/internal/adapters/csvsource"
)

// DatasetsHandler handles dataset upload requests.
type DatasetsHandler struct {
	deps Dependencies
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(deps Dependencies) *DatasetsHandler {
	return &DatasetsHandler{deps: deps}
}

// HandlePostDataset handles POST /datasets requests. The body is a CSV
// document in either the wide or the long layout; on success the parsed
// rows replace the active snapshot and the load report is returned.
func (h *DatasetsHandler) HandlePostDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	defer func() { _ = r.Body.Close() }()

	rows, err := csvsource.Read(r.Body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	info, err := h.deps.LoadDataset(r.Context(), rows)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}
