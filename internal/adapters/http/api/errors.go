package api

import (
	"errors"
	"net/http"

	"github.com/okian/sage/internal/adapters/csvsource"
	"github.com/okian/sage/internal/adapters/repository"
	"github.com/okian/sage/internal/domain/ingest"
	"github.com/okian/sage/internal/domain/predict"
	"github.com/okian/sage/internal/domain/stats"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// translateError maps domain errors onto an HTTP status and error code.
// Unknown errors are reported as internal.
func translateError(err error) (int, string) {
	switch {
	case errors.Is(err, stats.ErrStudentNotFound):
		return http.StatusNotFound, "student_not_found"
	case errors.Is(err, repository.ErrNoData):
		return http.StatusServiceUnavailable, "no_dataset"
	case errors.Is(err, predict.ErrInsufficientData):
		return http.StatusUnprocessableEntity, "insufficient_data"
	case errors.Is(err, ingest.ErrDataQuality):
		return http.StatusUnprocessableEntity, "data_quality"
	case errors.Is(err, ingest.ErrSchema), errors.Is(err, csvsource.ErrNoHeader), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeDomainError translates and writes a domain error in one step.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := translateError(err)
	writeError(w, status, code, err)
}
