// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strings"
)

// Student sub-resources.
const (
	actionSummary  = "summary"
	actionForecast = "forecast"
	actionRisk     = "risk"
	actionProfile  = "profile"
)

// StudentsHandler handles per-student query requests.
type StudentsHandler struct {
	deps Dependencies
}

// NewStudentsHandler creates a new students handler.
func NewStudentsHandler(deps Dependencies) *StudentsHandler {
	return &StudentsHandler{deps: deps}
}

// HandleStudent handles GET /students/{id}/{summary|forecast|risk|profile}.
// A bare /students/{id} answers the summary.
func (h *StudentsHandler) HandleStudent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	studentID, action, err := parseStudentPath(r.URL.Path)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ctx := r.Context()
	var v any
	switch action {
	case actionSummary:
		v, err = h.deps.StudentSummary(ctx, studentID)
	case actionForecast:
		v, err = h.deps.StudentForecast(ctx, studentID)
	case actionRisk:
		v, err = h.deps.StudentRisk(ctx, studentID)
	case actionProfile:
		v, err = h.deps.StudentProfile(ctx, studentID)
	default:
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: unknown student resource %q", ErrBadRequest, action))
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// parseStudentPath splits /students/{id}[/{action}] into its parts.
func parseStudentPath(path string) (studentID, action string, err error) {
	rest := strings.TrimPrefix(path, "/students/")
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", "", fmt.Errorf("%w: missing student id", ErrBadRequest)
	}
	parts := strings.SplitN(rest, "/", 2)
	studentID = parts[0]
	action = actionSummary
	if len(parts) == 2 && parts[1] != "" {
		action = parts[1]
	}
	return studentID, action, nil
}
