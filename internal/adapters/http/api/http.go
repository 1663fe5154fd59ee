// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/sage/internal/domain/ingest"
	"github.com/okian/sage/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// LoadDataset normalizes raw rows and activates them as the new
	// snapshot.
	LoadDataset(ctx context.Context, rows []ingest.RawRow) (types.DatasetInfo, error)

	// Per-student queries.
	StudentSummary(ctx context.Context, studentID string) (types.StudentSummary, error)
	StudentForecast(ctx context.Context, studentID string) (types.Forecast, error)
	StudentRisk(ctx context.Context, studentID string) (types.RiskAssessment, error)
	StudentProfile(ctx context.Context, studentID string) (types.Profile, error)

	// Cohort queries.
	CohortTrends(ctx context.Context) ([]types.TrendPoint, error)
	CohortCorrelations(ctx context.Context) (types.CorrelationReport, error)
	SubjectAnalysis(ctx context.Context) (types.SubjectAnalysis, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	datasetsHandler *DatasetsHandler
	studentsHandler *StudentsHandler
	cohortHandler   *CohortHandler
	subjectsHandler *SubjectsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		datasetsHandler: NewDatasetsHandler(deps),
		studentsHandler: NewStudentsHandler(deps),
		cohortHandler:   NewCohortHandler(deps),
		subjectsHandler: NewSubjectsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/datasets", MetricsMiddleware(s.datasetsHandler.HandlePostDataset, "datasets"))
	mux.HandleFunc("/cohort/trends", MetricsMiddleware(s.cohortHandler.HandleGetTrends, "cohort_trends"))
	mux.HandleFunc("/cohort/correlations", MetricsMiddleware(s.cohortHandler.HandleGetCorrelations, "cohort_correlations"))
	mux.HandleFunc("/subjects/analysis", MetricsMiddleware(s.subjectsHandler.HandleGetAnalysis, "subject_analysis"))
	mux.HandleFunc("/students/", MetricsMiddleware(s.studentsHandler.HandleStudent, "students"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
