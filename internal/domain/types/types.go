// Package types contains the query result shapes shared between the
// service and the HTTP layer.
package types

// HistoryPoint is one period of a student's blended history.
type HistoryPoint struct {
	PeriodLabel  string  `json:"period_label"`
	PeriodIndex  int     `json:"period_index"`
	AverageScore float64 `json:"average_score"`
}

// StudentSummary answers the student summary query.
type StudentSummary struct {
	StudentID      string         `json:"student_id"`
	OverallAverage float64        `json:"overall_average"`
	TotalPeriods   int            `json:"total_periods"`
	History        []HistoryPoint `json:"history"`
	Insights       []string       `json:"insights"`
}

// TrendPoint is one (subject, period) cohort average.
type TrendPoint struct {
	Subject            string  `json:"subject"`
	PeriodLabel        string  `json:"period_label"`
	PeriodIndex        int     `json:"period_index"`
	CohortAverageScore float64 `json:"cohort_average_score"`
}

// CorrelationPair is one subject pair's Pearson coefficient.
type CorrelationPair struct {
	SubjectA    string  `json:"subject_a"`
	SubjectB    string  `json:"subject_b"`
	Coefficient float64 `json:"coefficient"`
	Samples     int     `json:"samples"`
}

// CorrelationReport answers the cohort correlations query.
type CorrelationReport struct {
	Pairs    []CorrelationPair `json:"pairs"`
	Insights []string          `json:"insights"`
}

// SubjectPlacement positions one subject in the latent space.
type SubjectPlacement struct {
	Subject      string  `json:"subject"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Difficulty   float64 `json:"difficulty"`
	AverageScore float64 `json:"avg_score"`
	StudentCount int     `json:"student_count"`
}

// SubjectAnalysis answers the subject latent-space query.
type SubjectAnalysis struct {
	Subjects          []SubjectPlacement `json:"subjects"`
	VarianceExplained []float64          `json:"variance_explained"`
}

// Forecast answers the per-student forecast query.
type Forecast struct {
	StudentID      string  `json:"student_id"`
	PredictedScore float64 `json:"predicted_score"`
	PeriodLabel    string  `json:"period_label"`
	PeriodIndex    int     `json:"period_index"`
	Confidence     float64 `json:"confidence"`
}

// RiskAssessment answers the per-student risk query.
type RiskAssessment struct {
	StudentID   string   `json:"student_id"`
	Level       string   `json:"level"`
	Probability float64  `json:"probability"`
	Factors     []string `json:"factors"`
}

// Profile answers the per-student profile query.
type Profile struct {
	StudentID    string  `json:"student_id"`
	Label        string  `json:"label"`
	AverageScore float64 `json:"average_score"`
	Consistency  float64 `json:"consistency"`
	Slope        float64 `json:"improvement_slope"`
}

// DatasetInfo reports the outcome of a dataset load.
type DatasetInfo struct {
	Version      string         `json:"version"`
	Records      int            `json:"records"`
	Students     int            `json:"students"`
	Subjects     int            `json:"subjects"`
	Skipped      int            `json:"skipped"`
	Deduplicated int            `json:"deduplicated"`
	SkipReasons  map[string]int `json:"skip_reasons,omitempty"`
}
