package model

// InsightKind tags a detected pattern in the metrics output.
type InsightKind string

// Insight kinds recognized by the detector and the narrative renderer.
const (
	KindImprovement       InsightKind = "improvement"
	KindDecline           InsightKind = "decline"
	KindSuddenDrop        InsightKind = "sudden_drop"
	KindHighVariance      InsightKind = "high_variance"
	KindStrongCorrelation InsightKind = "strong_correlation"
	KindWeakSubject       InsightKind = "weak_subject"
)

// Kinds returns every insight kind. The narrative renderer is checked
// against this list at startup so a kind without a template is a
// detectable defect.
func Kinds() []InsightKind {
	return []InsightKind{
		KindImprovement,
		KindDecline,
		KindSuddenDrop,
		KindHighVariance,
		KindStrongCorrelation,
		KindWeakSubject,
	}
}

// InsightScope distinguishes per-student events from cohort-wide ones.
type InsightScope string

// Insight scopes.
const (
	ScopeStudent InsightScope = "student"
	ScopeCohort  InsightScope = "cohort"
)

// InsightEvent is a rule-triggered event detected in the metrics output.
// Events are ephemeral: computed fresh per query, never persisted.
//
// Field usage varies by kind: delta events carry Previous/Current and a
// PeriodLabel; correlation events carry Subject and SubjectB; weak-subject
// events carry Subject only.
type InsightEvent struct {
	Kind        InsightKind
	Scope       InsightScope
	StudentID   string
	Subject     string
	SubjectB    string
	PeriodLabel string

	// Previous and Current are the period averages around a delta event.
	Previous float64
	Current  float64

	// Value is the triggering metric: the delta, the standard deviation,
	// the correlation coefficient or the subject mean.
	Value float64

	// Severity orders events within a result set, descending.
	Severity float64
}
