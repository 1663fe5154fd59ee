// Package insight applies a fixed, threshold-driven rule set to metrics
// output and flags significant events. Detection is deterministic: the
// same records and configuration always produce the same events in the
// same order.
package insight

import (
	"math"
	"sort"

	"github.com/okian/sage/internal/domain/model"
	"github.com/okian/sage/internal/domain/stats"
)

// Default detection thresholds. Delta and correlation boundaries are
// inclusive; variance is strict.
const (
	defaultImprovementThreshold = 5.0
	defaultDeclineThreshold     = 5.0
	defaultSuddenDropThreshold  = 15.0
	defaultVarianceThreshold    = 10.0
	defaultMinVariancePeriods   = 3
	defaultCorrelationThreshold = 0.6
	defaultWeakSubjectFloor     = 50.0
)

// deltaRule pairs a predicate with the event kind it constructs. Rules
// are evaluated in order and the first match wins, which makes precedence
// (sudden drop over plain decline) an explicit ordering rather than
// incidental branching.
type deltaRule struct {
	kind    model.InsightKind
	matches func(delta float64) bool
}

// Detector evaluates the rule set against metrics output.
type Detector struct {
	improvement        float64
	decline            float64
	suddenDrop         float64
	variance           float64
	minVariancePeriods int
	correlation        float64
	weakSubjectFloor   float64

	deltaRules []deltaRule
}

// New creates a Detector with default thresholds.
func New(opts ...Option) *Detector {
	d := &Detector{
		improvement:        defaultImprovementThreshold,
		decline:            defaultDeclineThreshold,
		suddenDrop:         defaultSuddenDropThreshold,
		variance:           defaultVarianceThreshold,
		minVariancePeriods: defaultMinVariancePeriods,
		correlation:        defaultCorrelationThreshold,
		weakSubjectFloor:   defaultWeakSubjectFloor,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.deltaRules = []deltaRule{
		{kind: model.KindSuddenDrop, matches: func(delta float64) bool { return delta <= -d.suddenDrop }},
		{kind: model.KindDecline, matches: func(delta float64) bool { return delta <= -d.decline }},
		{kind: model.KindImprovement, matches: func(delta float64) bool { return delta >= d.improvement }},
	}
	return d
}

// StudentInsights evaluates the per-student rules over a blended history
// and its deltas. deltas must be aligned with history as produced by
// stats.PeriodDeltas.
func (d *Detector) StudentInsights(studentID string, history []model.HistoryPoint, deltas []stats.Delta) []model.InsightEvent {
	events := make([]model.InsightEvent, 0)
	for i, delta := range deltas {
		if !delta.Defined {
			continue
		}
		for _, rule := range d.deltaRules {
			if !rule.matches(delta.Value) {
				continue
			}
			events = append(events, model.InsightEvent{
				Kind:        rule.kind,
				Scope:       model.ScopeStudent,
				StudentID:   studentID,
				PeriodLabel: history[i].Period.Label(),
				Previous:    history[i-1].Average,
				Current:     history[i].Average,
				Value:       delta.Value,
				Severity:    math.Abs(delta.Value),
			})
			break
		}
	}
	// Insufficient history is "not evaluated", not "not high variance".
	if len(history) >= d.minVariancePeriods {
		if sd := stats.StdDev(history); sd > d.variance {
			events = append(events, model.InsightEvent{
				Kind:      model.KindHighVariance,
				Scope:     model.ScopeStudent,
				StudentID: studentID,
				Value:     sd,
				Severity:  sd,
			})
		}
	}
	sortEvents(events)
	return events
}

// CorrelationInsights flags subject pairs whose coefficient magnitude
// meets the configured threshold.
func (d *Detector) CorrelationInsights(pairs []model.CorrelationPair) []model.InsightEvent {
	events := make([]model.InsightEvent, 0)
	for _, p := range pairs {
		if math.Abs(p.Coefficient) < d.correlation {
			continue
		}
		events = append(events, model.InsightEvent{
			Kind:     model.KindStrongCorrelation,
			Scope:    model.ScopeCohort,
			Subject:  p.SubjectA,
			SubjectB: p.SubjectB,
			Value:    p.Coefficient,
			Severity: math.Abs(p.Coefficient),
		})
	}
	sortEvents(events)
	return events
}

// SubjectInsights flags subjects whose cohort-wide mean sits below the
// configured floor.
func (d *Detector) SubjectInsights(records []model.ResultRecord) []model.InsightEvent {
	events := make([]model.InsightEvent, 0)
	for _, s := range stats.SubjectAverages(records) {
		if s.Average >= d.weakSubjectFloor {
			continue
		}
		events = append(events, model.InsightEvent{
			Kind:     model.KindWeakSubject,
			Scope:    model.ScopeCohort,
			Subject:  s.Subject,
			Value:    s.Average,
			Severity: d.weakSubjectFloor - s.Average,
		})
	}
	sortEvents(events)
	return events
}

// CohortInsights combines correlation and weak-subject events into one
// severity-ordered slice.
func (d *Detector) CohortInsights(records []model.ResultRecord, pairs []model.CorrelationPair) []model.InsightEvent {
	events := append(d.CorrelationInsights(pairs), d.SubjectInsights(records)...)
	sortEvents(events)
	return events
}

// sortEvents orders by severity descending with a stable tie-break on
// identity fields so output is deterministic for identical input.
func sortEvents(events []model.InsightEvent) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.StudentID != b.StudentID {
			return a.StudentID < b.StudentID
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.SubjectB != b.SubjectB {
			return a.SubjectB < b.SubjectB
		}
		if a.PeriodLabel != b.PeriodLabel {
			return a.PeriodLabel < b.PeriodLabel
		}
		return a.Kind < b.Kind
	})
}
