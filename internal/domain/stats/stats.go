// Package stats computes aggregate metrics over normalized result
// records: per-student histories and deltas, cohort trends and pairwise
// subject correlations. Every function is pure over its input slice;
// callers pass an immutable snapshot's records and get freshly built
// output each time.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/sage/internal/domain/model"
)

// Delta is the change in a student's blended average between consecutive
// periods. The first period of a history has no predecessor, represented
// by Defined=false rather than a zero value.
type Delta struct {
	Value   float64
	Defined bool
}

// StudentHistory builds the blended history for one student: the average
// score across all subjects per period, ascending by period. History is
// blended cross-subject rather than per-subject, so one multi-subject
// improvement fires one event, not one per subject.
func StudentHistory(records []model.ResultRecord, studentID string) ([]model.HistoryPoint, error) {
	type acc struct {
		period model.TimePeriod
		sum    float64
		n      int
	}
	byPeriod := make(map[int]*acc)
	for _, r := range records {
		if r.StudentID != studentID {
			continue
		}
		a, ok := byPeriod[r.Period.Index]
		if !ok {
			a = &acc{period: r.Period}
			byPeriod[r.Period.Index] = a
		}
		a.sum += r.Score
		a.n++
	}
	if len(byPeriod) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	history := make([]model.HistoryPoint, 0, len(byPeriod))
	for _, a := range byPeriod {
		history = append(history, model.HistoryPoint{Period: a.period, Average: a.sum / float64(a.n)})
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Period.Before(history[j].Period)
	})
	return history, nil
}

// PeriodDeltas computes consecutive-period differences over a history.
// The result has the same length as the history; index 0 is undefined.
func PeriodDeltas(history []model.HistoryPoint) []Delta {
	deltas := make([]Delta, len(history))
	for i := 1; i < len(history); i++ {
		deltas[i] = Delta{Value: history[i].Average - history[i-1].Average, Defined: true}
	}
	return deltas
}

// OverallAverage is the mean of all period averages. The second return is
// false when the history is empty; no-data is distinct from zero.
func OverallAverage(history []model.HistoryPoint) (float64, bool) {
	if len(history) == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range history {
		sum += p.Average
	}
	return sum / float64(len(history)), true
}

// CohortTrends computes the mean score per (subject, period) across all
// students. Groups with no contributing records are simply absent. Output
// is sorted by subject, then period.
func CohortTrends(records []model.ResultRecord) []model.CohortTrend {
	type key struct {
		subject string
		index   int
	}
	type acc struct {
		period model.TimePeriod
		sum    float64
		n      int
	}
	groups := make(map[key]*acc)
	for _, r := range records {
		k := key{subject: r.Subject, index: r.Period.Index}
		a, ok := groups[k]
		if !ok {
			a = &acc{period: r.Period}
			groups[k] = a
		}
		a.sum += r.Score
		a.n++
	}
	trends := make([]model.CohortTrend, 0, len(groups))
	for k, a := range groups {
		trends = append(trends, model.CohortTrend{
			Subject: k.subject,
			Period:  a.period,
			Average: a.sum / float64(a.n),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Subject != trends[j].Subject {
			return trends[i].Subject < trends[j].Subject
		}
		return trends[i].Period.Before(trends[j].Period)
	})
	return trends
}

// SubjectAverages computes each subject's mean score across all students
// and periods, sorted by subject name.
func SubjectAverages(records []model.ResultRecord) []model.CohortTrend {
	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		a, ok := groups[r.Subject]
		if !ok {
			a = &acc{}
			groups[r.Subject] = a
		}
		a.sum += r.Score
		a.n++
	}
	out := make([]model.CohortTrend, 0, len(groups))
	for subject, a := range groups {
		out = append(out, model.CohortTrend{Subject: subject, Average: a.sum / float64(a.n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out
}

// CorrelationMatrix computes the Pearson coefficient for every unordered
// subject pair. Samples are paired per matching student+period: both
// subjects must have a score for the same student in the same period.
// Pairs with fewer than minSamples samples are omitted, as are pairs
// where either side has zero variance (the coefficient is undefined
// there, which is not the same as zero).
func CorrelationMatrix(records []model.ResultRecord, minSamples int) []model.CorrelationPair {
	if minSamples < 2 {
		minSamples = 2
	}
	type cell struct {
		student string
		index   int
	}
	// subject -> (student, period) -> score
	bySubject := make(map[string]map[cell]float64)
	subjects := make([]string, 0)
	for _, r := range records {
		m, ok := bySubject[r.Subject]
		if !ok {
			m = make(map[cell]float64)
			bySubject[r.Subject] = m
			subjects = append(subjects, r.Subject)
		}
		m[cell{student: r.StudentID, index: r.Period.Index}] = r.Score
	}
	sort.Strings(subjects)

	pairs := make([]model.CorrelationPair, 0)
	for i := 0; i < len(subjects); i++ {
		for j := i + 1; j < len(subjects); j++ {
			a, b := subjects[i], subjects[j]
			var xs, ys []float64
			for c, scoreA := range bySubject[a] {
				if scoreB, ok := bySubject[b][c]; ok {
					xs = append(xs, scoreA)
					ys = append(ys, scoreB)
				}
			}
			if len(xs) < minSamples {
				continue
			}
			coeff := stat.Correlation(xs, ys, nil)
			if math.IsNaN(coeff) {
				// Zero variance on one side; undefined, excluded.
				continue
			}
			pairs = append(pairs, model.CorrelationPair{
				SubjectA:    a,
				SubjectB:    b,
				Coefficient: coeff,
				Samples:     len(xs),
			})
		}
	}
	// Sample maps iterate in random order but xs/ys stay pairwise
	// aligned, so the coefficient itself is order-independent.
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].SubjectA != pairs[j].SubjectA {
			return pairs[i].SubjectA < pairs[j].SubjectA
		}
		return pairs[i].SubjectB < pairs[j].SubjectB
	})
	return pairs
}

// TrendSlope fits a least-squares line through (period index, average)
// and returns its slope. The second return is false for histories shorter
// than two points.
func TrendSlope(history []model.HistoryPoint) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}
	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	for i, p := range history {
		xs[i] = float64(p.Period.Index)
		ys[i] = p.Average
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope, true
}

// StdDev returns the sample standard deviation of the period averages.
// Histories shorter than two points have no spread.
func StdDev(history []model.HistoryPoint) float64 {
	if len(history) < 2 {
		return 0
	}
	values := make([]float64, len(history))
	for i, p := range history {
		values[i] = p.Average
	}
	return stat.StdDev(values, nil)
}
