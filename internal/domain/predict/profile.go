package predict

import (
	"fmt"

	"github.com/okian/sage/internal/domain/model"
	"github.com/okian/sage/internal/domain/stats"
)

// Profile labels. The classifier buckets students into a small fixed set
// of qualitative profiles from average level, spread and trend direction.
const (
	ProfileConsistentHigh = "Consistent High Performer"
	ProfileVolatileHigh   = "Volatile High Performer"
	ProfileRecovering     = "Recovering / Improving"
	ProfileAtRisk         = "At Risk"
	ProfileFastImprover   = "Fast Improver"
	ProfileDeclining      = "Declining Performance"
	ProfileInconsistent   = "Inconsistent Performer"
	ProfileSteadyAverage  = "Steady Average"
)

// Classification cutoffs on the (average, spread, slope) features.
const (
	highAverageAbove    = 75.0
	lowAverageBelow     = 50.0
	steadySpreadBelow   = 10.0
	volatileSpreadAbove = 15.0
	fastSlopeAbove      = 2.0
	decliningSlopeBelow = -2.0
)

// Profile is one student's qualitative grouping plus the features that
// produced it.
type Profile struct {
	StudentID    string
	Label        string
	AverageScore float64
	Consistency  float64
	Slope        float64
}

// Classifier assigns students to qualitative profiles. It is a
// lightweight heuristic over history features, not a trained model.
type Classifier struct{}

// NewClassifier creates a Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify derives (average, spread, slope) from a blended history and
// maps them onto a profile label.
func (c *Classifier) Classify(studentID string, history []model.HistoryPoint) (Profile, error) {
	avg, ok := stats.OverallAverage(history)
	if !ok {
		return Profile{}, fmt.Errorf("%w: no history for student %s", ErrInsufficientData, studentID)
	}
	spread := stats.StdDev(history)
	slope, _ := stats.TrendSlope(history)

	var label string
	switch {
	case avg > highAverageAbove && spread < steadySpreadBelow:
		label = ProfileConsistentHigh
	case avg > highAverageAbove:
		label = ProfileVolatileHigh
	case avg < lowAverageBelow && slope > 0:
		label = ProfileRecovering
	case avg < lowAverageBelow:
		label = ProfileAtRisk
	case slope > fastSlopeAbove:
		label = ProfileFastImprover
	case slope < decliningSlopeBelow:
		label = ProfileDeclining
	case spread > volatileSpreadAbove:
		label = ProfileInconsistent
	default:
		label = ProfileSteadyAverage
	}

	return Profile{
		StudentID:    studentID,
		Label:        label,
		AverageScore: round1(avg),
		Consistency:  round1(spread),
		Slope:        round2(slope),
	}, nil
}
