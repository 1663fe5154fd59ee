package predict

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/sage/internal/domain/model"
	"github.com/okian/sage/internal/domain/stats"
)

// RiskLevel labels a student's assessed risk band.
type RiskLevel string

// Risk bands.
const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskCritical RiskLevel = "CRITICAL"
)

// RiskFactor codes the signals that contributed to an assessment.
type RiskFactor string

// Contributing factor codes.
const (
	FactorLowAverage   RiskFactor = "RISK_LOW_AVG"
	FactorSteepDecline RiskFactor = "RISK_TREND_STEEP_DOWN"
	FactorDecline      RiskFactor = "RISK_TREND_DOWN"
	FactorHighVariance RiskFactor = "RISK_HIGH_VAR"
	FactorSuddenDrop   RiskFactor = "RISK_SUDDEN_DROP"
)

// RiskParams holds the weights and cutoffs of the heuristic probability
// model. Each signal adds its weight when its cutoff trips; the sum is
// capped and bucketed into a level.
type RiskParams struct {
	LowAverageBelow       float64
	LowAverageWeight      float64
	ModerateAverageBelow  float64
	ModerateAverageWeight float64
	SteepSlopeBelow       float64
	SteepSlopeWeight      float64
	DownSlopeBelow        float64
	DownSlopeWeight       float64
	HighVarianceAbove     float64
	HighVarianceWeight    float64
	RecentDropAbove       float64
	RecentDropWeight      float64
	Cap                   float64
	CriticalAbove         float64
	ModerateAbove         float64
}

// DefaultRiskParams returns the documented default weighting.
func DefaultRiskParams() RiskParams {
	return RiskParams{
		LowAverageBelow:       50,
		LowAverageWeight:      0.4,
		ModerateAverageBelow:  60,
		ModerateAverageWeight: 0.2,
		SteepSlopeBelow:       -5,
		SteepSlopeWeight:      0.3,
		DownSlopeBelow:        -2,
		DownSlopeWeight:       0.15,
		HighVarianceAbove:     15,
		HighVarianceWeight:    0.1,
		RecentDropAbove:       10,
		RecentDropWeight:      0.15,
		Cap:                   0.95,
		CriticalAbove:         0.7,
		ModerateAbove:         0.4,
	}
}

// RiskAssessment is the outcome of scoring one student.
type RiskAssessment struct {
	StudentID    string
	Level        RiskLevel
	Probability  float64
	Factors      []RiskFactor
	LatestPeriod model.TimePeriod
}

// RiskOption applies a configuration option to the RiskScorer.
type RiskOption func(*RiskScorer)

// WithRiskParams replaces the default weighting wholesale.
func WithRiskParams(p RiskParams) RiskOption {
	return func(s *RiskScorer) {
		if p.Cap > 0 {
			s.params = p
		}
	}
}

// RiskScorer combines low-average, downward-trend, high-variance and
// sudden-drop signals into a probability-like score.
type RiskScorer struct {
	params RiskParams
}

// NewRiskScorer creates a RiskScorer with default parameters.
func NewRiskScorer(opts ...RiskOption) *RiskScorer {
	s := &RiskScorer{params: DefaultRiskParams()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess scores one student's records. The average and spread are taken
// over raw per-subject scores; the trend slope is fit over (period index,
// score); the recent-drop signal compares the last two blended period
// averages.
func (s *RiskScorer) Assess(studentID string, records []model.ResultRecord) (RiskAssessment, error) {
	if len(records) == 0 {
		return RiskAssessment{}, fmt.Errorf("%w: no records for student %s", ErrInsufficientData, studentID)
	}
	p := s.params

	scores := make([]float64, len(records))
	xs := make([]float64, len(records))
	latest := records[0].Period
	for i, r := range records {
		scores[i] = r.Score
		xs[i] = float64(r.Period.Index)
		if latest.Before(r.Period) {
			latest = r.Period
		}
	}
	avg := stat.Mean(scores, nil)
	var spread float64
	if len(scores) > 1 {
		spread = stat.StdDev(scores, nil)
	}
	var slope float64
	if len(scores) > 1 {
		_, slope = stat.LinearRegression(xs, scores, nil, false)
		if math.IsNaN(slope) {
			// All records in one period; no trend to speak of.
			slope = 0
		}
	}

	history, err := stats.StudentHistory(records, studentID)
	if err != nil {
		return RiskAssessment{}, err
	}
	recentDrop := false
	if n := len(history); n >= 2 {
		recentDrop = history[n-2].Average-history[n-1].Average > p.RecentDropAbove
	}

	var probability float64
	factors := make([]RiskFactor, 0)

	switch {
	case avg < p.LowAverageBelow:
		probability += p.LowAverageWeight
		factors = append(factors, FactorLowAverage)
	case avg < p.ModerateAverageBelow:
		probability += p.ModerateAverageWeight
	}

	switch {
	case slope < p.SteepSlopeBelow:
		probability += p.SteepSlopeWeight
		factors = append(factors, FactorSteepDecline)
	case slope < p.DownSlopeBelow:
		probability += p.DownSlopeWeight
		factors = append(factors, FactorDecline)
	}

	if spread > p.HighVarianceAbove {
		probability += p.HighVarianceWeight
		factors = append(factors, FactorHighVariance)
	}
	if recentDrop {
		probability += p.RecentDropWeight
		factors = append(factors, FactorSuddenDrop)
	}

	probability = math.Min(p.Cap, probability)

	level := RiskLow
	switch {
	case probability > p.CriticalAbove:
		level = RiskCritical
	case probability > p.ModerateAbove:
		level = RiskModerate
	}

	return RiskAssessment{
		StudentID:    studentID,
		Level:        level,
		Probability:  round2(probability),
		Factors:      factors,
		LatestPeriod: latest,
	}, nil
}
