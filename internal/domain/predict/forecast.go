// Package predict provides the derived analytics branching off the
// metrics stage: trend forecasting, heuristic risk scoring, qualitative
// profile classification and the subject latent-space projection. All of
// it is deterministic and rule-driven; nothing here trains or persists a
// model.
package predict

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/sage/internal/domain/model"
)

// Default forecast configuration.
const (
	defaultMinScore         = 0
	defaultMaxScore         = 100
	defaultSemestersPerYear = 2
	minForecastHistory      = 2
)

// Forecast projects a student's blended average one period ahead.
type Forecast struct {
	StudentID  string
	Period     model.TimePeriod
	Predicted  float64
	Confidence float64
}

// ForecastOption applies a configuration option to the Forecaster.
type ForecastOption func(*Forecaster)

// WithForecastScoreBounds sets the range predictions are clamped to.
func WithForecastScoreBounds(minScore, maxScore float64) ForecastOption {
	return func(f *Forecaster) {
		if maxScore > minScore {
			f.minScore = minScore
			f.maxScore = maxScore
		}
	}
}

// WithForecastSemestersPerYear controls labeling of the projected period.
func WithForecastSemestersPerYear(n int) ForecastOption {
	return func(f *Forecaster) {
		if n > 0 {
			f.semestersPerYear = n
		}
	}
}

// Forecaster fits a linear trend over a student's history and projects
// one period ahead.
type Forecaster struct {
	minScore         float64
	maxScore         float64
	semestersPerYear int
}

// NewForecaster creates a Forecaster with default configuration.
func NewForecaster(opts ...ForecastOption) *Forecaster {
	f := &Forecaster{
		minScore:         defaultMinScore,
		maxScore:         defaultMaxScore,
		semestersPerYear: defaultSemestersPerYear,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NextPeriod fits y = alpha + beta*x over (period index, average) and
// evaluates it at the period after the last observed one. The prediction
// is clamped to the score bounds. Confidence is the fit's R², clamped to
// [0, 1]; a perfectly flat history is perfectly predictable and reports
// confidence 1.
func (f *Forecaster) NextPeriod(studentID string, history []model.HistoryPoint) (Forecast, error) {
	if len(history) < minForecastHistory {
		return Forecast{}, fmt.Errorf("%w: forecast needs at least %d periods, have %d",
			ErrInsufficientData, minForecastHistory, len(history))
	}
	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	for i, p := range history {
		xs[i] = float64(p.Period.Index)
		ys[i] = p.Average
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	next := history[len(history)-1].Period.Next(f.semestersPerYear)
	predicted := alpha + beta*float64(next.Index)
	predicted = math.Max(f.minScore, math.Min(f.maxScore, predicted))

	confidence := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(confidence) {
		// R² is 0/0 when the history has zero variance; the fit is exact.
		confidence = 1
	}
	confidence = math.Max(0, math.Min(1, confidence))

	return Forecast{
		StudentID:  studentID,
		Period:     next,
		Predicted:  round1(predicted),
		Confidence: round2(confidence),
	}, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
