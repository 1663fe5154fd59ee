// Package gendata generates synthetic cohort result data for exercising
// the analytics service. Students are drawn from a small set of
// performance archetypes so the generated cohort triggers every insight
// kind: improvers, decliners, sudden drops, volatile histories and
// consistently weak subjects.
package gendata

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/okian/sage/pkg/logger"
)

// Default generation parameters.
const (
	DefaultStudents  = 200
	DefaultSemesters = 6
	DefaultSeed      = 1
)

// DefaultSubjects is the subject set used when none is configured.
var DefaultSubjects = []string{"mathematics", "physics", "chemistry", "english", "computer science", "biology"}

// Archetype indexes into the trajectory table.
const (
	archetypeSteadyHigh = iota
	archetypeSteadyAverage
	archetypeImprover
	archetypeDecliner
	archetypeSuddenDrop
	archetypeVolatile
	archetypeStruggling
	archetypeCount
)

// Trajectory shape constants.
const (
	steadyHighBase    = 85.0
	steadyAverageBase = 65.0
	improverBase      = 50.0
	improverStep      = 6.0
	declinerBase      = 80.0
	declinerStep      = -6.0
	suddenDropBase    = 75.0
	suddenDropDelta   = -25.0
	volatileBase      = 65.0
	volatileSwing     = 18.0
	strugglingBase    = 38.0

	normalNoise   = 4.0
	subjectSpread = 6.0

	minScore = 0.0
	maxScore = 100.0
)

// Config controls generation.
type Config struct {
	Students  int
	Semesters int
	Subjects  []string
	Seed      int64

	// OutputFile receives the CSV; empty means a timestamped default.
	OutputFile string

	// BaseURL, when set, is the service to POST the generated CSV to.
	BaseURL string

	Verbose bool
}

// Row is one generated result in the long layout.
type Row struct {
	StudentID string
	Subject   string
	Score     float64
	Semester  int
}

// Generator produces deterministic synthetic cohorts.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator seeded from cfg. The same seed always yields
// the same cohort.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces the full cohort for cfg.
func (g *Generator) Generate(ctx context.Context, cfg *Config) ([]Row, error) {
	if cfg.Students <= 0 || cfg.Semesters <= 0 {
		return nil, fmt.Errorf("%w: students and semesters must be positive", ErrBadConfig)
	}
	subjects := cfg.Subjects
	if len(subjects) == 0 {
		subjects = DefaultSubjects
	}
	logger.Get().Info(ctx, "generating synthetic cohort",
		logger.Int("students", cfg.Students),
		logger.Int("semesters", cfg.Semesters),
		logger.Int("subjects", len(subjects)),
	)

	rows := make([]Row, 0, cfg.Students*cfg.Semesters*len(subjects))
	for i := 0; i < cfg.Students; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("generation cancelled: %w", ctx.Err())
		default:
		}
		studentID := fmt.Sprintf("S%04d", i+1)
		archetype := i % archetypeCount

		// Per-student subject affinity keeps subject correlations
		// realistic: a strong student tends to be strong across the
		// board, with stable per-subject offsets.
		offsets := make([]float64, len(subjects))
		for j := range subjects {
			offsets[j] = (g.rng.Float64()*2 - 1) * subjectSpread
		}

		for sem := 1; sem <= cfg.Semesters; sem++ {
			base := g.trajectory(archetype, sem, cfg.Semesters)
			for j, subject := range subjects {
				score := base + offsets[j] + g.rng.NormFloat64()*normalNoise
				score = math.Max(minScore, math.Min(maxScore, score))
				rows = append(rows, Row{
					StudentID: studentID,
					Subject:   subject,
					Score:     math.Round(score*10) / 10,
					Semester:  sem,
				})
			}
		}
	}

	logger.Get().Info(ctx, "generated synthetic cohort", logger.Int("rows", len(rows)))
	return rows, nil
}

// trajectory returns the archetype's blended level at one semester.
func (g *Generator) trajectory(archetype, semester, semesters int) float64 {
	switch archetype {
	case archetypeSteadyHigh:
		return steadyHighBase
	case archetypeSteadyAverage:
		return steadyAverageBase
	case archetypeImprover:
		return improverBase + improverStep*float64(semester-1)
	case archetypeDecliner:
		return declinerBase + declinerStep*float64(semester-1)
	case archetypeSuddenDrop:
		// Stable until the final semester, then a cliff.
		if semester == semesters {
			return suddenDropBase + suddenDropDelta
		}
		return suddenDropBase
	case archetypeVolatile:
		if semester%2 == 0 {
			return volatileBase + volatileSwing
		}
		return volatileBase - volatileSwing
	default:
		return strugglingBase
	}
}
