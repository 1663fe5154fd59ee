// Package service provides the core analytics service that implements
// the dependencies required by the HTTP API. It wires ingestion, the
// metrics engine, insight detection, narrative rendering and the derived
// analytics around one swappable dataset snapshot.
package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/okian/sage/internal/adapters/repository"
	"github.com/okian/sage/internal/config"
	"github.com/okian/sage/internal/domain/ingest"
	"github.com/okian/sage/internal/domain/insight"
	"github.com/okian/sage/internal/domain/model"
	"github.com/okian/sage/internal/domain/narrative"
	"github.com/okian/sage/internal/domain/predict"
	"github.com/okian/sage/internal/domain/stats"
	"github.com/okian/sage/internal/domain/types"
	"github.com/okian/sage/pkg/logger"
	"github.com/okian/sage/pkg/metrics"
)

// Query names used for metrics labels.
const (
	queryLoadDataset     = "load_dataset"
	querySummary         = "student_summary"
	queryTrends          = "cohort_trends"
	queryCorrelations    = "cohort_correlations"
	querySubjectAnalysis = "subject_analysis"
	queryForecast        = "student_forecast"
	queryRisk            = "student_risk"
	queryProfile         = "student_profile"
)

// Service implements the analytics queries over the active snapshot.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	normalizer *ingest.Normalizer
	detector   *insight.Detector
	renderer   *narrative.Renderer
	forecaster *predict.Forecaster
	risk       *predict.RiskScorer
	classifier *predict.Classifier

	// Configuration
	cfg *config.Config

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the full service configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets a custom snapshot store, mainly for tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: config.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components. It fails fast when the
// narrative templates do not cover every insight kind.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting analytics service...")

	if s.store == nil {
		s.store = repository.NewSnapshotStore()
	}
	s.normalizer = ingest.New(
		ingest.WithSemestersPerYear(s.cfg.SemestersPerYear),
		ingest.WithScoreBounds(s.cfg.MinScore, s.cfg.MaxScore),
		ingest.WithMaxSkipRatio(s.cfg.MaxSkipRatio),
	)
	s.detector = insight.New(
		insight.WithImprovementThreshold(s.cfg.Thresholds.Improvement),
		insight.WithDeclineThreshold(s.cfg.Thresholds.Decline),
		insight.WithSuddenDropThreshold(s.cfg.Thresholds.SuddenDrop),
		insight.WithVarianceThreshold(s.cfg.Thresholds.Variance),
		insight.WithMinVariancePeriods(s.cfg.Thresholds.MinVariancePeriods),
		insight.WithCorrelationThreshold(s.cfg.Thresholds.Correlation),
		insight.WithWeakSubjectFloor(s.cfg.Thresholds.WeakSubjectFloor),
	)
	s.renderer = narrative.New()
	if missing := s.renderer.MissingTemplates(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingTemplate, missing)
	}
	s.forecaster = predict.NewForecaster(
		predict.WithForecastScoreBounds(s.cfg.MinScore, s.cfg.MaxScore),
		predict.WithForecastSemestersPerYear(s.cfg.SemestersPerYear),
	)
	s.risk = predict.NewRiskScorer(predict.WithRiskParams(riskParams(s.cfg.Risk)))
	s.classifier = predict.NewClassifier()

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Float64("improvementThreshold", s.cfg.Thresholds.Improvement),
		logger.Float64("suddenDropThreshold", s.cfg.Thresholds.SuddenDrop),
		logger.Int("minCorrelationSamples", s.cfg.MinCorrelationSamples),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "analytics service stopped")
}

// LoadDataset normalizes rows and atomically activates them as the new
// snapshot. Queries in flight keep the snapshot they already resolved.
func (s *Service) LoadDataset(ctx context.Context, rows []ingest.RawRow) (types.DatasetInfo, error) {
	if err := s.ready(); err != nil {
		return types.DatasetInfo{}, err
	}
	done := s.track(queryLoadDataset)
	records, diag, err := s.normalizer.Normalize(ctx, rows)
	if err != nil {
		done(err)
		return types.DatasetInfo{}, err
	}
	snap := repository.NewSnapshot(records, diag)
	version := s.store.Swap(ctx, snap)

	metrics.RecordDatasetLoaded(diag.Kept, diag.Skipped, diag.Deduplicated)
	metrics.UpdateActiveDataset(snap.Len(), len(snap.Students()), len(snap.Subjects()))
	s.logger.Info(ctx, "dataset activated",
		logger.String("version", version),
		logger.Int("records", snap.Len()),
		logger.Int("students", len(snap.Students())),
		logger.Int("skipped", diag.Skipped),
		logger.Int("deduplicated", diag.Deduplicated),
	)
	done(nil)
	return types.DatasetInfo{
		Version:      version,
		Records:      snap.Len(),
		Students:     len(snap.Students()),
		Subjects:     len(snap.Subjects()),
		Skipped:      diag.Skipped,
		Deduplicated: diag.Deduplicated,
		SkipReasons:  diag.SkippedReasons,
	}, nil
}

// StudentSummary answers the student summary query: overall average,
// history and rendered insight narratives.
func (s *Service) StudentSummary(ctx context.Context, studentID string) (types.StudentSummary, error) {
	if err := s.ready(); err != nil {
		return types.StudentSummary{}, err
	}
	done := s.track(querySummary)
	snap, err := s.store.Active(ctx)
	if err != nil {
		done(err)
		return types.StudentSummary{}, err
	}
	history, err := stats.StudentHistory(snap.StudentRecords(studentID), studentID)
	if err != nil {
		done(err)
		return types.StudentSummary{}, err
	}
	deltas := stats.PeriodDeltas(history)
	events := s.detector.StudentInsights(studentID, history, deltas)
	narratives, err := s.renderer.RenderAll(events)
	if err != nil {
		done(err)
		return types.StudentSummary{}, err
	}
	s.countInsights(events)

	overall, _ := stats.OverallAverage(history)
	points := make([]types.HistoryPoint, len(history))
	for i, p := range history {
		points[i] = types.HistoryPoint{
			PeriodLabel:  p.Period.Label(),
			PeriodIndex:  p.Period.Index,
			AverageScore: round2(p.Average),
		}
	}
	done(nil)
	return types.StudentSummary{
		StudentID:      studentID,
		OverallAverage: round2(overall),
		TotalPeriods:   len(history),
		History:        points,
		Insights:       narratives,
	}, nil
}

// CohortTrends answers the cohort trends query.
func (s *Service) CohortTrends(ctx context.Context) ([]types.TrendPoint, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	done := s.track(queryTrends)
	snap, err := s.store.Active(ctx)
	if err != nil {
		done(err)
		return nil, err
	}
	trends := stats.CohortTrends(snap.Records())
	out := make([]types.TrendPoint, len(trends))
	for i, t := range trends {
		out[i] = types.TrendPoint{
			Subject:            t.Subject,
			PeriodLabel:        t.Period.Label(),
			PeriodIndex:        t.Period.Index,
			CohortAverageScore: round2(t.Average),
		}
	}
	done(nil)
	return out, nil
}

// CohortCorrelations answers the cohort correlations query: the pairwise
// coefficients plus narratives for strong-correlation and weak-subject
// events.
func (s *Service) CohortCorrelations(ctx context.Context) (types.CorrelationReport, error) {
	if err := s.ready(); err != nil {
		return types.CorrelationReport{}, err
	}
	done := s.track(queryCorrelations)
	snap, err := s.store.Active(ctx)
	if err != nil {
		done(err)
		return types.CorrelationReport{}, err
	}
	pairs := stats.CorrelationMatrix(snap.Records(), s.cfg.MinCorrelationSamples)
	events := s.detector.CohortInsights(snap.Records(), pairs)
	narratives, err := s.renderer.RenderAll(events)
	if err != nil {
		done(err)
		return types.CorrelationReport{}, err
	}
	s.countInsights(events)

	out := make([]types.CorrelationPair, len(pairs))
	for i, p := range pairs {
		out[i] = types.CorrelationPair{
			SubjectA:    p.SubjectA,
			SubjectB:    p.SubjectB,
			Coefficient: round3(p.Coefficient),
			Samples:     p.Samples,
		}
	}
	done(nil)
	return types.CorrelationReport{Pairs: out, Insights: narratives}, nil
}

// SubjectAnalysis answers the subject latent-space query.
func (s *Service) SubjectAnalysis(ctx context.Context) (types.SubjectAnalysis, error) {
	if err := s.ready(); err != nil {
		return types.SubjectAnalysis{}, err
	}
	done := s.track(querySubjectAnalysis)
	snap, err := s.store.Active(ctx)
	if err != nil {
		done(err)
		return types.SubjectAnalysis{}, err
	}
	analysis, err := predict.AnalyzeSubjects(snap.Records(), s.cfg.MinSubjects)
	if err != nil {
		done(err)
		return types.SubjectAnalysis{}, err
	}
	subjects := make([]types.SubjectPlacement, len(analysis.Subjects))
	for i, p := range analysis.Subjects {
		subjects[i] = types.SubjectPlacement{
			Subject:      p.Subject,
			X:            p.X,
			Y:            p.Y,
			Difficulty:   p.Difficulty,
			AverageScore: p.AverageScore,
			StudentCount: p.StudentCount,
		}
	}
	done(nil)
	return types.SubjectAnalysis{
		Subjects:          subjects,
		VarianceExplained: analysis.VarianceExplained,
	}, nil
}

// StudentForecast answers the per-student forecast query.
func (s *Service) StudentForecast(ctx context.Context, studentID string) (types.Forecast, error) {
	if err := s.ready(); err != nil {
		return types.Forecast{}, err
	}
	done := s.track(queryForecast)
	history, err := s.studentHistory(ctx, studentID)
	if err != nil {
		done(err)
		return types.Forecast{}, err
	}
	forecast, err := s.forecaster.NextPeriod(studentID, history)
	if err != nil {
		done(err)
		return types.Forecast{}, err
	}
	done(nil)
	return types.Forecast{
		StudentID:      studentID,
		PredictedScore: forecast.Predicted,
		PeriodLabel:    forecast.Period.Label(),
		PeriodIndex:    forecast.Period.Index,
		Confidence:     forecast.Confidence,
	}, nil
}

// StudentRisk answers the per-student risk query.
func (s *Service) StudentRisk(ctx context.Context, studentID string) (types.RiskAssessment, error) {
	if err := s.ready(); err != nil {
		return types.RiskAssessment{}, err
	}
	done := s.track(queryRisk)
	snap, err := s.store.Active(ctx)
	if err != nil {
		done(err)
		return types.RiskAssessment{}, err
	}
	assessment, err := s.risk.Assess(studentID, snap.StudentRecords(studentID))
	if err != nil {
		done(err)
		return types.RiskAssessment{}, err
	}
	factors := make([]string, len(assessment.Factors))
	for i, f := range assessment.Factors {
		factors[i] = string(f)
	}
	done(nil)
	return types.RiskAssessment{
		StudentID:   studentID,
		Level:       string(assessment.Level),
		Probability: assessment.Probability,
		Factors:     factors,
	}, nil
}

// StudentProfile answers the per-student profile query.
func (s *Service) StudentProfile(ctx context.Context, studentID string) (types.Profile, error) {
	if err := s.ready(); err != nil {
		return types.Profile{}, err
	}
	done := s.track(queryProfile)
	history, err := s.studentHistory(ctx, studentID)
	if err != nil {
		done(err)
		return types.Profile{}, err
	}
	profile, err := s.classifier.Classify(studentID, history)
	if err != nil {
		done(err)
		return types.Profile{}, err
	}
	done(nil)
	return types.Profile{
		StudentID:    studentID,
		Label:        profile.Label,
		AverageScore: profile.AverageScore,
		Consistency:  profile.Consistency,
		Slope:        profile.Slope,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"started": s.started,
	}
	if s.store == nil {
		out["dataset"] = nil
		return out
	}
	snap, err := s.store.Active(context.Background())
	if err != nil {
		out["dataset"] = nil
		return out
	}
	metrics.UpdateActiveDataset(snap.Len(), len(snap.Students()), len(snap.Subjects()))
	out["dataset"] = map[string]interface{}{
		"version":     snap.Version(),
		"loaded_at":   snap.LoadedAt(),
		"records":     snap.Len(),
		"students":    len(snap.Students()),
		"subjects":    snap.Subjects(),
		"diagnostics": snap.Diagnostics(),
	}
	return out
}

// studentHistory resolves the active snapshot and builds one student's
// blended history.
func (s *Service) studentHistory(ctx context.Context, studentID string) ([]model.HistoryPoint, error) {
	snap, err := s.store.Active(ctx)
	if err != nil {
		return nil, err
	}
	return stats.StudentHistory(snap.StudentRecords(studentID), studentID)
}

// ready rejects calls that arrive before Start.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// track times a query and records its outcome.
func (s *Service) track(query string) func(error) {
	start := time.Now()
	metrics.RecordQuery(query)
	return func(err error) {
		metrics.RecordQueryLatency(query, float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.RecordQueryFailure(query)
		}
	}
}

func (s *Service) countInsights(events []model.InsightEvent) {
	counts := make(map[model.InsightKind]int)
	for _, e := range events {
		counts[e.Kind]++
	}
	for kind, n := range counts {
		metrics.RecordInsights(string(kind), n)
	}
}

// riskParams maps config onto the scorer's parameter struct.
func riskParams(r config.Risk) predict.RiskParams {
	return predict.RiskParams{
		LowAverageBelow:       r.LowAverageBelow,
		LowAverageWeight:      r.LowAverageWeight,
		ModerateAverageBelow:  r.ModerateAverageBelow,
		ModerateAverageWeight: r.ModerateAverageWeight,
		SteepSlopeBelow:       r.SteepSlopeBelow,
		SteepSlopeWeight:      r.SteepSlopeWeight,
		DownSlopeBelow:        r.DownSlopeBelow,
		DownSlopeWeight:       r.DownSlopeWeight,
		HighVarianceAbove:     r.HighVarianceAbove,
		HighVarianceWeight:    r.HighVarianceWeight,
		RecentDropAbove:       r.RecentDropAbove,
		RecentDropWeight:      r.RecentDropWeight,
		Cap:                   r.Cap,
		CriticalAbove:         r.CriticalAbove,
		ModerateAbove:         r.ModerateAbove,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
