// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep analytic thresholds here, never hardcoded per call site.
// - Provide New() to build a Config with documented defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SemestersPerYear controls how raw semester numbers fold into
	// (year, term) labels.
	SemestersPerYear int `koanf:"semesters_per_year"`

	// MinScore and MaxScore bound the valid score range; rows outside it
	// are skipped during ingestion.
	MinScore float64 `koanf:"min_score"`
	MaxScore float64 `koanf:"max_score"`

	// MaxSkipRatio is the tolerated share of skipped rows before a whole
	// batch fails ingestion.
	MaxSkipRatio float64 `koanf:"max_skip_ratio"`

	// MinCorrelationSamples excludes subject pairs with fewer paired
	// observations from the correlation matrix.
	MinCorrelationSamples int `koanf:"min_correlation_samples"`

	// MinSubjects is the floor for the subject latent-space analysis.
	MinSubjects int `koanf:"min_subjects"`

	// Thresholds drive the insight detector.
	Thresholds Thresholds `koanf:"thresholds"`

	// Risk drives the heuristic risk scorer.
	Risk Risk `koanf:"risk"`
}

// Thresholds holds the insight detection boundaries. Delta and
// correlation boundaries are inclusive.
type Thresholds struct {
	Improvement        float64 `koanf:"improvement"`
	Decline            float64 `koanf:"decline"`
	SuddenDrop         float64 `koanf:"sudden_drop"`
	Variance           float64 `koanf:"variance"`
	MinVariancePeriods int     `koanf:"min_variance_periods"`
	Correlation        float64 `koanf:"correlation"`
	WeakSubjectFloor   float64 `koanf:"weak_subject_floor"`
}

// Risk holds the weights and cutoffs of the risk scorer.
type Risk struct {
	LowAverageBelow       float64 `koanf:"low_average_below"`
	LowAverageWeight      float64 `koanf:"low_average_weight"`
	ModerateAverageBelow  float64 `koanf:"moderate_average_below"`
	ModerateAverageWeight float64 `koanf:"moderate_average_weight"`
	SteepSlopeBelow       float64 `koanf:"steep_slope_below"`
	SteepSlopeWeight      float64 `koanf:"steep_slope_weight"`
	DownSlopeBelow        float64 `koanf:"down_slope_below"`
	DownSlopeWeight       float64 `koanf:"down_slope_weight"`
	HighVarianceAbove     float64 `koanf:"high_variance_above"`
	HighVarianceWeight    float64 `koanf:"high_variance_weight"`
	RecentDropAbove       float64 `koanf:"recent_drop_above"`
	RecentDropWeight      float64 `koanf:"recent_drop_weight"`
	Cap                   float64 `koanf:"cap"`
	CriticalAbove         float64 `koanf:"critical_above"`
	ModerateAbove         float64 `koanf:"moderate_above"`
}

// New creates a Config with the documented defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9090",
		SemestersPerYear:      2,
		MinScore:              0,
		MaxScore:              100,
		MaxSkipRatio:          0.2,
		MinCorrelationSamples: 3,
		MinSubjects:           2,
		Thresholds: Thresholds{
			Improvement:        5.0,
			Decline:            5.0,
			SuddenDrop:         15.0,
			Variance:           10.0,
			MinVariancePeriods: 3,
			Correlation:        0.6,
			WeakSubjectFloor:   50.0,
		},
		Risk: Risk{
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
		},
	}
}
