package insight

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithImprovementThreshold sets the minimum positive delta (inclusive)
// that fires an improvement event.
func WithImprovementThreshold(v float64) Option {
	return func(d *Detector) {
		if v > 0 {
			d.improvement = v
		}
	}
}

// WithDeclineThreshold sets the minimum negative delta magnitude
// (inclusive) that fires a decline event.
func WithDeclineThreshold(v float64) Option {
	return func(d *Detector) {
		if v > 0 {
			d.decline = v
		}
	}
}

// WithSuddenDropThreshold sets the delta magnitude (inclusive) at which a
// decline is reported as a sudden drop instead. Must exceed the decline
// threshold for the precedence to be meaningful; validation happens in
// config, not here.
func WithSuddenDropThreshold(v float64) Option {
	return func(d *Detector) {
		if v > 0 {
			d.suddenDrop = v
		}
	}
}

// WithVarianceThreshold sets the standard deviation above which a
// student's history counts as high variance.
func WithVarianceThreshold(v float64) Option {
	return func(d *Detector) {
		if v > 0 {
			d.variance = v
		}
	}
}

// WithMinVariancePeriods sets the minimum history length for the variance
// rule to be evaluated at all.
func WithMinVariancePeriods(n int) Option {
	return func(d *Detector) {
		if n > 1 {
			d.minVariancePeriods = n
		}
	}
}

// WithCorrelationThreshold sets the coefficient magnitude (inclusive)
// that fires a strong-correlation event.
func WithCorrelationThreshold(v float64) Option {
	return func(d *Detector) {
		if v > 0 && v <= 1 {
			d.correlation = v
		}
	}
}

// WithWeakSubjectFloor sets the cohort mean below which a subject is
// flagged as weak.
func WithWeakSubjectFloor(v float64) Option {
	return func(d *Detector) {
		if v > 0 {
			d.weakSubjectFloor = v
		}
	}
}
