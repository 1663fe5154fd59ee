package ingest

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithSemestersPerYear sets how raw semester numbers fold into years.
func WithSemestersPerYear(n int) Option {
	return func(z *Normalizer) {
		if n > 0 {
			z.semestersPerYear = n
		}
	}
}

// WithScoreBounds sets the valid score range; rows outside it are skipped.
func WithScoreBounds(minScore, maxScore float64) Option {
	return func(z *Normalizer) {
		if maxScore > minScore {
			z.minScore = minScore
			z.maxScore = maxScore
		}
	}
}

// WithMaxSkipRatio sets the tolerated share of skipped rows before the
// whole batch fails with ErrDataQuality.
func WithMaxSkipRatio(ratio float64) Option {
	return func(z *Normalizer) {
		if ratio >= 0 && ratio <= 1 {
			z.maxSkipRatio = ratio
		}
	}
}

// WithSubjectColumns sets the wide-layout columns treated as subjects.
func WithSubjectColumns(columns []string) Option {
	return func(z *Normalizer) {
		if len(columns) > 0 {
			z.subjectColumns = append([]string(nil), columns...)
		}
	}
}
