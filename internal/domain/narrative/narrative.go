// Package narrative maps detected insight events to human-readable
// sentences. Rendering is a pure, deterministic template lookup keyed by
// event kind: scores format with one decimal place, correlation
// coefficients with two, no randomness, no locale dependence.
package narrative

import (
	"fmt"

	"github.com/okian/sage/internal/domain/model"
)

// templateFunc renders one event kind.
type templateFunc func(model.InsightEvent) string

// Renderer renders insight events to narrative text.
type Renderer struct {
	templates map[model.InsightKind]templateFunc
}

// New creates a Renderer with the full template set.
func New() *Renderer {
	return &Renderer{
		templates: map[model.InsightKind]templateFunc{
			model.KindImprovement: func(e model.InsightEvent) string {
				return fmt.Sprintf("Student %s improved their average score by %.1f points in %s (from %.1f to %.1f).",
					e.StudentID, e.Severity, e.PeriodLabel, e.Previous, e.Current)
			},
			model.KindDecline: func(e model.InsightEvent) string {
				return fmt.Sprintf("Student %s saw a decline of %.1f points in %s (from %.1f to %.1f).",
					e.StudentID, e.Severity, e.PeriodLabel, e.Previous, e.Current)
			},
			model.KindSuddenDrop: func(e model.InsightEvent) string {
				return fmt.Sprintf("Student %s dropped sharply by %.1f points in %s (from %.1f to %.1f); this warrants immediate attention.",
					e.StudentID, e.Severity, e.PeriodLabel, e.Previous, e.Current)
			},
			model.KindHighVariance: func(e model.InsightEvent) string {
				return fmt.Sprintf("Student %s shows inconsistent performance, with a score spread of %.1f points across periods.",
					e.StudentID, e.Value)
			},
			model.KindStrongCorrelation: func(e model.InsightEvent) string {
				return fmt.Sprintf("There is a strong connection between %s and %s (correlation: %.2f). Students performing well in one tend to do well in the other.",
					e.Subject, e.SubjectB, e.Value)
			},
			model.KindWeakSubject: func(e model.InsightEvent) string {
				return fmt.Sprintf("The cohort is underperforming in %s, with an average score of %.1f.",
					e.Subject, e.Value)
			},
		},
	}
}

// Render produces the narrative for a single event. An event kind without
// a template is a programming error surfaced as ErrUnknownKind, never a
// silent blank string.
func (r *Renderer) Render(e model.InsightEvent) (string, error) {
	tmpl, ok := r.templates[e.Kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
	return tmpl(e), nil
}

// RenderAll renders events in order, failing on the first unknown kind.
func (r *Renderer) RenderAll(events []model.InsightEvent) ([]string, error) {
	out := make([]string, 0, len(events))
	for _, e := range events {
		text, err := r.Render(e)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}

// MissingTemplates reports event kinds without a template. The service
// consults this at startup so an unrenderable kind fails fast instead of
// surfacing mid-query.
func (r *Renderer) MissingTemplates() []model.InsightKind {
	missing := make([]model.InsightKind, 0)
	for _, kind := range model.Kinds() {
		if _, ok := r.templates[kind]; !ok {
			missing = append(missing, kind)
		}
	}
	return missing
}
