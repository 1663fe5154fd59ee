package narrative_test

import (
	"errors"
	"testing"

	model "github.com/okian/sage/internal/domain/model"
	narrative "github.com/okian/sage/internal/domain/narrative"
	"github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	convey.Convey("Given the full renderer", t, func() {
		r := narrative.New()

		convey.Convey("When rendering an improvement event", func() {
			text, err := r.Render(model.InsightEvent{
				Kind:        model.KindImprovement,
				StudentID:   "S1",
				PeriodLabel: "Year 1 Sem 2",
				Previous:    50,
				Current:     80,
				Value:       30,
				Severity:    30,
			})

			convey.Convey("Then the sentence carries the student, period and scores", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldEqual,
					"Student S1 improved their average score by 30.0 points in Year 1 Sem 2 (from 50.0 to 80.0).")
			})
		})

		convey.Convey("When rendering a decline event", func() {
			text, err := r.Render(model.InsightEvent{
				Kind:        model.KindDecline,
				StudentID:   "S2",
				PeriodLabel: "Year 2 Sem 1",
				Previous:    75,
				Current:     68.5,
				Value:       -6.5,
				Severity:    6.5,
			})

			convey.So(err, convey.ShouldBeNil)
			convey.So(text, convey.ShouldEqual,
				"Student S2 saw a decline of 6.5 points in Year 2 Sem 1 (from 75.0 to 68.5).")
		})

		convey.Convey("When rendering a sudden drop event", func() {
			text, err := r.Render(model.InsightEvent{
				Kind:        model.KindSuddenDrop,
				StudentID:   "S3",
				PeriodLabel: "Year 2 Sem 2",
				Previous:    80,
				Current:     60,
				Value:       -20,
				Severity:    20,
			})

			convey.So(err, convey.ShouldBeNil)
			convey.So(text, convey.ShouldEqual,
				"Student S3 dropped sharply by 20.0 points in Year 2 Sem 2 (from 80.0 to 60.0); this warrants immediate attention.")
		})

		convey.Convey("When rendering a high variance event", func() {
			text, err := r.Render(model.InsightEvent{
				Kind:      model.KindHighVariance,
				StudentID: "S4",
				Value:     18.93,
			})

			convey.So(err, convey.ShouldBeNil)
			convey.So(text, convey.ShouldEqual,
				"Student S4 shows inconsistent performance, with a score spread of 18.9 points across periods.")
		})

		convey.Convey("When rendering a strong correlation event", func() {
			text, err := r.Render(model.InsightEvent{
				Kind:     model.KindStrongCorrelation,
				Subject:  "math",
				SubjectB: "physics",
				Value:    0.847,
			})

			convey.Convey("Then the coefficient formats with two decimals", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldEqual,
					"There is a strong connection between math and physics (correlation: 0.85). Students performing well in one tend to do well in the other.")
			})
		})

		convey.Convey("When rendering a weak subject event", func() {
			text, err := r.Render(model.InsightEvent{
				Kind:    model.KindWeakSubject,
				Subject: "chemistry",
				Value:   42.25,
			})

			convey.So(err, convey.ShouldBeNil)
			convey.So(text, convey.ShouldEqual,
				"The cohort is underperforming in chemistry, with an average score of 42.2.")
		})

		convey.Convey("When rendering an unknown kind", func() {
			_, err := r.Render(model.InsightEvent{Kind: "nonsense"})

			convey.Convey("Then it fails instead of returning a blank", func() {
				convey.So(errors.Is(err, narrative.ErrUnknownKind), convey.ShouldBeTrue)
			})
		})
	})
}

func TestRenderAll(t *testing.T) {
	convey.Convey("Given a renderer and a batch of events", t, func() {
		r := narrative.New()

		convey.Convey("When all kinds are known", func() {
			out, err := r.RenderAll([]model.InsightEvent{
				{Kind: model.KindHighVariance, StudentID: "S1", Value: 12},
				{Kind: model.KindWeakSubject, Subject: "art", Value: 40},
			})

			convey.Convey("Then every event renders in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When one kind is unknown", func() {
			_, err := r.RenderAll([]model.InsightEvent{
				{Kind: model.KindHighVariance, StudentID: "S1", Value: 12},
				{Kind: "bogus"},
			})

			convey.Convey("Then the batch fails", func() {
				convey.So(errors.Is(err, narrative.ErrUnknownKind), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the batch is empty", func() {
			out, err := r.RenderAll(nil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldBeEmpty)
		})
	})
}

func TestMissingTemplates(t *testing.T) {
	convey.Convey("Given the full renderer", t, func() {
		r := narrative.New()

		convey.Convey("Then every insight kind has a template", func() {
			convey.So(r.MissingTemplates(), convey.ShouldBeEmpty)
		})
	})
}
