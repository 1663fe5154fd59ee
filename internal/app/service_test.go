package service_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/okian/sage/internal/adapters/repository"
	app "github.com/okian/sage/internal/app"
	config "github.com/okian/sage/internal/config"
	ingest "github.com/okian/sage/internal/domain/ingest"
	predict "github.com/okian/sage/internal/domain/predict"
	stats "github.com/okian/sage/internal/domain/stats"
	"github.com/okian/sage/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func longRow(student, subject, score, semester string) ingest.RawRow {
	return ingest.RawRow{
		"student_id": student,
		"subject":    subject,
		"score":      score,
		"semester":   semester,
	}
}

func startedService(ctx context.Context) *app.Service {
	svc := app.New(app.WithConfig(config.New()))
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

func TestServiceLifecycle(t *testing.T) {
	convey.Convey("Given a new service", t, func() {
		ctx := context.Background()

		convey.Convey("When starting it", func() {
			svc := app.New()
			err := svc.Start(ctx)

			convey.Convey("Then it starts cleanly and reports so", func() {
				convey.So(err, convey.ShouldBeNil)
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldBeTrue)
			})

			convey.Convey("And starting again is a no-op", func() {
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
			})

			svc.Stop()
		})

		convey.Convey("When querying before starting", func() {
			svc := app.New()
			_, err := svc.StudentSummary(ctx, "S1")

			convey.Convey("Then it reports the service is not started", func() {
				convey.So(errors.Is(err, app.ErrNotStarted), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When stopping it", func() {
			svc := startedService(ctx)
			svc.Stop()

			convey.Convey("Then stats report stopped", func() {
				convey.So(svc.GetStats()["started"], convey.ShouldBeFalse)
			})

			convey.Convey("And stopping twice is safe", func() {
				convey.So(svc.Stop, convey.ShouldNotPanic)
			})
		})
	})
}

func TestLoadDataset(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService(ctx)
		defer svc.Stop()

		convey.Convey("When loading a valid dataset", func() {
			info, err := svc.LoadDataset(ctx, []ingest.RawRow{
				longRow("S1", "Math", "50", "1"),
				longRow("S1", "Math", "80", "2"),
				longRow("S2", "Math", "70", "1"),
			})

			convey.Convey("Then the load report describes the snapshot", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(info.Version, convey.ShouldNotBeEmpty)
				convey.So(info.Records, convey.ShouldEqual, 3)
				convey.So(info.Students, convey.ShouldEqual, 2)
				convey.So(info.Subjects, convey.ShouldEqual, 1)
			})

			convey.Convey("And stats expose the active dataset", func() {
				convey.So(err, convey.ShouldBeNil)
				dataset, ok := svc.GetStats()["dataset"].(map[string]interface{})
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(dataset["records"], convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading a second dataset", func() {
			first, err := svc.LoadDataset(ctx, []ingest.RawRow{longRow("S1", "Math", "50", "1")})
			convey.So(err, convey.ShouldBeNil)
			second, err := svc.LoadDataset(ctx, []ingest.RawRow{longRow("S2", "Art", "60", "1")})
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then versions differ and the new snapshot is active", func() {
				convey.So(second.Version, convey.ShouldNotEqual, first.Version)
				_, err := svc.StudentSummary(ctx, "S1")
				convey.So(errors.Is(err, stats.ErrStudentNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the dataset is malformed", func() {
			_, err := svc.LoadDataset(ctx, []ingest.RawRow{{"bogus": "1"}})

			convey.Convey("Then the schema error surfaces and nothing activates", func() {
				convey.So(errors.Is(err, ingest.ErrSchema), convey.ShouldBeTrue)
				_, err := svc.CohortTrends(ctx)
				convey.So(errors.Is(err, repository.ErrNoData), convey.ShouldBeTrue)
			})
		})
	})
}

func TestStudentQueries(t *testing.T) {
	convey.Convey("Given a service with a loaded dataset", t, func() {
		ctx := context.Background()
		svc := startedService(ctx)
		defer svc.Stop()

		_, err := svc.LoadDataset(ctx, []ingest.RawRow{
			longRow("S1", "Math", "50", "1"),
			longRow("S1", "Math", "80", "2"),
		})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When querying the student summary", func() {
			summary, err := svc.StudentSummary(ctx, "S1")

			convey.Convey("Then the overall average blends both periods", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(summary.StudentID, convey.ShouldEqual, "S1")
				convey.So(summary.OverallAverage, convey.ShouldEqual, 65.0)
				convey.So(summary.TotalPeriods, convey.ShouldEqual, 2)
			})

			convey.Convey("And the history labels its periods", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(summary.History, convey.ShouldHaveLength, 2)
				convey.So(summary.History[0].PeriodLabel, convey.ShouldEqual, "Year 1 Sem 1")
				convey.So(summary.History[0].AverageScore, convey.ShouldEqual, 50.0)
				convey.So(summary.History[1].AverageScore, convey.ShouldEqual, 80.0)
			})

			convey.Convey("And the +30 jump renders exactly one improvement insight", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(summary.Insights, convey.ShouldHaveLength, 1)
				convey.So(summary.Insights[0], convey.ShouldEqual,
					"Student S1 improved their average score by 30.0 points in Year 1 Sem 2 (from 50.0 to 80.0).")
			})
		})

		convey.Convey("When querying an unknown student", func() {
			_, err := svc.StudentSummary(ctx, "S9")

			convey.Convey("Then the not-found error surfaces", func() {
				convey.So(errors.Is(err, stats.ErrStudentNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When querying the forecast", func() {
			forecast, err := svc.StudentForecast(ctx, "S1")

			convey.Convey("Then the trend projects one period ahead", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(forecast.PredictedScore, convey.ShouldEqual, 100.0)
				convey.So(forecast.PeriodLabel, convey.ShouldEqual, "Year 2 Sem 1")
				convey.So(forecast.Confidence, convey.ShouldEqual, 1.0)
			})
		})

		convey.Convey("When querying the risk assessment", func() {
			risk, err := svc.StudentRisk(ctx, "S1")

			convey.Convey("Then an improving student is low risk", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(risk.Level, convey.ShouldEqual, string(predict.RiskLow))
			})
		})

		convey.Convey("When querying the profile", func() {
			profile, err := svc.StudentProfile(ctx, "S1")

			convey.Convey("Then the climb classifies as fast improvement", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(profile.Label, convey.ShouldEqual, predict.ProfileFastImprover)
				convey.So(profile.Slope, convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestCohortQueries(t *testing.T) {
	convey.Convey("Given a service with a multi-subject dataset", t, func() {
		ctx := context.Background()
		svc := startedService(ctx)
		defer svc.Stop()

		_, err := svc.LoadDataset(ctx, []ingest.RawRow{
			longRow("S1", "Math", "90", "1"), longRow("S1", "Physics", "85", "1"),
			longRow("S2", "Math", "40", "1"), longRow("S2", "Physics", "35", "1"),
			longRow("S3", "Math", "70", "1"), longRow("S3", "Physics", "65", "1"),
		})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When querying cohort trends", func() {
			trends, err := svc.CohortTrends(ctx)

			convey.Convey("Then each subject-period pair averages across students", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(trends, convey.ShouldHaveLength, 2)
				convey.So(trends[0].Subject, convey.ShouldEqual, "math")
				convey.So(trends[0].CohortAverageScore, convey.ShouldAlmostEqual, 66.67, 0.01)
			})
		})

		convey.Convey("When querying correlations", func() {
			report, err := svc.CohortCorrelations(ctx)

			convey.Convey("Then the strongly coupled pair is reported with narrative", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(report.Pairs, convey.ShouldHaveLength, 1)
				convey.So(report.Pairs[0].Coefficient, convey.ShouldAlmostEqual, 1.0, 1e-6)
				convey.So(report.Insights, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When querying the subject analysis", func() {
			analysis, err := svc.SubjectAnalysis(ctx)

			convey.Convey("Then both subjects are placed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(analysis.Subjects, convey.ShouldHaveLength, 2)
			})
		})
	})

	convey.Convey("Given a service without a dataset", t, func() {
		ctx := context.Background()
		svc := startedService(ctx)
		defer svc.Stop()

		convey.Convey("When querying anything", func() {
			_, trendErr := svc.CohortTrends(ctx)
			_, summaryErr := svc.StudentSummary(ctx, "S1")

			convey.Convey("Then the no-data error surfaces", func() {
				convey.So(errors.Is(trendErr, repository.ErrNoData), convey.ShouldBeTrue)
				convey.So(errors.Is(summaryErr, repository.ErrNoData), convey.ShouldBeTrue)
			})
		})
	})
}
