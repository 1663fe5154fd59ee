package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording ingestion metrics", func() {
			Convey("Then dataset loads should record", func() {
				So(func() {
					RecordDatasetLoaded(100, 3, 2)
					RecordDatasetLoaded(0, 0, 0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording query metrics", func() {
			Convey("Then query counts should record", func() {
				So(func() {
					RecordQuery("student_summary")
					RecordQuery("cohort_trends")
				}, ShouldNotPanic)
			})

			Convey("And query failures should record", func() {
				So(func() {
					RecordQueryFailure("student_summary")
				}, ShouldNotPanic)
			})

			Convey("And query latency should record", func() {
				So(func() {
					RecordQueryLatency("student_summary", 1.5)
					RecordQueryLatency("student_summary", 150.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording insight metrics", func() {
			Convey("Then emitted counts should record", func() {
				So(func() {
					RecordInsights("improvement", 3)
					RecordInsights("sudden_drop", 1)
				}, ShouldNotPanic)
			})

			Convey("And zero counts should be a no-op", func() {
				So(func() {
					RecordInsights("decline", 0)
				}, ShouldNotPanic)
			})
		})

		Convey("When updating the active dataset gauges", func() {
			So(func() {
				UpdateActiveDataset(1000, 50, 6)
				UpdateActiveDataset(0, 0, 0)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("students", "GET", "200")
				RecordHTTPRequestDuration("students", "GET", "200", 12.5)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global metrics registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should exist and gather without error", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeNil)
			})
		})
	})
}
