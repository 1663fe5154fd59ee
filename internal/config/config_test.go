package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/sage/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		cfg := config.New()

		convey.Convey("Then the documented defaults hold", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.SemestersPerYear, convey.ShouldEqual, 2)
			convey.So(cfg.MinScore, convey.ShouldEqual, 0)
			convey.So(cfg.MaxScore, convey.ShouldEqual, 100)
			convey.So(cfg.MaxSkipRatio, convey.ShouldEqual, 0.2)
			convey.So(cfg.MinCorrelationSamples, convey.ShouldEqual, 3)
			convey.So(cfg.MinSubjects, convey.ShouldEqual, 2)
		})

		convey.Convey("And the detection thresholds match the rule set", func() {
			convey.So(cfg.Thresholds.Improvement, convey.ShouldEqual, 5.0)
			convey.So(cfg.Thresholds.Decline, convey.ShouldEqual, 5.0)
			convey.So(cfg.Thresholds.SuddenDrop, convey.ShouldEqual, 15.0)
			convey.So(cfg.Thresholds.Variance, convey.ShouldEqual, 10.0)
			convey.So(cfg.Thresholds.MinVariancePeriods, convey.ShouldEqual, 3)
			convey.So(cfg.Thresholds.Correlation, convey.ShouldEqual, 0.6)
			convey.So(cfg.Thresholds.WeakSubjectFloor, convey.ShouldEqual, 50.0)
		})

		convey.Convey("And the risk weighting matches the heuristic model", func() {
			convey.So(cfg.Risk.LowAverageWeight, convey.ShouldEqual, 0.4)
			convey.So(cfg.Risk.Cap, convey.ShouldEqual, 0.95)
			convey.So(cfg.Risk.CriticalAbove, convey.ShouldEqual, 0.7)
			convey.So(cfg.Risk.ModerateAbove, convey.ShouldEqual, 0.4)
		})
	})
}

func TestLoad(t *testing.T) {
	convey.Convey("Given a clean environment", t, func() {
		ctx := context.Background()

		convey.Convey("When loading with no overrides", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then defaults come back validated", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			})
		})

		convey.Convey("When environment variables override defaults", func() {
			_ = os.Setenv("SAGE_ADDR", ":7070")
			_ = os.Setenv("SAGE_MIN_CORRELATION_SAMPLES", "5")
			defer func() {
				_ = os.Unsetenv("SAGE_ADDR")
				_ = os.Unsetenv("SAGE_MIN_CORRELATION_SAMPLES")
			}()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the overrides apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MinCorrelationSamples, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When a YAML file provides nested thresholds", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			yaml := "addr: \":6060\"\nthresholds:\n  improvement: 8\n  sudden_drop: 25\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0600), convey.ShouldBeNil)
			_ = os.Setenv("SAGE_CONFIG", path)
			defer func() { _ = os.Unsetenv("SAGE_CONFIG") }()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values layer over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.Thresholds.Improvement, convey.ShouldEqual, 8.0)
				convey.So(cfg.Thresholds.SuddenDrop, convey.ShouldEqual, 25.0)
				convey.So(cfg.Thresholds.Decline, convey.ShouldEqual, 5.0)
			})
		})

		convey.Convey("When the file and environment both override", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			convey.So(os.WriteFile(path, []byte("addr: \":6060\"\n"), 0600), convey.ShouldBeNil)
			_ = os.Setenv("SAGE_CONFIG", path)
			_ = os.Setenv("SAGE_ADDR", ":5050")
			defer func() {
				_ = os.Unsetenv("SAGE_CONFIG")
				_ = os.Unsetenv("SAGE_ADDR")
			}()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the environment wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5050")
			})
		})

		convey.Convey("When the configured file does not exist", func() {
			_ = os.Setenv("SAGE_CONFIG", "/nonexistent/config.yaml")
			defer func() { _ = os.Unsetenv("SAGE_CONFIG") }()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestValidation(t *testing.T) {
	convey.Convey("Given invalid overrides", t, func() {
		ctx := context.Background()

		cases := map[string]string{
			"SAGE_ADDR":                    "",
			"SAGE_MAX_SKIP_RATIO":          "1.5",
			"SAGE_SEMESTERS_PER_YEAR":      "0",
			"SAGE_MIN_CORRELATION_SAMPLES": "1",
		}
		for key, value := range cases {
			convey.Convey("When "+key+" is set to an invalid value", func() {
				_ = os.Setenv(key, value)
				defer func() { _ = os.Unsetenv(key) }()

				_, err := config.Load(ctx)

				convey.Convey("Then loading fails with a validation error", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When score bounds are inverted via file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			convey.So(os.WriteFile(path, []byte("min_score: 90\nmax_score: 10\n"), 0600), convey.ShouldBeNil)
			_ = os.Setenv("SAGE_CONFIG", path)
			defer func() { _ = os.Unsetenv("SAGE_CONFIG") }()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the sudden-drop threshold undercuts decline via file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			yaml := "thresholds:\n  decline: 10\n  sudden_drop: 8\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0600), convey.ShouldBeNil)
			_ = os.Setenv("SAGE_CONFIG", path)
			defer func() { _ = os.Unsetenv("SAGE_CONFIG") }()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
