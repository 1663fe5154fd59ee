package gendata_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	csvsource "github.com/okian/sage/internal/adapters/csvsource"
	gendata "github.com/okian/sage/internal/gendata"
	"github.com/okian/sage/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestGenerate(t *testing.T) {
	convey.Convey("Given a seeded generator", t, func() {
		ctx := context.Background()
		cfg := &gendata.Config{Students: 14, Semesters: 4, Seed: 7}

		convey.Convey("When generating a cohort", func() {
			rows, err := gendata.New(cfg.Seed).Generate(ctx, cfg)

			convey.Convey("Then every student gets every subject every semester", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 14*4*len(gendata.DefaultSubjects))
			})

			convey.Convey("And scores stay within bounds", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, r := range rows {
					convey.So(r.Score, convey.ShouldBeBetweenOrEqual, 0, 100)
				}
			})

			convey.Convey("And semesters run from one upward", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows[0].Semester, convey.ShouldEqual, 1)
				convey.So(rows[len(rows)-1].Semester, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When generating twice with the same seed", func() {
			a, errA := gendata.New(7).Generate(ctx, cfg)
			b, errB := gendata.New(7).Generate(ctx, cfg)

			convey.Convey("Then the cohorts are identical", func() {
				convey.So(errA, convey.ShouldBeNil)
				convey.So(errB, convey.ShouldBeNil)
				convey.So(a, convey.ShouldResemble, b)
			})
		})

		convey.Convey("When generating with different seeds", func() {
			a, _ := gendata.New(7).Generate(ctx, cfg)
			b, _ := gendata.New(8).Generate(ctx, cfg)

			convey.Convey("Then the cohorts differ", func() {
				convey.So(a, convey.ShouldNotResemble, b)
			})
		})

		convey.Convey("When the config is invalid", func() {
			_, err := gendata.New(1).Generate(ctx, &gendata.Config{Students: 0, Semesters: 4})

			convey.Convey("Then it fails with a config error", func() {
				convey.So(errors.Is(err, gendata.ErrBadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When custom subjects are configured", func() {
			custom := &gendata.Config{Students: 2, Semesters: 2, Subjects: []string{"algebra"}}
			rows, err := gendata.New(1).Generate(ctx, custom)

			convey.Convey("Then only those subjects appear", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 4)
				convey.So(rows[0].Subject, convey.ShouldEqual, "algebra")
			})
		})
	})
}

func TestWriteCSV(t *testing.T) {
	convey.Convey("Given generated rows", t, func() {
		ctx := context.Background()
		cfg := &gendata.Config{Students: 3, Semesters: 2, Seed: 1}
		rows, err := gendata.New(cfg.Seed).Generate(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When rendering them as CSV", func() {
			var buf bytes.Buffer
			convey.So(gendata.WriteCSV(&buf, rows), convey.ShouldBeNil)

			convey.Convey("Then the output starts with the long-layout header", func() {
				convey.So(strings.HasPrefix(buf.String(), "student_id,subject,score,semester\n"), convey.ShouldBeTrue)
			})

			convey.Convey("And the ingestion reader accepts it round-trip", func() {
				parsed, err := csvsource.Read(bytes.NewReader(buf.Bytes()))
				convey.So(err, convey.ShouldBeNil)
				convey.So(parsed, convey.ShouldHaveLength, len(rows))
				convey.So(parsed[0]["student_id"], convey.ShouldEqual, rows[0].StudentID)
			})
		})
	})
}
