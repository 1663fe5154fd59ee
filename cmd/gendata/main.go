package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/sage/internal/gendata"
	"github.com/okian/sage/pkg/logger"
)

// Default run configuration.
const (
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		students  = flag.Int("students", gendata.DefaultStudents, "Number of students to generate")
		semesters = flag.Int("semesters", gendata.DefaultSemesters, "Number of semesters per student")
		seed      = flag.Int64("seed", gendata.DefaultSeed, "Random seed; same seed yields the same cohort")
		output    = flag.String("output", "", "Output CSV file (default: generated_cohort_TIMESTAMP.csv)")
		baseURL   = flag.String("url", "", "Base URL of the service to submit the dataset to (optional)")
		verbose   = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &gendata.Config{
		Students:   *students,
		Semesters:  *semesters,
		Seed:       *seed,
		OutputFile: *output,
		BaseURL:    *baseURL,
		Verbose:    *verbose,
	}
	if cfg.Verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			logger.Get().Warn(ctx, "failed to set debug level", logger.Error(err))
		}
	}

	gen := gendata.New(cfg.Seed)
	rows, err := gen.Generate(ctx, cfg)
	if err != nil {
		logger.Get().Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}

	path, err := gendata.WriteCSVFile(cfg.OutputFile, rows)
	if err != nil {
		logger.Get().Error(ctx, "failed to write cohort csv", logger.Error(err))
		os.Exit(1)
	}
	logger.Get().Info(ctx, "cohort written", logger.String("path", path), logger.Int("rows", len(rows)))

	if cfg.BaseURL != "" {
		if err := gendata.Submit(ctx, cfg.BaseURL, rows); err != nil {
			logger.Get().Error(ctx, "submission failed", logger.Error(err))
			os.Exit(1)
		}
	}
}
