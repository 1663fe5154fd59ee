package gendata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// File permission constants.
const (
	outputFilePermission = 0600
)

// WriteCSV renders rows in the long layout the ingestion stage accepts.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"student_id", "subject", "score", "semester"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.StudentID,
			r.Subject,
			strconv.FormatFloat(r.Score, 'f', 1, 64),
			strconv.Itoa(r.Semester),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes rows to path, generating a timestamped filename
// when path is empty. Returns the path written.
func WriteCSVFile(path string, rows []Row) (string, error) {
	if path == "" {
		path = "generated_cohort_" + time.Now().Format("20060102_150405") + ".csv"
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := WriteCSV(f, rows); err != nil {
		return "", err
	}
	return path, nil
}
