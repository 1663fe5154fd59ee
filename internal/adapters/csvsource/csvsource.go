// Package csvsource reads tabular CSV input into raw ingestion rows.
// It owns nothing beyond the header-to-column mapping; all validation
// and type coercion happens in the ingest package.
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/okian/sage/internal/domain/ingest"
)

// Read parses CSV from r into header-keyed raw rows. The first record is
// the header; cells are paired with trimmed header names positionally.
func Read(r io.Reader) ([]ingest.RawRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrNoHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]ingest.RawRow, 0)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		row := make(ingest.RawRow, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
