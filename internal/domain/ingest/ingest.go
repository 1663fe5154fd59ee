// Package ingest turns loosely typed tabular rows into normalized result
// records. It validates the schema, coerces types, derives the orderable
// time period and deduplicates, reporting everything it skipped.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/sage/internal/domain/model"
)

// RawRow is one loosely typed input row keyed by column header.
type RawRow map[string]string

// Default normalization configuration.
const (
	defaultSemestersPerYear = 2
	defaultMinScore         = 0
	defaultMaxScore         = 100
	defaultMaxSkipRatio     = 0.2
)

// Long-layout column names.
const (
	colStudentID = "student_id"
	colSubject   = "subject"
	colScore     = "score"
	colSemester  = "semester"
)

// Wide-layout column names, matching the upstream export format.
const (
	colWideStudentID = "University_Roll_No"
	colWideSemester  = "Semester"
)

// Skip reasons reported in Diagnostics.SkippedReasons.
const (
	ReasonMissingStudentID = "missing_student_id"
	ReasonBadScore         = "bad_score"
	ReasonScoreOutOfRange  = "score_out_of_range"
	ReasonBadSemester      = "bad_semester"
)

// Diagnostics summarizes what normalization did with a batch.
type Diagnostics struct {
	TotalRows      int            `json:"total_rows"`
	Kept           int            `json:"kept"`
	Skipped        int            `json:"skipped"`
	Deduplicated   int            `json:"deduplicated"`
	SkippedReasons map[string]int `json:"skipped_reasons,omitempty"`
}

func (d *Diagnostics) skip(reason string) {
	d.Skipped++
	if d.SkippedReasons == nil {
		d.SkippedReasons = make(map[string]int)
	}
	d.SkippedReasons[reason]++
}

// Normalizer validates and normalizes raw rows.
type Normalizer struct {
	semestersPerYear int
	minScore         float64
	maxScore         float64
	maxSkipRatio     float64
	subjectColumns   []string
}

// New creates a Normalizer with default configuration.
func New(opts ...Option) *Normalizer {
	z := &Normalizer{
		semestersPerYear: defaultSemestersPerYear,
		minScore:         defaultMinScore,
		maxScore:         defaultMaxScore,
		maxSkipRatio:     defaultMaxSkipRatio,
		subjectColumns: []string{
			"Subject_1", "Subject_2", "Subject_3",
			"Subject_4", "Subject_5", "Subject_6",
		},
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Normalize converts rows into canonical records plus diagnostics.
//
// Two input layouts are accepted: long rows carrying student_id, subject,
// semester and score columns, and wide rows carrying one score column per
// subject. Row-level problems are skipped and counted; duplicates for the
// same (student, subject, period) resolve last-write-wins in input order.
// When the skipped share exceeds the configured tolerance the whole batch
// fails with ErrDataQuality.
func (z *Normalizer) Normalize(ctx context.Context, rows []RawRow) ([]model.ResultRecord, Diagnostics, error) {
	diag := Diagnostics{TotalRows: len(rows)}
	if len(rows) == 0 {
		return nil, diag, fmt.Errorf("%w: empty input", ErrSchema)
	}

	long, err := z.detectLayout(rows[0])
	if err != nil {
		return nil, diag, err
	}

	byKey := make(map[model.Key]model.ResultRecord)
	for _, row := range rows {
		select {
		case <-ctx.Done():
			return nil, diag, fmt.Errorf("normalize cancelled: %w", ctx.Err())
		default:
		}
		if long {
			z.normalizeLong(row, byKey, &diag)
		} else {
			z.normalizeWide(row, byKey, &diag)
		}
	}

	attempted := len(byKey) + diag.Deduplicated + diag.Skipped
	if diag.Skipped > 0 && attempted > 0 {
		if ratio := float64(diag.Skipped) / float64(attempted); ratio > z.maxSkipRatio {
			return nil, diag, fmt.Errorf("%w: %d of %d rows skipped", ErrDataQuality, diag.Skipped, attempted)
		}
	}

	records := make([]model.ResultRecord, 0, len(byKey))
	for _, rec := range byKey {
		records = append(records, rec)
	}
	// Canonical ordering keeps output deterministic regardless of map
	// iteration order.
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.StudentID != b.StudentID {
			return a.StudentID < b.StudentID
		}
		if a.Period.Index != b.Period.Index {
			return a.Period.Index < b.Period.Index
		}
		return a.Subject < b.Subject
	})
	diag.Kept = len(records)
	return records, diag, nil
}

// detectLayout inspects the first row's columns. Long wins when its full
// column set is present; otherwise the wide layout is required.
func (z *Normalizer) detectLayout(row RawRow) (long bool, err error) {
	if hasColumns(row, colStudentID, colSubject, colScore, colSemester) {
		return true, nil
	}
	if hasColumns(row, colWideStudentID, colWideSemester) {
		for _, col := range z.subjectColumns {
			if _, ok := row[col]; ok {
				return false, nil
			}
		}
		return false, fmt.Errorf("%w: no subject columns found", ErrSchema)
	}
	return false, fmt.Errorf("%w: need either %s/%s/%s/%s or %s/%s",
		ErrSchema, colStudentID, colSubject, colSemester, colScore, colWideStudentID, colWideSemester)
}

func (z *Normalizer) normalizeLong(row RawRow, byKey map[model.Key]model.ResultRecord, diag *Diagnostics) {
	student := strings.TrimSpace(row[colStudentID])
	if student == "" {
		diag.skip(ReasonMissingStudentID)
		return
	}
	semester, ok := parseSemester(row[colSemester])
	if !ok {
		diag.skip(ReasonBadSemester)
		return
	}
	z.keep(byKey, diag, student, row[colSubject], semester, row[colScore])
}

func (z *Normalizer) normalizeWide(row RawRow, byKey map[model.Key]model.ResultRecord, diag *Diagnostics) {
	student := strings.TrimSpace(row[colWideStudentID])
	if student == "" {
		diag.skip(ReasonMissingStudentID)
		return
	}
	semester, ok := parseSemester(row[colWideSemester])
	if !ok {
		diag.skip(ReasonBadSemester)
		return
	}
	for _, col := range z.subjectColumns {
		raw, present := row[col]
		// An absent or blank cell means the student did not take the
		// subject that semester; that is not a data problem.
		if !present || strings.TrimSpace(raw) == "" {
			continue
		}
		z.keep(byKey, diag, student, col, semester, raw)
	}
}

// keep validates the score, builds the record and applies last-write-wins
// deduplication.
func (z *Normalizer) keep(byKey map[model.Key]model.ResultRecord, diag *Diagnostics, student, subject string, semester int, rawScore string) {
	score, err := strconv.ParseFloat(strings.TrimSpace(rawScore), 64)
	if err != nil {
		diag.skip(ReasonBadScore)
		return
	}
	if score < z.minScore || score > z.maxScore {
		diag.skip(ReasonScoreOutOfRange)
		return
	}
	rec := model.ResultRecord{
		StudentID: student,
		Subject:   NormalizeSubject(subject),
		Period:    model.NewTimePeriod(semester, z.semestersPerYear),
		Score:     score,
	}
	if _, seen := byKey[rec.Key()]; seen {
		diag.Deduplicated++
	}
	byKey[rec.Key()] = rec
}

// NormalizeSubject canonicalizes a subject name: trimmed, inner runs of
// whitespace collapsed, case-folded.
func NormalizeSubject(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// parseSemester accepts plain integers ("3") and labeled forms ("Sem 3"),
// taking the first run of digits.
func parseSemester(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n, true
	}
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil && n > 0
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(s[start:])
		return n, err == nil && n > 0
	}
	return 0, false
}

func hasColumns(row RawRow, cols ...string) bool {
	for _, c := range cols {
		if _, ok := row[c]; !ok {
			return false
		}
	}
	return true
}
