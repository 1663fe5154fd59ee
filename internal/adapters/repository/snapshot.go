package repository

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sage/internal/domain/ingest"
	"github.com/okian/sage/internal/domain/model"
)

// Snapshot is one immutable, versioned view of the normalized dataset.
// All accessors return data owned by the snapshot; callers must not
// mutate the returned slices.
type Snapshot struct {
	version     string
	loadedAt    time.Time
	records     []model.ResultRecord
	byStudent   map[string][]model.ResultRecord
	students    []string
	subjects    []string
	diagnostics ingest.Diagnostics
}

// NewSnapshot builds a snapshot from normalized records, indexing them
// per student for the per-student queries.
func NewSnapshot(records []model.ResultRecord, diagnostics ingest.Diagnostics) *Snapshot {
	byStudent := make(map[string][]model.ResultRecord)
	subjectSet := make(map[string]struct{})
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
		subjectSet[r.Subject] = struct{}{}
	}
	students := make([]string, 0, len(byStudent))
	for id := range byStudent {
		students = append(students, id)
	}
	sort.Strings(students)
	subjects := make([]string, 0, len(subjectSet))
	for s := range subjectSet {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	return &Snapshot{
		version:     uuid.New().String(),
		loadedAt:    time.Now().UTC(),
		records:     records,
		byStudent:   byStudent,
		students:    students,
		subjects:    subjects,
		diagnostics: diagnostics,
	}
}

// Version returns the snapshot's unique version id.
func (s *Snapshot) Version() string { return s.version }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Records returns all normalized records in canonical order.
func (s *Snapshot) Records() []model.ResultRecord { return s.records }

// StudentRecords returns one student's records, or nil if unknown.
func (s *Snapshot) StudentRecords(studentID string) []model.ResultRecord {
	return s.byStudent[studentID]
}

// Students returns the sorted student ids present in the snapshot.
func (s *Snapshot) Students() []string { return s.students }

// Subjects returns the sorted subject names present in the snapshot.
func (s *Snapshot) Subjects() []string { return s.subjects }

// Len returns the record count.
func (s *Snapshot) Len() int { return len(s.records) }

// Diagnostics returns the ingestion diagnostics the snapshot was loaded
// with.
func (s *Snapshot) Diagnostics() ingest.Diagnostics { return s.diagnostics }
