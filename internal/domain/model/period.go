// Package model contains domain models passed between layers.
package model

import "fmt"

// TimePeriod identifies one academic term. Index is the global ordering
// key (the raw semester number); Year and Term are derived from it and
// exist only for labeling.
type TimePeriod struct {
	Year  int
	Term  int
	Index int
}

// NewTimePeriod derives a period from a semester number. Semesters are
// 1-based; semestersPerYear controls how they fold into years.
func NewTimePeriod(semester, semestersPerYear int) TimePeriod {
	if semestersPerYear < 1 {
		semestersPerYear = 1
	}
	return TimePeriod{
		Year:  (semester-1)/semestersPerYear + 1,
		Term:  (semester-1)%semestersPerYear + 1,
		Index: semester,
	}
}

// Label renders the human-readable form, e.g. "Year 1 Sem 2".
func (p TimePeriod) Label() string {
	return fmt.Sprintf("Year %d Sem %d", p.Year, p.Term)
}

// Before reports whether p precedes q chronologically.
func (p TimePeriod) Before(q TimePeriod) bool {
	return p.Index < q.Index
}

// Next returns the period immediately following p.
func (p TimePeriod) Next(semestersPerYear int) TimePeriod {
	return NewTimePeriod(p.Index+1, semestersPerYear)
}
