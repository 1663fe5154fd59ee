package model

// ResultRecord is one normalized row of score data: a single student's
// score in a single subject during a single period. Records are immutable
// once produced by ingestion.
type ResultRecord struct {
	StudentID string
	Subject   string
	Period    TimePeriod
	Score     float64
}

// Key identifies the (student, subject, period) tuple a record belongs to.
// At most one record per key exists after normalization.
type Key struct {
	StudentID string
	Subject   string
	Period    int
}

// Key returns the deduplication key for the record.
func (r ResultRecord) Key() Key {
	return Key{StudentID: r.StudentID, Subject: r.Subject, Period: r.Period.Index}
}

// HistoryPoint is one entry of a student's blended history: the average
// score across all subjects taken in that period.
type HistoryPoint struct {
	Period  TimePeriod
	Average float64
}

// CohortTrend is the mean score across all students for one subject in
// one period.
type CohortTrend struct {
	Subject string
	Period  TimePeriod
	Average float64
}

// CorrelationPair holds the Pearson coefficient for an unordered subject
// pair, computed over paired student+period samples. SubjectA sorts
// before SubjectB.
type CorrelationPair struct {
	SubjectA    string
	SubjectB    string
	Coefficient float64
	Samples     int
}
