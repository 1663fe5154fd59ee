package predict

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/sage/internal/domain/model"
)

// Latent-space configuration.
const (
	// MinLatentSubjects is the floor below which the projection is
	// undefined.
	MinLatentSubjects = 2

	latentDimensions = 2
	difficultyBase   = 100.0
)

// SubjectPlacement positions one subject in the 2-D latent space.
// Subjects close together tend to have students who perform similarly in
// both. Difficulty inverts the average: a subject averaging 90 has
// difficulty 10.
type SubjectPlacement struct {
	Subject      string
	X            float64
	Y            float64
	Difficulty   float64
	AverageScore float64
	StudentCount int
}

// SubjectAnalysis is the full latent-space result, with the share of
// variance each of the two components explains.
type SubjectAnalysis struct {
	Subjects          []SubjectPlacement
	VarianceExplained []float64
}

// AnalyzeSubjects projects subjects into a 2-D latent space via principal
// component analysis over the student-subject score matrix.
//
// Each student contributes their mean score per subject; cells for
// subjects a student never took are imputed with the subject mean so
// sparse enrollment does not skew the projection. Per-student columns are
// standardized before decomposition so no single student dominates the
// variance. Fails with ErrInsufficientData below minSubjects.
func AnalyzeSubjects(records []model.ResultRecord, minSubjects int) (SubjectAnalysis, error) {
	if minSubjects < MinLatentSubjects {
		minSubjects = MinLatentSubjects
	}

	type key struct {
		student string
		subject string
	}
	type acc struct {
		sum float64
		n   int
	}
	cells := make(map[key]*acc)
	subjectTotals := make(map[string]*acc)
	subjectStudents := make(map[string]map[string]struct{})
	studentSet := make(map[string]struct{})
	for _, r := range records {
		k := key{student: r.StudentID, subject: r.Subject}
		a, ok := cells[k]
		if !ok {
			a = &acc{}
			cells[k] = a
		}
		a.sum += r.Score
		a.n++

		t, ok := subjectTotals[r.Subject]
		if !ok {
			t = &acc{}
			subjectTotals[r.Subject] = t
			subjectStudents[r.Subject] = make(map[string]struct{})
		}
		t.sum += r.Score
		t.n++
		subjectStudents[r.Subject][r.StudentID] = struct{}{}
		studentSet[r.StudentID] = struct{}{}
	}

	subjects := make([]string, 0, len(subjectTotals))
	for s := range subjectTotals {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	students := make([]string, 0, len(studentSet))
	for s := range studentSet {
		students = append(students, s)
	}
	sort.Strings(students)

	if len(subjects) < minSubjects {
		return SubjectAnalysis{}, fmt.Errorf("%w: latent analysis needs at least %d subjects, have %d",
			ErrInsufficientData, minSubjects, len(subjects))
	}

	// Rows are subjects (the observations being projected), columns are
	// students (the features describing them).
	x := mat.NewDense(len(subjects), len(students), nil)
	for i, subj := range subjects {
		subjectMean := subjectTotals[subj].sum / float64(subjectTotals[subj].n)
		for j, stu := range students {
			if a, ok := cells[key{student: stu, subject: subj}]; ok {
				x.Set(i, j, a.sum/float64(a.n))
			} else {
				x.Set(i, j, subjectMean)
			}
		}
	}
	standardizeColumns(x)

	dims := latentDimensions
	if m := min(len(subjects), len(students)); m < dims {
		dims = m
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return SubjectAnalysis{}, fmt.Errorf("%w: principal component decomposition failed", ErrInsufficientData)
	}
	var vectors mat.Dense
	pc.VectorsTo(&vectors)
	var projected mat.Dense
	projected.Mul(x, vectors.Slice(0, len(students), 0, dims))

	vars := pc.VarsTo(nil)
	total := floats.Sum(vars)
	explained := make([]float64, dims)
	for i := 0; i < dims && i < len(vars); i++ {
		if total > 0 {
			explained[i] = round2(vars[i] / total)
		}
	}

	placements := make([]SubjectPlacement, len(subjects))
	for i, subj := range subjects {
		avg := subjectTotals[subj].sum / float64(subjectTotals[subj].n)
		p := SubjectPlacement{
			Subject:      subj,
			X:            round2(projected.At(i, 0)),
			Difficulty:   round1(difficultyBase - avg),
			AverageScore: round1(avg),
			StudentCount: len(subjectStudents[subj]),
		}
		if dims > 1 {
			p.Y = round2(projected.At(i, 1))
		}
		placements[i] = p
	}

	return SubjectAnalysis{Subjects: placements, VarianceExplained: explained}, nil
}

// standardizeColumns centers and scales each column to unit variance.
// Constant columns become zeros instead of NaNs.
func standardizeColumns(x *mat.Dense) {
	rows, cols := x.Dims()
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, x)
		mean := stat.Mean(col, nil)
		var ss float64
		for _, v := range col {
			ss += (v - mean) * (v - mean)
		}
		sd := math.Sqrt(ss / float64(rows))
		for i := 0; i < rows; i++ {
			if sd == 0 {
				x.Set(i, j, 0)
				continue
			}
			x.Set(i, j, (col[i]-mean)/sd)
		}
	}
}
