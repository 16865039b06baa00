package beup

import (
	"bytes"
	"encoding/json"
)

const (
	University = "Bihar Engineering University, Patna"

	// NoRecordMarker is what the portal renders in place of a result when the
	// registration number has nothing published for the requested semester.
	NoRecordMarker = "No Record Found !!!"
)

// SemesterLabels are the column headings of the semester grade summary, in
// the order they appear on the result page.
var SemesterLabels = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "Cur. CGPA"}

type Subject struct {
	Code   string `json:"subject_code"`
	Name   string `json:"subject_name"`
	ESE    string `json:"ese"`
	IA     string `json:"ia"`
	Total  string `json:"total"`
	Grade  string `json:"grade"`
	Credit string `json:"credit"`
}

// SemesterGrades maps a semester label to the grade printed under it.
type SemesterGrades map[string]string

// MarshalJSON writes the known labels in SemesterLabels order instead of
// the alphabetical order encoding/json uses for maps.
func (g SemesterGrades) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, label := range SemesterLabels {
		grade, ok := g[label]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(grade)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type StudentResult struct {
	RegistrationNo    string         `json:"registration_no"`
	University        string         `json:"university"`
	ExamName          string         `json:"exam_name"`
	Semester          string         `json:"semester"`
	ExamDate          string         `json:"exam_date"`
	StudentName       string         `json:"student_name"`
	CollegeName       string         `json:"college_name"`
	CourseName        string         `json:"course_name"`
	TheorySubjects    []Subject      `json:"theory_subjects"`
	PracticalSubjects []Subject      `json:"practical_subjects"`
	SGPA              string         `json:"sgpa"`
	SemesterGrades    SemesterGrades `json:"semester_grades"`
	Remarks           string         `json:"remarks"`
	PublishDate       string         `json:"publish_date"`
}
