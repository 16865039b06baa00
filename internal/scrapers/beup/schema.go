package beup

import (
	"strings"
	"university-results/lib/htmlutil"
)

// scalarField maps one string field of StudentResult onto the result page.
// post receives the untrimmed text of everything `selector` matches, an
// empty output falls back to `fallback`.
type scalarField struct {
	name     string
	selector string
	fallback string
	post     func(raw string) string
	target   func(r *StudentResult) *string
}

// subjectTable maps an ASP.NET GridView of subjects onto a subject list.
type subjectTable struct {
	name     string
	selector string
	target   func(r *StudentResult) *[]Subject
}

const (
	notAvailable   = "N/A"
	sgpaNotFound   = "SGPA not found"
	gradeMissing   = "NA"
	subjectColumns = 7

	semesterGradesRow = "#ContentPlaceHolder1_GridView3 tr:nth-child(2)"
)

var scalarFields = []scalarField{
	{
		name:     "exam_name",
		selector: "#ContentPlaceHolder1_DataList4_Exam_Name_0",
		fallback: notAvailable,
		post:     strings.TrimSpace,
		target:   func(r *StudentResult) *string { return &r.ExamName },
	},
	{
		name:     "semester",
		selector: "#ContentPlaceHolder1_DataList2_Exam_Name_0",
		fallback: notAvailable,
		post:     strings.TrimSpace,
		target:   func(r *StudentResult) *string { return &r.Semester },
	},
	{
		name:     "exam_date",
		selector: "#ContentPlaceHolder1_DataList2 td:nth-of-type(2)",
		fallback: notAvailable,
		post:     afterLastColon,
		target:   func(r *StudentResult) *string { return &r.ExamDate },
	},
	{
		name:     "student_name",
		selector: "#ContentPlaceHolder1_DataList1_StudentNameLabel_0",
		fallback: notAvailable,
		post:     strings.TrimSpace,
		target:   func(r *StudentResult) *string { return &r.StudentName },
	},
	{
		name:     "college_name",
		selector: "#ContentPlaceHolder1_DataList1_CollegeNameLabel_0",
		fallback: notAvailable,
		post:     strings.TrimSpace,
		target:   func(r *StudentResult) *string { return &r.CollegeName },
	},
	{
		name:     "course_name",
		selector: "#ContentPlaceHolder1_DataList1_CourseLabel_0",
		fallback: notAvailable,
		post:     strings.TrimSpace,
		target:   func(r *StudentResult) *string { return &r.CourseName },
	},
	{
		name:     "sgpa",
		selector: "#ContentPlaceHolder1_DataList5_GROSSTHEORYTOTALLabel_0",
		fallback: sgpaNotFound,
		post:     strings.TrimSpace,
		target:   func(r *StudentResult) *string { return &r.SGPA },
	},
	{
		name:     "remarks",
		selector: "#ContentPlaceHolder1_DataList3_remarkLabel_0",
		fallback: "",
		post:     NormalizeRemarks,
		target:   func(r *StudentResult) *string { return &r.Remarks },
	},
	{
		name:     "publish_date",
		selector: "#ContentPlaceHolder1_DataList3 tr:nth-of-type(2) td",
		fallback: "",
		post:     afterLastColon,
		target:   func(r *StudentResult) *string { return &r.PublishDate },
	},
}

var subjectTables = []subjectTable{
	{
		name:     "theory_subjects",
		selector: "#ContentPlaceHolder1_GridView1",
		target:   func(r *StudentResult) *[]Subject { return &r.TheorySubjects },
	},
	{
		name:     "practical_subjects",
		selector: "#ContentPlaceHolder1_GridView2",
		target:   func(r *StudentResult) *[]Subject { return &r.PracticalSubjects },
	},
}

func afterLastColon(raw string) string {
	return htmlutil.LastSegment(raw, ":")
}

// NormalizeRemarks collapses a failing remark down to "FAIL: <subjects>"
// using the text between the first "FAIL:" and the next one, anything else
// is only trimmed.
func NormalizeRemarks(raw string) string {
	segments := strings.Split(raw, "FAIL:")
	if len(segments) < 2 {
		return strings.TrimSpace(raw)
	}
	return "FAIL: " + strings.TrimSpace(segments[1])
}
