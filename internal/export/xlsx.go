package export

import (
	"fmt"
	"io"
	"university-results/internal/scrapers/beup"

	"github.com/xuri/excelize/v2"
)

const (
	ResultsSheet  = "Results"
	SubjectsSheet = "Subjects"
)

func resultsHeader() []any {
	header := []any{
		"registration_no",
		"student_name",
		"college_name",
		"course_name",
		"exam_name",
		"semester",
		"exam_date",
		"sgpa",
	}
	for _, label := range beup.SemesterLabels {
		header = append(header, label)
	}
	return append(header, "remarks", "publish_date")
}

func resultsRow(r beup.StudentResult) []any {
	row := []any{
		r.RegistrationNo,
		r.StudentName,
		r.CollegeName,
		r.CourseName,
		r.ExamName,
		r.Semester,
		r.ExamDate,
		r.SGPA,
	}
	for _, label := range beup.SemesterLabels {
		row = append(row, r.SemesterGrades[label])
	}
	return append(row, r.Remarks, r.PublishDate)
}

var subjectsHeader = []any{
	"registration_no",
	"kind",
	"subject_code",
	"subject_name",
	"ese",
	"ia",
	"total",
	"grade",
	"credit",
}

func subjectRows(r beup.StudentResult) [][]any {
	var rows [][]any
	add := func(kind string, subjects []beup.Subject) {
		for _, s := range subjects {
			rows = append(rows, []any{
				r.RegistrationNo,
				kind,
				s.Code,
				s.Name,
				s.ESE,
				s.IA,
				s.Total,
				s.Grade,
				s.Credit,
			})
		}
	}
	add("theory", r.TheorySubjects)
	add("practical", r.PracticalSubjects)
	return rows
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	err = sw.SetRow("A1", header)
	if err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		err = sw.SetRow(cell, row)
		if err != nil {
			return err
		}
	}
	return sw.Flush()
}

// WriteWorkbook writes records as an xlsx workbook with one row per student
// on the Results sheet and one row per subject on the Subjects sheet.
func WriteWorkbook(w io.Writer, records []beup.StudentResult) error {
	f := excelize.NewFile()
	defer f.Close()

	err := f.SetSheetName("Sheet1", ResultsSheet)
	if err != nil {
		return err
	}
	_, err = f.NewSheet(SubjectsSheet)
	if err != nil {
		return err
	}

	results := make([][]any, 0, len(records))
	subjects := [][]any{}
	for _, r := range records {
		results = append(results, resultsRow(r))
		subjects = append(subjects, subjectRows(r)...)
	}

	err = writeSheet(f, ResultsSheet, resultsHeader(), results)
	if err != nil {
		return fmt.Errorf("write %s: %w", ResultsSheet, err)
	}
	err = writeSheet(f, SubjectsSheet, subjectsHeader, subjects)
	if err != nil {
		return fmt.Errorf("write %s: %w", SubjectsSheet, err)
	}

	_, err = f.WriteTo(w)
	return err
}
