package commands

import (
	"fmt"
	"io"
	"strings"
	"university-results/cmd/beup-cli/utils"
	"university-results/internal/scrapers/beup"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderResults prints one overview table for all records and, when
// `subjects` is set, a subject table per record.
func RenderResults(out io.Writer, records []beup.StudentResult, subjects bool) {
	if len(records) == 0 {
		return
	}

	t := utils.NewTable(out)
	t.AppendHeader(table.Row{"Reg. No", "Name", "College", "Semester", "SGPA", "CGPA", "Remarks"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.RegistrationNo,
			r.StudentName,
			r.CollegeName,
			r.Semester,
			r.SGPA,
			r.SemesterGrades["Cur. CGPA"],
			r.Remarks,
		})
	}
	t.Render()

	if !subjects {
		return
	}
	for _, r := range records {
		renderSubjects(out, r)
	}
}

func renderSubjects(out io.Writer, r beup.StudentResult) {
	t := utils.NewTable(out)
	t.SetTitle(fmt.Sprintf("%s - %s", r.RegistrationNo, r.StudentName))
	t.AppendHeader(table.Row{"Kind", "Code", "Subject", "ESE", "IA", "Total", "Grade", "Credit"})

	add := func(kind string, list []beup.Subject) {
		for _, s := range list {
			t.AppendRow(table.Row{kind, s.Code, s.Name, s.ESE, s.IA, s.Total, s.Grade, s.Credit})
		}
	}
	add("Theory", r.TheorySubjects)
	add("Practical", r.PracticalSubjects)
	t.Render()
}

// RenderSummary prints how many of the looked up registration numbers had
// a result, failing remarks are highlighted.
func RenderSummary(out io.Writer, regNo string, records []beup.StudentResult) {
	if len(records) == 0 {
		color.New(color.FgYellow).Fprintf(out, "no results found starting at %s\n", regNo)
		return
	}

	failed := 0
	for _, r := range records {
		if strings.HasPrefix(r.Remarks, "FAIL") {
			failed++
		}
	}

	color.New(color.FgGreen).Fprintf(out, "%d result(s) found starting at %s", len(records), regNo)
	if failed > 0 {
		color.New(color.FgRed).Fprintf(out, ", %d with failed subjects", failed)
	}
	fmt.Fprintln(out)
}
