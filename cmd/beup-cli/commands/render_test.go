package commands

import (
	"bytes"
	"testing"
	"university-results/internal/scrapers/beup"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

var sampleRecords = []beup.StudentResult{
	{
		RegistrationNo: "22101110001",
		StudentName:    "PRIYA KUMARI",
		CollegeName:    "Government Engineering College, Patna",
		Semester:       "I",
		SGPA:           "7.45",
		SemesterGrades: beup.SemesterGrades{"Cur. CGPA": "7.8"},
		TheorySubjects: []beup.Subject{
			{Code: "100101", Name: "Mathematics-I", ESE: "60", IA: "25", Total: "85", Grade: "A+", Credit: "4"},
		},
		PracticalSubjects: []beup.Subject{
			{Code: "100111", Name: "Physics Lab", ESE: "20", IA: "15", Total: "35", Grade: "A", Credit: "1"},
		},
		Remarks: "FAIL: 100102",
	},
	{
		RegistrationNo: "22101110002",
		StudentName:    "RAHUL RAJ",
		SGPA:           "8.10",
		Remarks:        "PASS",
	},
}

func TestRenderResults(t *testing.T) {
	var out bytes.Buffer
	RenderResults(&out, sampleRecords, false)

	text := out.String()
	require.Contains(t, text, "REG. NO")
	require.Contains(t, text, "PRIYA KUMARI")
	require.Contains(t, text, "RAHUL RAJ")
	require.Contains(t, text, "7.8")
	require.NotContains(t, text, "Mathematics-I")
}

func TestRenderResultsSubjects(t *testing.T) {
	var out bytes.Buffer
	RenderResults(&out, sampleRecords, true)

	text := out.String()
	require.Contains(t, text, "22101110001 - PRIYA KUMARI")
	require.Contains(t, text, "Mathematics-I")
	require.Contains(t, text, "Physics Lab")
	require.Contains(t, text, "Practical")
}

func TestRenderResultsEmpty(t *testing.T) {
	var out bytes.Buffer
	RenderResults(&out, nil, true)
	require.Empty(t, out.String())
}

func TestRenderSummary(t *testing.T) {
	table := []struct {
		records  []beup.StudentResult
		expected string
	}{
		{
			records:  nil,
			expected: "no results found starting at 22101110001\n",
		},
		{
			records:  sampleRecords[1:],
			expected: "1 result(s) found starting at 22101110001\n",
		},
		{
			records:  sampleRecords,
			expected: "2 result(s) found starting at 22101110001, 1 with failed subjects\n",
		},
	}

	for _, row := range table {
		var out bytes.Buffer
		RenderSummary(&out, "22101110001", row.records)
		require.Equal(t, row.expected, out.String())
	}
}
