package beup

import (
	"strings"
	"university-results/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Parse extracts a StudentResult out of a result page. It returns false
// only for an empty page, any other page, even a blank one, produces a
// result with missing fields defaulted.
func Parse(html, regNo string) (StudentResult, bool) {
	if html == "" {
		return StudentResult{}, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return StudentResult{}, false
	}
	return extract(doc, regNo), true
}

// ParseFetched is Parse for the output of Client.Fetch, only FetchFound
// results carry a page.
func ParseFetched(res FetchResult, regNo string) (StudentResult, bool) {
	if res.Status != FetchFound {
		return StudentResult{}, false
	}
	return Parse(res.HTML, regNo)
}

func extract(doc *goquery.Document, regNo string) StudentResult {
	result := StudentResult{
		RegistrationNo: regNo,
		University:     University,
	}

	for _, field := range scalarFields {
		value := field.post(doc.Find(field.selector).Text())
		if value == "" {
			value = field.fallback
		}
		*field.target(&result) = value
	}

	for _, table := range subjectTables {
		*table.target(&result) = extractSubjects(doc.Find(table.selector))
	}

	result.SemesterGrades = extractSemesterGrades(doc.Find(semesterGradesRow).First())

	return result
}

func extractSubjects(table *goquery.Selection) []Subject {
	subjects := []Subject{}
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		// header
		if i == 0 {
			return
		}
		cells := htmlutil.CellTexts(row)
		if len(cells) < subjectColumns {
			return
		}
		subjects = append(subjects, Subject{
			Code:   cells[0],
			Name:   cells[1],
			ESE:    cells[2],
			IA:     cells[3],
			Total:  cells[4],
			Grade:  cells[5],
			Credit: cells[6],
		})
	})
	return subjects
}

func extractSemesterGrades(row *goquery.Selection) SemesterGrades {
	cells := htmlutil.CellTexts(row)

	grades := make(SemesterGrades, len(SemesterLabels))
	for i, label := range SemesterLabels {
		grade := ""
		if i < len(cells) {
			grade = cells[i]
		}
		if grade == "" {
			grade = gradeMissing
		}
		grades[label] = grade
	}
	return grades
}
