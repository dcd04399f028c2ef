package pdf

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// ResultRow is one ranked line in a per-test report.
type ResultRow struct {
	Rank        int
	StudentName string
	Correct     int
	Incorrect   int
	Percentage  float64
}

// AttemptRow is one line in a per-student report.
type AttemptRow struct {
	TestName  string
	Correct   int
	Incorrect int
	Date      string
}

// TestResultsReport renders the ranked per-student table for one test
// into a PDF at destPath.
func TestResultsReport(destPath, testName string, rows []ResultRow) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, sanitize(testName), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, time.Now().Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	widths := []float64{15, 80, 25, 25, 25}
	headers := []string{"#", "O'quvchi", "To'g'ri", "Xato", "Foiz"}

	doc.SetFont("Helvetica", "B", 11)
	doc.SetFillColor(230, 230, 230)
	for i, hdr := range headers {
		doc.CellFormat(widths[i], 8, sanitize(hdr), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 11)
	doc.SetFillColor(245, 245, 245)
	totalCorrect := 0
	for i, r := range rows {
		fill := i%2 == 1
		doc.CellFormat(widths[0], 8, fmt.Sprintf("%d", r.Rank), "1", 0, "C", fill, 0, "")
		doc.CellFormat(widths[1], 8, sanitize(r.StudentName), "1", 0, "L", fill, 0, "")
		doc.CellFormat(widths[2], 8, fmt.Sprintf("%d", r.Correct), "1", 0, "C", fill, 0, "")
		doc.CellFormat(widths[3], 8, fmt.Sprintf("%d", r.Incorrect), "1", 0, "C", fill, 0, "")
		doc.CellFormat(widths[4], 8, fmt.Sprintf("%.0f%%", r.Percentage), "1", 0, "C", fill, 0, "")
		doc.Ln(-1)
		totalCorrect += r.Correct
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "I", 10)
	summary := fmt.Sprintf("Jami: %d o'quvchi", len(rows))
	if len(rows) > 0 {
		summary += fmt.Sprintf(", o'rtacha to'g'ri javob: %.1f", float64(totalCorrect)/float64(len(rows)))
	}
	doc.CellFormat(0, 6, sanitize(summary), "", 1, "L", false, 0, "")

	return doc.OutputFileAndClose(destPath)
}

// StudentReport renders one student's attempt history into a PDF.
func StudentReport(destPath, studentName string, rows []AttemptRow) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, sanitize(studentName), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, time.Now().Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	widths := []float64{85, 25, 25, 35}
	headers := []string{"Test", "To'g'ri", "Xato", "Sana"}

	doc.SetFont("Helvetica", "B", 11)
	doc.SetFillColor(230, 230, 230)
	for i, hdr := range headers {
		doc.CellFormat(widths[i], 8, sanitize(hdr), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 11)
	doc.SetFillColor(245, 245, 245)
	for i, r := range rows {
		fill := i%2 == 1
		doc.CellFormat(widths[0], 8, sanitize(r.TestName), "1", 0, "L", fill, 0, "")
		doc.CellFormat(widths[1], 8, fmt.Sprintf("%d", r.Correct), "1", 0, "C", fill, 0, "")
		doc.CellFormat(widths[2], 8, fmt.Sprintf("%d", r.Incorrect), "1", 0, "C", fill, 0, "")
		doc.CellFormat(widths[3], 8, sanitize(r.Date), "1", 0, "C", fill, 0, "")
		doc.Ln(-1)
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "I", 10)
	doc.CellFormat(0, 6, sanitize(fmt.Sprintf("Jami: %d ta urinish", len(rows))), "", 1, "L", false, 0, "")

	return doc.OutputFileAndClose(destPath)
}

// sanitize maps text to the cp1252 range the builtin fonts cover;
// anything outside becomes '?'.
func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r == '‘' || r == '’':
			out = append(out, '\'')
		case r < 256:
			out = append(out, r)
		default:
			out = append(out, '?')
		}
	}
	return string(out)
}
