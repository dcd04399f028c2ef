package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestResultsReportWritesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "results.pdf")
	rows := []ResultRow{
		{Rank: 1, StudentName: "Aziz Karimov", Correct: 28, Incorrect: 2, Percentage: 93.3},
		{Rank: 2, StudentName: "Bobur O'rinov", Correct: 25, Incorrect: 5, Percentage: 83.3},
	}

	require.NoError(t, TestResultsReport(dest, "Uyga vazifa 1", rows))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))
}

func TestStudentReportWritesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "student.pdf")
	rows := []AttemptRow{
		{TestName: "Algebra 5", Correct: 4, Incorrect: 1, Date: "01.02.2026"},
	}

	require.NoError(t, StudentReport(dest, "Aziz Karimov", rows))

	_, err := os.Stat(dest)
	require.NoError(t, err)
}

func TestSanitizeReplacesNonLatin(t *testing.T) {
	assert.Equal(t, "O'quvchi", sanitize("O’quvchi"))
	assert.Equal(t, "??????", sanitize("Ўқувчи"))
}
