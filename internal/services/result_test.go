package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeepsEveryAttempt(t *testing.T) {
	svc := NewResultService(newTestDB(t))

	_, err := svc.Record(42, "Aziz", "aziz", "T1234", GradeResult{Total: 5, CorrectCount: 3})
	require.NoError(t, err)
	_, err = svc.Record(42, "Aziz", "aziz", "T1234", GradeResult{Total: 5, CorrectCount: 5})
	require.NoError(t, err)

	rows, err := svc.ListByTest("T1234")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0].CorrectCount)
	assert.Equal(t, 2, rows[0].IncorrectCount)
	assert.Equal(t, 5, rows[1].CorrectCount)
	assert.Equal(t, 0, rows[1].IncorrectCount)

	assert.Equal(t, 2, svc.AttemptNumber(42, "T1234"))

	has, err := svc.HasAttempt(42, "T1234")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = svc.HasAttempt(7, "T1234")
	require.NoError(t, err)
	assert.False(t, has)

	assert.ErrorIs(t, svc.RequireFirstAttempt(42, "T1234"), ErrDuplicateSubmission)
	assert.NoError(t, svc.RequireFirstAttempt(7, "T1234"))
}

func TestListByUserFiltersByKind(t *testing.T) {
	db := newTestDB(t)
	tests := NewTestService(db)
	svc := NewResultService(db)

	_, err := tests.Create("T1234", "Algebra 5", []string{"a"}, false)
	require.NoError(t, err)
	_, err = tests.Create("12345", "Uyga vazifa 1", []string{"a"}, true)
	require.NoError(t, err)
	_, err = svc.Record(42, "Aziz", "aziz", "T1234", GradeResult{Total: 1, CorrectCount: 1})
	require.NoError(t, err)
	_, err = svc.Record(42, "Aziz", "aziz", "12345", GradeResult{Total: 1, CorrectCount: 0})
	require.NoError(t, err)

	hw, err := svc.ListByUser(42, true)
	require.NoError(t, err)
	require.Len(t, hw, 1)
	assert.Equal(t, "12345", hw[0].TestID)
	assert.Equal(t, "Uyga vazifa 1", hw[0].TestName)

	regular, err := svc.ListByUser(42, false)
	require.NoError(t, err)
	require.Len(t, regular, 1)
	assert.Equal(t, "T1234", regular[0].TestID)
}

func TestTodayUsesLocalMidnight(t *testing.T) {
	svc := NewResultService(newTestDB(t))

	early, err := svc.Record(1, "Aziz", "aziz", "T1234", GradeResult{Total: 5, CorrectCount: 4})
	require.NoError(t, err)
	late, err := svc.Record(2, "Bobur", "bobur", "T1234", GradeResult{Total: 5, CorrectCount: 2})
	require.NoError(t, err)

	// early morning today in local time, a window UTC truncation misses
	// east of Greenwich
	y, m, d := time.Now().Date()
	todayEarly := time.Date(y, m, d, 2, 0, 0, 0, time.Local)
	yesterdayLate := todayEarly.Add(-3 * time.Hour)
	require.NoError(t, svc.db.Model(early).Update("created_at", todayEarly).Error)
	require.NoError(t, svc.db.Model(late).Update("created_at", yesterdayLate).Error)

	rows, err := svc.Today()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Aziz", rows[0].StudentName)
}

func TestAggregateByStudent(t *testing.T) {
	svc := NewResultService(newTestDB(t))

	_, err := svc.Record(1, "Aziz", "aziz", "12345", GradeResult{Total: 30, CorrectCount: 20})
	require.NoError(t, err)
	_, err = svc.Record(1, "Aziz", "aziz", "12345", GradeResult{Total: 30, CorrectCount: 25})
	require.NoError(t, err)
	_, err = svc.Record(2, "Bobur", "bobur", "12345", GradeResult{Total: 30, CorrectCount: 28})
	require.NoError(t, err)

	rows, err := svc.ListByTest("12345")
	require.NoError(t, err)
	stats := svc.AggregateByStudent(rows)
	require.Len(t, stats, 2)

	// Aziz: 45 correct over two attempts outranks Bobur's single 28
	assert.Equal(t, "Aziz", stats[0].StudentName)
	assert.Equal(t, 45, stats[0].Correct)
	assert.Equal(t, 15, stats[0].Incorrect)
	assert.Equal(t, 2, stats[0].Attempts)
	assert.InDelta(t, 75.0, stats[0].Percentage(), 0.01)

	assert.Equal(t, "Bobur", stats[1].StudentName)
	assert.Equal(t, 1, stats[1].Attempts)
}
