package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetTest(t *testing.T) {
	svc := NewTestService(newTestDB(t))

	created, err := svc.Create("T1234", "Algebra 5", []string{"a", "b", "c"}, false)
	require.NoError(t, err)
	assert.Equal(t, "abc", created.CorrectAnswers)

	got, err := svc.Get("T1234")
	require.NoError(t, err)
	assert.Equal(t, "Algebra 5", got.Name)
	assert.Equal(t, []string{"a", "b", "c"}, svc.Answers(got))

	_, err = svc.Get("T0000")
	assert.ErrorIs(t, err, ErrTestNotFound)
}

func TestGetHomeworkRejectsRegularTest(t *testing.T) {
	svc := NewTestService(newTestDB(t))
	_, err := svc.Create("T1234", "Algebra 5", []string{"a"}, false)
	require.NoError(t, err)
	_, err = svc.Create("12345", "Uyga vazifa 1", []string{"a"}, true)
	require.NoError(t, err)

	_, err = svc.GetHomework("T1234")
	assert.ErrorIs(t, err, ErrTestNotFound)

	hw, err := svc.GetHomework("12345")
	require.NoError(t, err)
	assert.True(t, hw.IsHomework)
}

func TestCreateOverwritesExistingID(t *testing.T) {
	svc := NewTestService(newTestDB(t))
	_, err := svc.Create("T1234", "Algebra 5", []string{"a", "b"}, false)
	require.NoError(t, err)
	_, err = svc.Create("T1234", "Algebra 5 v2", []string{"c", "d"}, false)
	require.NoError(t, err)

	got, err := svc.Get("T1234")
	require.NoError(t, err)
	assert.Equal(t, "Algebra 5 v2", got.Name)
	assert.Equal(t, "cd", got.CorrectAnswers)
}

func TestDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	tests := NewTestService(db)
	results := NewResultService(db)
	videos := NewVideoService(db)

	_, err := tests.Create("12345", "Uyga vazifa 1", []string{"a", "b"}, true)
	require.NoError(t, err)
	_, err = results.Record(42, "Aziz", "aziz", "12345", GradeResult{Total: 2, CorrectCount: 1})
	require.NoError(t, err)
	require.NoError(t, videos.Upsert("12345", "https://youtu.be/x"))

	require.NoError(t, tests.Delete("12345"))

	_, err = tests.Get("12345")
	assert.ErrorIs(t, err, ErrTestNotFound)
	rows, err := results.ListByTest("12345")
	require.NoError(t, err)
	assert.Empty(t, rows)
	links, err := videos.List()
	require.NoError(t, err)
	assert.Empty(t, links)

	assert.ErrorIs(t, tests.Delete("12345"), ErrTestNotFound)
}

func TestGeneratedIDShapes(t *testing.T) {
	svc := NewTestService(newTestDB(t))

	id := svc.GenerateTestID()
	require.Len(t, id, 5)
	assert.Contains(t, "TABCDEF", string(id[0]))
	for _, c := range id[1:] {
		assert.True(t, c >= '0' && c <= '9')
	}

	hw := svc.GenerateHomeworkID()
	require.Len(t, hw, 5)
	for _, c := range hw {
		assert.True(t, c >= '0' && c <= '9')
	}
}
