package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoUpsertReplacesLink(t *testing.T) {
	db := newTestDB(t)
	tests := NewTestService(db)
	svc := NewVideoService(db)

	_, err := tests.Create("T1234", "Algebra 5", []string{"a"}, false)
	require.NoError(t, err)

	require.NoError(t, svc.Upsert("T1234", "https://youtu.be/first"))
	require.NoError(t, svc.Upsert("T1234", "https://youtu.be/second"))

	links, err := svc.List()
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://youtu.be/second", links[0].URL)
	assert.Equal(t, "Algebra 5", links[0].TestName)
}

func TestVideoDeleteRemovesLink(t *testing.T) {
	db := newTestDB(t)
	tests := NewTestService(db)
	svc := NewVideoService(db)

	_, err := tests.Create("T1234", "Algebra 5", []string{"a"}, false)
	require.NoError(t, err)
	_, err = tests.Create("T5678", "Algebra 6", []string{"b"}, false)
	require.NoError(t, err)
	require.NoError(t, svc.Upsert("T1234", "https://youtu.be/one"))
	require.NoError(t, svc.Upsert("T5678", "https://youtu.be/two"))

	require.NoError(t, svc.Delete("T1234"))

	links, err := svc.List()
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "T5678", links[0].TestID)

	// deleting an absent link is a no-op
	require.NoError(t, svc.Delete("T1234"))
}
