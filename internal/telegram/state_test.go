package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateManagerGetReturnsCopy(t *testing.T) {
	m := NewStateManager()
	m.Set(1, &UserState{Step: StepTestAnswers, TestID: "T1234"})

	got := m.Get(1)
	got.TestID = "mutated"

	assert.Equal(t, "T1234", m.Get(1).TestID)
}

func TestStateManagerUnknownUserIsIdle(t *testing.T) {
	m := NewStateManager()
	assert.Equal(t, StepNone, m.Get(42).Step)
}

func TestStateManagerClear(t *testing.T) {
	m := NewStateManager()
	m.Set(1, &UserState{Step: StepRename})
	m.Clear(1)
	assert.Equal(t, StepNone, m.Get(1).Step)
}

func TestStateManagerUpdateField(t *testing.T) {
	m := NewStateManager()
	m.UpdateField(1, func(s *UserState) {
		s.Step = StepAdminQuizPhoto
		s.QuizFileID = "file-1"
	})

	got := m.Get(1)
	assert.Equal(t, StepAdminQuizPhoto, got.Step)
	assert.Equal(t, "file-1", got.QuizFileID)
}
