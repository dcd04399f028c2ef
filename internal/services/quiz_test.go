package services

import (
	"testing"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizFixture(t *testing.T) (*QuizService, *UserService) {
	db := newTestDB(t)
	users := NewUserService(db)
	return NewQuizService(db, users, 100), users
}

func TestMarkSentFlipsOnce(t *testing.T) {
	svc, _ := newQuizFixture(t)
	quiz, err := svc.Create("media/quiz1.jpg", "file-abc", "B")
	require.NoError(t, err)

	next, err := svc.NextUnsent()
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, next.ID)

	require.NoError(t, svc.MarkSent(quiz.ID))

	sent, err := svc.Get(quiz.ID)
	require.NoError(t, err)
	assert.True(t, sent.SentToUsers)
	require.NotNil(t, sent.SentAt)
	firstSentAt := *sent.SentAt

	// re-tick after a crash must not rebroadcast or move the timestamp
	_, err = svc.NextUnsent()
	assert.ErrorIs(t, err, ErrQuizNotFound)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, svc.MarkSent(quiz.ID))
	again, err := svc.Get(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, firstSentAt.UnixNano(), again.SentAt.UnixNano())
}

func TestNextUnsentSkipsMissingPayload(t *testing.T) {
	svc, _ := newQuizFixture(t)
	_, err := svc.Create("media/quiz1.jpg", "", "A")
	require.NoError(t, err)

	_, err = svc.NextUnsent()
	assert.ErrorIs(t, err, ErrQuizNotFound)

	withPayload, err := svc.Create("media/quiz2.jpg", "file-xyz", "C")
	require.NoError(t, err)

	next, err := svc.NextUnsent()
	require.NoError(t, err)
	assert.Equal(t, withPayload.ID, next.ID)
}

func TestSubmitAnswerCorrectCreditsReward(t *testing.T) {
	svc, users := newQuizFixture(t)
	quiz, err := svc.Create("media/quiz1.jpg", "file-abc", "B")
	require.NoError(t, err)
	require.NoError(t, svc.MarkSent(quiz.ID))

	outcome, err := svc.SubmitAnswer(quiz.ID, 42, "b")
	require.NoError(t, err)
	assert.True(t, outcome.Correct)
	assert.Equal(t, "B", outcome.CorrectAnswer)
	assert.Equal(t, 100, outcome.Reward)
	assert.Equal(t, 100, outcome.NewBalance)
	assert.Equal(t, 100, users.Balance(42))
}

func TestSubmitAnswerWrongKeepsBalance(t *testing.T) {
	svc, users := newQuizFixture(t)
	quiz, err := svc.Create("media/quiz1.jpg", "file-abc", "B")
	require.NoError(t, err)
	require.NoError(t, svc.MarkSent(quiz.ID))

	outcome, err := svc.SubmitAnswer(quiz.ID, 42, "D")
	require.NoError(t, err)
	assert.False(t, outcome.Correct)
	assert.Equal(t, 0, outcome.Reward)
	assert.Equal(t, 0, users.Balance(42))
}

func TestSubmitAnswerOnlyOnce(t *testing.T) {
	svc, users := newQuizFixture(t)
	quiz, err := svc.Create("media/quiz1.jpg", "file-abc", "B")
	require.NoError(t, err)
	require.NoError(t, svc.MarkSent(quiz.ID))

	_, err = svc.SubmitAnswer(quiz.ID, 42, "B")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(quiz.ID, 42, "B")
	assert.ErrorIs(t, err, ErrQuizAlreadyAnswered)
	assert.Equal(t, 100, users.Balance(42))
}

func TestSubmitAnswerAfterWindowExpired(t *testing.T) {
	svc, users := newQuizFixture(t)
	quiz, err := svc.Create("media/quiz1.jpg", "file-abc", "B")
	require.NoError(t, err)

	sentAt := time.Now().Add(-25 * time.Hour)
	require.NoError(t, svc.db.Model(&models.Quiz{}).Where("id = ?", quiz.ID).
		Updates(map[string]interface{}{"sent_to_users": true, "sent_at": sentAt}).Error)

	_, err = svc.SubmitAnswer(quiz.ID, 42, "B")
	assert.ErrorIs(t, err, ErrQuizExpired)
	assert.Equal(t, 0, users.Balance(42))
}

func TestSubmitAnswerBeforeBroadcast(t *testing.T) {
	svc, _ := newQuizFixture(t)
	quiz, err := svc.Create("media/quiz1.jpg", "file-abc", "B")
	require.NoError(t, err)

	// SentAt is nil until the dispatcher runs, so the window is closed
	_, err = svc.SubmitAnswer(quiz.ID, 42, "B")
	assert.ErrorIs(t, err, ErrQuizExpired)
}

func TestHoursLeft(t *testing.T) {
	svc, _ := newQuizFixture(t)
	quiz := &models.Quiz{HoursRemaining: 24}
	assert.Equal(t, 0.0, svc.HoursLeft(quiz))

	recent := time.Now().Add(-2 * time.Hour)
	quiz.SentAt = &recent
	assert.InDelta(t, 22.0, svc.HoursLeft(quiz), 0.01)

	stale := time.Now().Add(-30 * time.Hour)
	quiz.SentAt = &stale
	assert.Equal(t, 0.0, svc.HoursLeft(quiz))
}

func TestDeactivateHidesQuiz(t *testing.T) {
	svc, _ := newQuizFixture(t)
	quiz, err := svc.Create("media/quiz1.jpg", "file-abc", "B")
	require.NoError(t, err)

	path, err := svc.Deactivate(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "media/quiz1.jpg", path)

	_, err = svc.Get(quiz.ID)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	active, err := svc.ListActive()
	require.NoError(t, err)
	assert.Empty(t, active)
}
