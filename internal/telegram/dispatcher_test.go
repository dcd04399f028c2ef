package telegram

import (
	"errors"
	"testing"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"
	"github.com/kubayevvv7/Elite-Math-Update/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeSender struct {
	sends   map[int64]int
	failFor map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{sends: make(map[int64]int), failFor: make(map[int64]bool)}
}

func (f *fakeSender) SendPhoto(chatID int64, fileID, caption string, replyMarkup interface{}) (int64, error) {
	if f.failFor[chatID] {
		return 0, errors.New("chat not found")
	}
	f.sends[chatID]++
	return 1, nil
}

func (f *fakeSender) total() int {
	n := 0
	for _, c := range f.sends {
		n += c
	}
	return n
}

func newDispatcherFixture(t *testing.T) (*QuizDispatcher, *fakeSender, *services.QuizService, *services.UserService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Quiz{}, &models.QuizAnswer{}))

	users := services.NewUserService(db)
	quizzes := services.NewQuizService(db, users, 100)
	sender := newFakeSender()
	d := NewQuizDispatcher(sender, quizzes, users, []int64{999}, 2*time.Hour)
	return d, sender, quizzes, users
}

func TestTickBroadcastsOldestUnsentOnce(t *testing.T) {
	d, sender, quizzes, users := newDispatcherFixture(t)

	for _, id := range []int64{1, 2, 999} {
		_, err := users.SaveProfile(id, "Student", "")
		require.NoError(t, err)
	}
	quiz, err := quizzes.Create("media/q.jpg", "file-1", "A")
	require.NoError(t, err)

	require.NoError(t, d.Tick())

	// admins excluded
	assert.Equal(t, 1, sender.sends[1])
	assert.Equal(t, 1, sender.sends[2])
	assert.Equal(t, 0, sender.sends[999])

	sent, err := quizzes.Get(quiz.ID)
	require.NoError(t, err)
	assert.True(t, sent.SentToUsers)

	// re-tick: nothing left, nothing rebroadcast
	require.NoError(t, d.Tick())
	assert.Equal(t, 2, sender.total())
}

func TestTickEmptyQueueIsNoError(t *testing.T) {
	d, sender, _, _ := newDispatcherFixture(t)
	require.NoError(t, d.Tick())
	assert.Equal(t, 0, sender.total())
}

func TestTickMarksSentDespitePartialFailure(t *testing.T) {
	d, sender, quizzes, users := newDispatcherFixture(t)

	for _, id := range []int64{1, 2, 3} {
		_, err := users.SaveProfile(id, "Student", "")
		require.NoError(t, err)
	}
	sender.failFor[2] = true

	quiz, err := quizzes.Create("media/q.jpg", "file-1", "A")
	require.NoError(t, err)

	require.NoError(t, d.Tick())

	assert.Equal(t, 1, sender.sends[1])
	assert.Equal(t, 0, sender.sends[2])
	assert.Equal(t, 1, sender.sends[3])

	sent, err := quizzes.Get(quiz.ID)
	require.NoError(t, err)
	assert.True(t, sent.SentToUsers)

	// failed recipient is never revisited
	require.NoError(t, d.Tick())
	assert.Equal(t, 2, sender.total())
}

func TestTickDispatchesInCreationOrder(t *testing.T) {
	d, sender, quizzes, users := newDispatcherFixture(t)
	_, err := users.SaveProfile(1, "Student", "")
	require.NoError(t, err)

	first, err := quizzes.Create("media/q1.jpg", "file-1", "A")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := quizzes.Create("media/q2.jpg", "file-2", "B")
	require.NoError(t, err)

	require.NoError(t, d.Tick())
	got, err := quizzes.Get(first.ID)
	require.NoError(t, err)
	assert.True(t, got.SentToUsers)
	got, err = quizzes.Get(second.ID)
	require.NoError(t, err)
	assert.False(t, got.SentToUsers)

	require.NoError(t, d.Tick())
	got, err = quizzes.Get(second.ID)
	require.NoError(t, err)
	assert.True(t, got.SentToUsers)

	assert.Equal(t, 2, sender.total())
}
