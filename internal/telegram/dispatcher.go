package telegram

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/services"
)

// photoSender is the slice of the bot client the dispatcher needs.
type photoSender interface {
	SendPhoto(chatID int64, fileID, caption string, replyMarkup interface{}) (int64, error)
}

// QuizDispatcher is the background broadcaster. Every interval it picks
// the oldest unsent quiz, fans it out to every student, and latches the
// sent flag exactly once per quiz, even across restarts.
type QuizDispatcher struct {
	sender   photoSender
	quizzes  *services.QuizService
	users    *services.UserService
	adminIDs []int64
	interval time.Duration
	backoff  time.Duration
}

func NewQuizDispatcher(
	sender photoSender,
	quizzes *services.QuizService,
	users *services.UserService,
	adminIDs []int64,
	interval time.Duration,
) *QuizDispatcher {
	return &QuizDispatcher{
		sender:   sender,
		quizzes:  quizzes,
		users:    users,
		adminIDs: adminIDs,
		interval: interval,
		backoff:  60 * time.Second,
	}
}

// Run loops until the context is cancelled. A failed tick sleeps the
// short backoff instead of the full interval, then resumes the cycle.
func (d *QuizDispatcher) Run(ctx context.Context) {
	log.Printf("[dispatcher] started (interval %s)", d.interval)
	for {
		wait := d.interval
		if err := d.Tick(); err != nil {
			log.Printf("[dispatcher] tick failed: %v", err)
			wait = d.backoff
		}

		select {
		case <-ctx.Done():
			log.Println("[dispatcher] stopped")
			return
		case <-time.After(wait):
		}
	}
}

// Tick runs one Selecting → Broadcasting → Marking pass. An empty queue
// is not an error; anything else (store unreachable) is returned so the
// loop backs off.
func (d *QuizDispatcher) Tick() error {
	quiz, err := d.quizzes.NextUnsent()
	if errors.Is(err, services.ErrQuizNotFound) {
		log.Println("[dispatcher] no pending quiz")
		return nil
	}
	if err != nil {
		return err
	}

	recipients, err := d.users.StudentChatIDs(d.adminIDs)
	if err != nil {
		return err
	}

	kb := QuizAnswerKeyboard(quiz.ID)
	caption := "🧠 Yangi viktorina! To'g'ri javobni tanlang va ball yutib oling."

	sent, failed := 0, 0
	for _, chatID := range recipients {
		if _, err := d.sender.SendPhoto(chatID, quiz.FileID, caption, kb); err != nil {
			// per-recipient failure: log, count, keep going
			log.Printf("[dispatcher] send quiz %d to %d: %v", quiz.ID, chatID, err)
			failed++
			continue
		}
		sent++
	}

	log.Printf("[dispatcher] quiz %d broadcast: %d sent, %d failed", quiz.ID, sent, failed)

	// one-way latch, flipped regardless of partial failure
	return d.quizzes.MarkSent(quiz.ID)
}
