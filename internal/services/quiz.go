package services

import (
	"errors"
	"strings"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db      *gorm.DB
	userSvc *UserService
	reward  int
}

func NewQuizService(db *gorm.DB, userSvc *UserService, reward int) *QuizService {
	return &QuizService{db: db, userSvc: userSvc, reward: reward}
}

// Create stores a new quiz in the pending state with a 24h validity window.
func (s *QuizService) Create(filePath, fileID, correctAnswer string) (*models.Quiz, error) {
	quiz := models.Quiz{
		FilePath:       filePath,
		FileID:         fileID,
		CorrectAnswer:  correctAnswer,
		Active:         true,
		HoursRemaining: 24,
	}
	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) Get(id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND active = ?", id, true).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ListActive returns active quizzes, newest first.
func (s *QuizService) ListActive() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("active = ?", true).Order("created_at DESC").Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

// Deactivate retires a quiz and returns its stored file path so the
// caller can remove the image.
func (s *QuizService) Deactivate(id uint) (string, error) {
	quiz, err := s.Get(id)
	if err != nil {
		return "", err
	}
	if err := s.db.Model(quiz).Update("active", false).Error; err != nil {
		return "", err
	}
	return quiz.FilePath, nil
}

// NextUnsent selects the oldest active quiz that has a payload and has
// not been broadcast yet. Returns ErrQuizNotFound when the queue is empty.
func (s *QuizService) NextUnsent() (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.
		Where("active = ? AND sent_to_users = ? AND file_id IS NOT NULL AND file_id != ''", true, false).
		Order("created_at ASC").
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// MarkSent flips the one-way sent latch. The guarded update makes a
// re-tick after a crash a no-op rather than a second broadcast.
func (s *QuizService) MarkSent(id uint) error {
	now := time.Now()
	return s.db.Model(&models.Quiz{}).
		Where("id = ? AND sent_to_users = ?", id, false).
		Updates(map[string]interface{}{"sent_to_users": true, "sent_at": now}).Error
}

// HoursLeft reports the remaining validity window, or 0 when the window
// has elapsed or the quiz was never sent.
func (s *QuizService) HoursLeft(quiz *models.Quiz) float64 {
	if quiz.SentAt == nil {
		return 0
	}
	elapsed := time.Since(*quiz.SentAt).Hours()
	remaining := float64(quiz.HoursRemaining) - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AnswerOutcome reports one processed quiz response.
type AnswerOutcome struct {
	Correct       bool
	CorrectAnswer string
	Reward        int
	NewBalance    int
}

// SubmitAnswer processes one quiz response: rejects expired windows and
// repeat answers, persists the answer, and credits the reward for a
// correct choice.
func (s *QuizService) SubmitAnswer(quizID uint, chatID int64, answer string) (*AnswerOutcome, error) {
	quiz, err := s.Get(quizID)
	if err != nil {
		return nil, err
	}
	if s.HoursLeft(quiz) <= 0 {
		return nil, ErrQuizExpired
	}

	var existing int64
	s.db.Model(&models.QuizAnswer{}).
		Where("quiz_id = ? AND chat_id = ?", quizID, chatID).
		Count(&existing)
	if existing > 0 {
		return nil, ErrQuizAlreadyAnswered
	}

	correct := strings.EqualFold(answer, quiz.CorrectAnswer)
	record := models.QuizAnswer{
		QuizID:     quizID,
		ChatID:     chatID,
		Answer:     strings.ToUpper(answer),
		IsCorrect:  correct,
		AnsweredAt: time.Now(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		// unique index: a concurrent duplicate loses the race
		return nil, ErrQuizAlreadyAnswered
	}

	outcome := &AnswerOutcome{
		Correct:       correct,
		CorrectAnswer: strings.ToUpper(quiz.CorrectAnswer),
	}
	if correct {
		balance, err := s.userSvc.AdjustBalance(chatID, s.reward)
		if err != nil {
			return nil, err
		}
		outcome.Reward = s.reward
		outcome.NewBalance = balance
	}
	return outcome, nil
}
