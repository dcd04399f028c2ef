package services

import (
	"sort"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"gorm.io/gorm"
)

type ResultService struct {
	db *gorm.DB
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db}
}

// Record appends one graded attempt. Attempts are never updated.
func (s *ResultService) Record(chatID int64, studentName, username, testID string, grade GradeResult) (*models.Result, error) {
	result := models.Result{
		StudentName:    studentName,
		Username:       username,
		ChatID:         chatID,
		TestID:         testID,
		CorrectCount:   grade.CorrectCount,
		IncorrectCount: grade.IncorrectCount(),
	}
	if err := s.db.Create(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// HasAttempt reports whether the user already submitted this test.
func (s *ResultService) HasAttempt(chatID int64, testID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Result{}).
		Where("chat_id = ? AND test_id = ?", chatID, testID).
		Count(&count).Error
	return count > 0, err
}

// RequireFirstAttempt enforces the single-attempt rule for homework:
// a repeat submission gets ErrDuplicateSubmission, the original attempt
// stays untouched.
func (s *ResultService) RequireFirstAttempt(chatID int64, testID string) error {
	has, err := s.HasAttempt(chatID, testID)
	if err != nil {
		return err
	}
	if has {
		return ErrDuplicateSubmission
	}
	return nil
}

// AttemptNumber counts attempts by the user for a test, including any
// just recorded.
func (s *ResultService) AttemptNumber(chatID int64, testID string) int {
	var count int64
	s.db.Model(&models.Result{}).
		Where("chat_id = ? AND test_id = ?", chatID, testID).
		Count(&count)
	if count == 0 {
		return 1
	}
	return int(count)
}

// ListByTest returns all attempts for a test in insertion order.
func (s *ResultService) ListByTest(testID string) ([]models.Result, error) {
	var results []models.Result
	err := s.db.Where("test_id = ?", testID).Order("id ASC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ListByUser returns a user's attempts for tests of one kind, joined to
// the test name, ordered by test then time.
func (s *ResultService) ListByUser(chatID int64, homework bool) ([]UserResult, error) {
	var rows []UserResult
	err := s.db.Model(&models.Result{}).
		Select("results.test_id, tests.name AS test_name, results.correct_count, results.incorrect_count, results.created_at").
		Joins("LEFT JOIN tests ON tests.test_id = results.test_id").
		Where("results.chat_id = ? AND tests.is_homework = ?", chatID, homework).
		Order("results.test_id ASC, results.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Today returns every attempt recorded since local midnight, grouped in
// a stable student/test order.
func (s *ResultService) Today() ([]models.Result, error) {
	y, m, d := time.Now().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	var results []models.Result
	err := s.db.Where("created_at >= ?", midnight).
		Order("student_name ASC, test_id ASC, created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

type UserResult struct {
	TestID         string    `json:"test_id"`
	TestName       string    `json:"test_name"`
	CorrectCount   int       `json:"correct_count"`
	IncorrectCount int       `json:"incorrect_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// StudentStats aggregates one student's attempts on one test.
type StudentStats struct {
	StudentName string
	Username    string
	ChatID      int64
	Correct     int
	Incorrect   int
	Attempts    int
	LastAt      time.Time
}

// Percentage of correct answers over everything the student submitted.
func (st StudentStats) Percentage() float64 {
	total := st.Correct + st.Incorrect
	if total == 0 {
		return 0
	}
	return float64(st.Correct) / float64(total) * 100
}

// AggregateByStudent folds per-attempt rows into per-student totals,
// sorted by correct count descending.
func (s *ResultService) AggregateByStudent(results []models.Result) []StudentStats {
	index := make(map[int64]int)
	var stats []StudentStats
	for _, r := range results {
		i, ok := index[r.ChatID]
		if !ok {
			i = len(stats)
			index[r.ChatID] = i
			stats = append(stats, StudentStats{
				StudentName: r.StudentName,
				Username:    r.Username,
				ChatID:      r.ChatID,
			})
		}
		stats[i].Correct += r.CorrectCount
		stats[i].Incorrect += r.IncorrectCount
		stats[i].Attempts++
		if r.CreatedAt.After(stats[i].LastAt) {
			stats[i].LastAt = r.CreatedAt
		}
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Correct > stats[b].Correct
	})
	return stats
}
