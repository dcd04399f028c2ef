package services

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"gorm.io/gorm"
)

type TestService struct {
	db *gorm.DB
}

func NewTestService(db *gorm.DB) *TestService {
	return &TestService{db: db}
}

// GenerateTestID produces a test id: one letter from TABCDEF plus four digits.
func (s *TestService) GenerateTestID() string {
	const prefixes = "TABCDEF"
	var b strings.Builder
	b.WriteByte(prefixes[rand.Intn(len(prefixes))])
	for i := 0; i < 4; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

// GenerateHomeworkID produces a five-digit homework id.
func (s *TestService) GenerateHomeworkID() string {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

// Create stores an answer key. Mutating an existing id is permitted and
// does not regrade earlier attempts.
func (s *TestService) Create(testID, name string, answers []string, isHomework bool) (*models.Test, error) {
	test := models.Test{
		TestID:         testID,
		Name:           name,
		CorrectAnswers: strings.Join(answers, ""),
		IsHomework:     isHomework,
	}
	if err := s.db.Save(&test).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (s *TestService) Get(testID string) (*models.Test, error) {
	var test models.Test
	err := s.db.Where("test_id = ?", testID).First(&test).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &test, nil
}

// GetHomework fetches an answer key, requiring the homework flag.
func (s *TestService) GetHomework(testID string) (*models.Test, error) {
	test, err := s.Get(testID)
	if err != nil {
		return nil, err
	}
	if !test.IsHomework {
		return nil, ErrTestNotFound
	}
	return test, nil
}

// List returns tests of one kind, newest first.
func (s *TestService) List(homework bool) ([]models.Test, error) {
	var tests []models.Test
	err := s.db.Where("is_homework = ?", homework).Order("created_at DESC").Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}

// Delete removes a test together with its results and video link in one
// transaction, so a partial failure leaves no orphaned rows.
func (s *TestService) Delete(testID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("test_id = ?", testID).Delete(&models.Test{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTestNotFound
		}
		if err := tx.Where("test_id = ?", testID).Delete(&models.Result{}).Error; err != nil {
			return err
		}
		return tx.Where("test_id = ?", testID).Delete(&models.Video{}).Error
	})
}

// Answers splits the stored key back into its letter sequence.
func (s *TestService) Answers(test *models.Test) []string {
	out := make([]string, 0, len(test.CorrectAnswers))
	for _, r := range test.CorrectAnswers {
		out = append(out, string(r))
	}
	return out
}
