package services

import (
	"errors"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"gorm.io/gorm"
)

// MaxNameChanges limits how many times a student may rename themselves.
const MaxNameChanges = 3

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// SaveProfile inserts or updates a user profile, preserving the existing
// name-change counter and balance.
func (s *UserService) SaveProfile(chatID int64, studentName, username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("chat_id = ?", chatID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{ChatID: chatID, StudentName: studentName, Username: username}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	user.StudentName = studentName
	user.Username = username
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Get(chatID int64) (*models.User, error) {
	var user models.User
	if err := s.db.Where("chat_id = ?", chatID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileName returns the stored student name, or "" for unknown users.
func (s *UserService) ProfileName(chatID int64) string {
	user, err := s.Get(chatID)
	if err != nil {
		return ""
	}
	return user.StudentName
}

// Rename updates the student name, enforcing the change limit. Returns
// the attempt count used so far including this one.
func (s *UserService) Rename(chatID int64, newName, username string) (int, error) {
	user, err := s.Get(chatID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, cerr := s.SaveProfile(chatID, newName, username)
		if cerr != nil {
			return 0, cerr
		}
		created.NameChanges = 1
		return 1, s.db.Save(created).Error
	}
	if err != nil {
		return 0, err
	}
	if user.NameChanges >= MaxNameChanges {
		return user.NameChanges, ErrNameChangeLimit
	}

	user.StudentName = newName
	user.Username = username
	user.NameChanges++
	if err := s.db.Save(user).Error; err != nil {
		return 0, err
	}
	return user.NameChanges, nil
}

// Balance reads the current balance, defaulting to 0 for unknown users.
func (s *UserService) Balance(chatID int64) int {
	user, err := s.Get(chatID)
	if err != nil {
		return 0
	}
	return user.Balance
}

// AdjustBalance applies one reward delta and returns the new balance.
// Dispatch processes one response at a time, so no locking beyond the
// row update is needed.
func (s *UserService) AdjustBalance(chatID int64, delta int) (int, error) {
	user, err := s.Get(chatID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{ChatID: chatID, Balance: delta}
		if err := s.db.Create(user).Error; err != nil {
			return 0, err
		}
		return user.Balance, nil
	}
	if err != nil {
		return 0, err
	}

	user.Balance += delta
	user.UpdatedAt = time.Now()
	if err := s.db.Save(user).Error; err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// ResetBalance zeroes a user's balance (admin action).
func (s *UserService) ResetBalance(chatID int64) error {
	return s.db.Model(&models.User{}).Where("chat_id = ?", chatID).Update("balance", 0).Error
}

// ListUsers returns all users ordered by student name.
func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("student_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// StudentChatIDs returns the chat ids of every known user except the
// administrators. This is the quiz broadcast recipient list.
func (s *UserService) StudentChatIDs(adminIDs []int64) ([]int64, error) {
	q := s.db.Model(&models.User{})
	if len(adminIDs) > 0 {
		q = q.Where("chat_id NOT IN ?", adminIDs)
	}
	var ids []int64
	if err := q.Pluck("chat_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
