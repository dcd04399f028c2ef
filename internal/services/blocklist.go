package services

import (
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"gorm.io/gorm"
)

type BlocklistService struct {
	db *gorm.DB
}

func NewBlocklistService(db *gorm.DB) *BlocklistService {
	return &BlocklistService{db: db}
}

func (s *BlocklistService) IsBlocked(chatID int64) bool {
	var count int64
	s.db.Model(&models.BlockedUser{}).Where("chat_id = ?", chatID).Count(&count)
	return count > 0
}

// Block adds a user to the blocklist; blocking twice is a no-op.
func (s *BlocklistService) Block(chatID int64, username, studentName string, by int64, reason string) error {
	if s.IsBlocked(chatID) {
		return nil
	}
	entry := models.BlockedUser{
		ChatID:      chatID,
		Username:    username,
		StudentName: studentName,
		BlockedBy:   by,
		Reason:      reason,
		BlockedAt:   time.Now(),
	}
	return s.db.Create(&entry).Error
}

func (s *BlocklistService) Unblock(chatID int64) error {
	return s.db.Where("chat_id = ?", chatID).Delete(&models.BlockedUser{}).Error
}
