package models

import "time"

type BlockedUser struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChatID      int64     `gorm:"uniqueIndex;not null" json:"chat_id"`
	Username    string    `gorm:"size:100" json:"username,omitempty"`
	StudentName string    `gorm:"size:100" json:"student_name,omitempty"`
	BlockedBy   int64     `json:"blocked_by"`
	Reason      string    `gorm:"size:255" json:"reason,omitempty"`
	BlockedAt   time.Time `json:"blocked_at"`
}
