package models

import "time"

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChatID      int64     `gorm:"uniqueIndex;not null" json:"chat_id"`
	StudentName string    `gorm:"size:100" json:"student_name"`
	Username    string    `gorm:"size:100" json:"username,omitempty"`
	NameChanges int       `gorm:"not null;default:0" json:"name_changes"`
	Balance     int       `gorm:"not null;default:0" json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
