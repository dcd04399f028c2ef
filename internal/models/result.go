package models

import "time"

// Result is one graded attempt. Rows are append-only; they are removed
// only when the referenced test is deleted.
type Result struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentName    string    `gorm:"size:100" json:"student_name"`
	Username       string    `gorm:"size:100" json:"username,omitempty"`
	ChatID         int64     `gorm:"not null;index" json:"chat_id"`
	TestID         string    `gorm:"size:10;not null;index" json:"test_id"`
	CorrectCount   int       `gorm:"not null" json:"correct_count"`
	IncorrectCount int       `gorm:"not null" json:"incorrect_count"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}
