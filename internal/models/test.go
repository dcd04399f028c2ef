package models

import "time"

// Test is an answer key for a gradable content item. Homework keys are
// always 30 letters long; regular test keys may be any length.
type Test struct {
	TestID         string    `gorm:"primaryKey;size:10" json:"test_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	CorrectAnswers string    `gorm:"size:255;not null" json:"-"`
	IsHomework     bool      `gorm:"not null;default:false;index" json:"is_homework"`
	CreatedAt      time.Time `json:"created_at"`
}
