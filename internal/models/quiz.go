package models

import "time"

// Quiz is a broadcastable picture question with one correct letter among
// A..E. SentToUsers is a one-way latch: the dispatcher flips it exactly
// once and never reconsiders the row.
type Quiz struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	FilePath       string     `gorm:"size:500" json:"file_path"`
	FileID         string     `gorm:"size:255" json:"file_id"`
	CorrectAnswer  string     `gorm:"size:1;not null" json:"-"`
	Active         bool       `gorm:"not null;default:true" json:"active"`
	SentToUsers    bool       `gorm:"not null;default:false" json:"sent_to_users"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	HoursRemaining int        `gorm:"not null;default:24" json:"hours_remaining"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}

// QuizAnswer is the per-user answered set for a dispatched quiz. The
// unique index makes a second answer for the same (quiz, user) pair a
// constraint violation rather than a second reward.
type QuizAnswer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuizID     uint      `gorm:"not null;uniqueIndex:idx_quiz_answer_once" json:"quiz_id"`
	ChatID     int64     `gorm:"not null;uniqueIndex:idx_quiz_answer_once" json:"chat_id"`
	Answer     string    `gorm:"size:1;not null" json:"answer"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
	AnsweredAt time.Time `json:"answered_at"`
}
