package models

import "time"

// Video links a solution video URL to a test.
type Video struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TestID    string    `gorm:"size:10;uniqueIndex;not null" json:"test_id"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
