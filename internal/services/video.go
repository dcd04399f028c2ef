package services

import (
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"gorm.io/gorm"
)

type VideoService struct {
	db *gorm.DB
}

func NewVideoService(db *gorm.DB) *VideoService {
	return &VideoService{db: db}
}

// Upsert attaches a video URL to a test, replacing any existing link.
func (s *VideoService) Upsert(testID, url string) error {
	var video models.Video
	err := s.db.Where("test_id = ?", testID).First(&video).Error
	if err == nil {
		video.URL = url
		return s.db.Save(&video).Error
	}
	video = models.Video{TestID: testID, URL: url, CreatedAt: time.Now()}
	return s.db.Create(&video).Error
}

// VideoLink joins a video to its test name for listing.
type VideoLink struct {
	TestID   string `json:"test_id"`
	TestName string `json:"test_name"`
	URL      string `json:"url"`
}

func (s *VideoService) List() ([]VideoLink, error) {
	var links []VideoLink
	err := s.db.Model(&models.Video{}).
		Select("videos.test_id, tests.name AS test_name, videos.url").
		Joins("LEFT JOIN tests ON tests.test_id = videos.test_id").
		Order("videos.created_at ASC").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (s *VideoService) Delete(testID string) error {
	return s.db.Where("test_id = ?", testID).Delete(&models.Video{}).Error
}
