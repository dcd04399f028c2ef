package services

import (
	"testing"

	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Test{},
		&models.Result{},
		&models.Quiz{},
		&models.QuizAnswer{},
		&models.Video{},
		&models.BlockedUser{},
		&models.BotCard{},
		&models.Payment{},
		&models.Subscription{},
		&models.AdminAccount{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
