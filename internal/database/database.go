package database

import (
	"fmt"
	"log"

	"github.com/kubayevvv7/Elite-Math-Update/internal/config"
	"github.com/kubayevvv7/Elite-Math-Update/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=30000", cfg.DBFile)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open database %s: %v", cfg.DBFile, err)
	}

	log.Println("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Test{},
		&models.Result{},
		&models.Video{},
		&models.Quiz{},
		&models.QuizAnswer{},
		&models.BlockedUser{},
		&models.BotCard{},
		&models.Payment{},
		&models.Subscription{},
		&models.AdminAccount{},
	)
	if err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}
