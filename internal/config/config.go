package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	BotToken       string `validate:"required"`
	AdminIDs       []int64
	DBFile         string `validate:"required"`
	MediaDir       string
	Polling        bool
	WebhookBaseURL string
	WebhookSecret  string
	ServerPort     string
	JWTSecret      string `validate:"required"`

	ContactPhone     string
	ContactFirstName string
	ContactLastName  string
	ContactTelegram  string

	DispatchIntervalHours int `validate:"min=1"`
	QuizReward            int `validate:"min=1"`
	SubscriptionPrice     int `validate:"min=1"`
	SubscriptionDays      int `validate:"min=1"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] .env not found, using environment variables")
	}

	cfg := &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		AdminIDs:       parseAdminIDs(os.Getenv("ADMIN_IDS")),
		DBFile:         getEnv("DB_FILE", "data.db"),
		MediaDir:       getEnv("MEDIA_DIR", "media"),
		Polling:        getEnv("BOT_POLLING", "1") == "1",
		WebhookBaseURL: os.Getenv("WEBHOOK_BASE_URL"),
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "super-secret-key-change-me"),

		ContactPhone:     getEnv("CONTACT_PHONE", "+998942686663"),
		ContactFirstName: getEnv("CONTACT_FIRST_NAME", "Sherbek"),
		ContactLastName:  getEnv("CONTACT_LAST_NAME", "Kubayev"),
		ContactTelegram:  getEnv("CONTACT_TELEGRAM", "https://t.me/sherbekkubayev"),

		DispatchIntervalHours: getEnvInt("QUIZ_DISPATCH_HOURS", 2),
		QuizReward:            getEnvInt("QUIZ_REWARD", 100),
		SubscriptionPrice:     getEnvInt("SUBSCRIPTION_PRICE", 15000),
		SubscriptionDays:      getEnvInt("SUBSCRIPTION_DAYS", 30),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.MediaDir != "" {
		if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
			return nil, fmt.Errorf("config: create media dir: %w", err)
		}
	}

	return cfg, nil
}

func (c *Config) IsAdmin(chatID int64) bool {
	for _, id := range c.AdminIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("[config] skipping invalid admin id %q", part)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, val, fallback)
		return fallback
	}
	return n
}
