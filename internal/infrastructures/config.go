package infrastructures

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	DATABASE_URL       string
	REDIS_ADDRESS      string
	REDIS_PASSWORD     string
	JWT_SECRET         string
	RESEND_API_KEY     string
	ALERT_FROM_EMAIL   string
	CRON_SECRET        string
	APP_BASE_URL       string
	EditWindowFallback int
}

var Config *AppConfig

func LoadConfig() *AppConfig {
	godotenv.Load()

	fallback, err := strconv.Atoi(os.Getenv("EDIT_WINDOW_MINUTES"))
	if err != nil || fallback <= 0 {
		fallback = 10
	}

	Config = &AppConfig{
		DATABASE_URL:       os.Getenv("DATABASE_URL"),
		REDIS_ADDRESS:      os.Getenv("REDIS_ADDRESS"),
		REDIS_PASSWORD:     os.Getenv("REDIS_PASSWORD"),
		JWT_SECRET:         os.Getenv("JWT_SECRET"),
		RESEND_API_KEY:     os.Getenv("RESEND_API_KEY"),
		ALERT_FROM_EMAIL:   os.Getenv("ALERT_FROM_EMAIL"),
		CRON_SECRET:        os.Getenv("CRON_SECRET"),
		APP_BASE_URL:       os.Getenv("APP_BASE_URL"),
		EditWindowFallback: fallback,
	}

	if Config.ALERT_FROM_EMAIL == "" {
		Config.ALERT_FROM_EMAIL = "alerts@resend.dev"
	}

	return Config
}
