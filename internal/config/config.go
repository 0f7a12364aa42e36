package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration

	// Expiry for the single-use email verification / password reset tokens.
	TempTokenExpiry time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// Base URL used inside emailed links (verification, reset, invites).
	FrontendBaseURL string
	CORSOrigin      string

	UploadDir     string
	PublicBaseURL string
	SecureCookies bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, using system environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "taskhive_user"),
		DBPassword: getEnv("DB_PASSWORD", "taskhive_pass"),
		DBName:     getEnv("DB_NAME", "taskhive_db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", "supersecretkey"),
		AccessTokenExpiry:  getDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", "supersecretrefreshkey"),
		RefreshTokenExpiry: getDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
		TempTokenExpiry:    getDuration("TEMP_TOKEN_EXPIRY", 20*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM_ADDRESS", "noreply@taskhive.local"),

		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:8080"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		SecureCookies: getEnv("SECURE_COOKIES", "true") == "true",
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		logrus.Warnf("invalid duration in %s, using default %s", key, defaultVal)
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		logrus.Warnf("invalid integer in %s, using default %d", key, defaultVal)
	}
	return defaultVal
}
