package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	MigrationsPath  string
	AllowedOrigin   string
	SessionDuration time.Duration

	// HMAC secret for signed review-completion links
	TokenSecret string

	// Reminder email (Amazon SES)
	AWSRegion        string
	SESFromEmail     string
	SESFromName      string
	AppBaseURL       string
	ReminderInterval time.Duration

	// Google sign-in
	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./learnloop.db"),
		DatabaseURL:     getEnv("DB_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		AllowedOrigin:   getEnv("CORS_ORIGIN", "http://localhost:3000"),
		SessionDuration: getDuration("SESSION_DURATION", 24*time.Hour),

		TokenSecret: getEnv("TOKEN_SECRET", ""),

		AWSRegion:        getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:     getEnv("SES_FROM_EMAIL", ""),
		SESFromName:      getEnv("SES_FROM_NAME", "LearnLoop"),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:8080"),
		ReminderInterval: getDuration("REMINDER_INTERVAL", 1*time.Hour),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration reads a duration environment variable or returns a default value
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
