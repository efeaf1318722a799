package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// LoadEnv reads a .env file into the process environment once. A missing file is not an error.
func LoadEnv() {
	loadOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// ProviderConfig configures the aviation data provider client.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// MailConfig configures outgoing SMTP mail. An empty Host disables mail.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// AppConfig holds all configuration for the application
type AppConfig struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	TokenTTL       time.Duration
	LogFile        string
	AllowedOrigins []string
	PriceCacheTTL  time.Duration

	Provider ProviderConfig
	Mail     MailConfig
}

// Load builds an AppConfig from the environment, applying defaults.
func Load() *AppConfig {
	LoadEnv()

	return &AppConfig{
		Port:           getEnv("PORT", "8081"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 30*24)) * time.Hour,
		LogFile:        getEnv("LOG_FILE", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		PriceCacheTTL:  time.Duration(getEnvAsInt("PRICE_CACHE_TTL_HOURS", 24)) * time.Hour,

		Provider: ProviderConfig{
			BaseURL: getEnv("AVIATION_API_BASE_URL", "https://api.aviationstack.com/v1"),
			APIKey:  getEnv("AVIATION_API_KEY", ""),
			Timeout: time.Duration(getEnvAsInt("AVIATION_API_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("FROM_EMAIL", "no-reply@gowafly.local"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
