package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string

	AccessTokenSecret  string
	RefreshTokenSecret string
	Pepper             string
	BcryptCost         int
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	ServerHost    string
	ServerPort    string
	PublicBaseURL string
	Environment   string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPSender   string

	LogLevel  string
	LogFormat string
}

var (
	ErrMissingDatabaseURL       = errors.New("DATABASE_URL is required")
	ErrMissingAccessTokenSecret = errors.New("ACCESS_TOKEN_SECRET is required")
	ErrMissingPepper            = errors.New("PEPPER is required")
	ErrInvalidTokenTTL          = errors.New("invalid token TTL format")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		Pepper:             os.Getenv("PEPPER"),
		BcryptCost:         getEnvOrDefaultInt("BCRYPT_COST", 10),
		ServerHost:         getEnvOrDefault("SERVER_HOST", "localhost"),
		ServerPort:         getEnvOrDefault("SERVER_PORT", "8080"),
		PublicBaseURL:      getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		Environment:        getEnvOrDefault("ENV", "development"),
		SMTPHost:           getEnvOrDefault("SMTP_HOST", "localhost"),
		SMTPPort:           getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUsername:       os.Getenv("SMTP_USERNAME"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		SMTPSender:         getEnvOrDefault("SMTP_SENDER", "no-reply@localhost"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.AccessTokenSecret == "" {
		return nil, ErrMissingAccessTokenSecret
	}
	if cfg.Pepper == "" {
		return nil, ErrMissingPepper
	}

	// One shared secret for both token kinds unless a dedicated refresh
	// secret is configured.
	if cfg.RefreshTokenSecret == "" {
		cfg.RefreshTokenSecret = cfg.AccessTokenSecret
	}

	accessTokenTTL, err := parseTokenTTL(getEnvOrDefault("ACCESS_TOKEN_TTL", "3600"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.AccessTokenTTL = accessTokenTTL

	refreshTokenTTL, err := parseTokenTTL(getEnvOrDefault("REFRESH_TOKEN_TTL", "604800"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RefreshTokenTTL = refreshTokenTTL

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// parseTokenTTL interprets the value as whole seconds.
func parseTokenTTL(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}
