package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Драйверы хранилища, допустимые в STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	StorageDriver string
	DatabaseURL   string
	SQLitePath    string
	RedisURL      string
	AutoMigrate   bool

	JWTSecretKey          string
	OrganizerPasswordHash string
	TokenTTL              time.Duration

	ServerPort         int
	LogLevel           slog.Level
	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Ошибку не считаем фатальной: .env может отсутствовать
	_ = godotenv.Load()

	cfg := &Config{
		StorageDriver:         strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", DriverPostgres)),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SQLitePath:            getEnvOrDefault("SQLITE_PATH", "swiss.db"),
		RedisURL:              os.Getenv("REDIS_URL"),
		JWTSecretKey:          os.Getenv("JWT_SECRET_KEY"),
		OrganizerPasswordHash: os.Getenv("ORGANIZER_PASSWORD_HASH"),
		R2AccountID:           os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:         os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:     os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:          os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:       os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case DriverRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL environment variable is not set")
		}
	case DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q: expected postgres, sqlite, redis or memory", cfg.StorageDriver)
	}

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := getEnvOrDefault("SERVER_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	ttl, err := time.ParseDuration(getEnvOrDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL environment variable: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	cfg.AutoMigrate, err = strconv.ParseBool(getEnvOrDefault("AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_MIGRATE environment variable: %w", err)
	}

	for _, origin := range strings.Split(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	r2Set := 0
	for _, v := range []string{cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName, cfg.R2PublicBaseURL} {
		if v != "" {
			r2Set++
		}
	}
	if r2Set != 0 && r2Set != 5 {
		return nil, fmt.Errorf("R2 archive configuration is incomplete: set all R2_* variables or none")
	}

	return cfg, nil
}

