package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"STORAGE_DRIVER", "DATABASE_URL", "SQLITE_PATH", "REDIS_URL", "AUTO_MIGRATE",
	"JWT_SECRET_KEY", "ORGANIZER_PASSWORD_HASH", "TOKEN_TTL",
	"SERVER_PORT", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS",
	"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL",
}

// setEnv очищает все ключи конфигурации и выставляет переданные.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, env[key])
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL":   "postgres://localhost/swiss",
		"JWT_SECRET_KEY": "secret",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "swiss.db", cfg.SQLitePath)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadCustomValues(t *testing.T) {
	setEnv(t, map[string]string{
		"STORAGE_DRIVER":       "SQLite",
		"SQLITE_PATH":          "/tmp/t.db",
		"AUTO_MIGRATE":         "false",
		"JWT_SECRET_KEY":       "secret",
		"TOKEN_TTL":            "90m",
		"SERVER_PORT":          "9000",
		"LOG_LEVEL":            "debug",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "/tmp/t.db", cfg.SQLitePath)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadErrors(t *testing.T) {
	base := map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET_KEY": "secret"}
	with := func(kv ...string) map[string]string {
		env := map[string]string{}
		for k, v := range base {
			env[k] = v
		}
		for i := 0; i+1 < len(kv); i += 2 {
			env[kv[i]] = kv[i+1]
		}
		return env
	}

	cases := map[string]map[string]string{
		"postgres without url": with("STORAGE_DRIVER", "postgres"),
		"redis without url":    with("STORAGE_DRIVER", "redis"),
		"unknown driver":       with("STORAGE_DRIVER", "mongo"),
		"missing jwt secret":   with("JWT_SECRET_KEY", ""),
		"bad port":             with("SERVER_PORT", "http"),
		"port out of range":    with("SERVER_PORT", "70000"),
		"bad log level":        with("LOG_LEVEL", "loud"),
		"bad ttl":              with("TOKEN_TTL", "forever"),
		"negative ttl":         with("TOKEN_TTL", "-1h"),
		"bad auto migrate":     with("AUTO_MIGRATE", "maybe"),
		"partial r2":           with("R2_ACCOUNT_ID", "acc", "R2_BUCKET_NAME", "bucket"),
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setEnv(t, env)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFullR2(t *testing.T) {
	setEnv(t, map[string]string{
		"STORAGE_DRIVER":       "memory",
		"JWT_SECRET_KEY":       "secret",
		"R2_ACCOUNT_ID":        "acc",
		"R2_ACCESS_KEY_ID":     "key",
		"R2_SECRET_ACCESS_KEY": "secret",
		"R2_BUCKET_NAME":       "bucket",
		"R2_PUBLIC_BASE_URL":   "https://pub.r2.dev",
	})
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bucket", cfg.R2BucketName)
}
