package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/repositories"
)

const connectTimeout = 5 * time.Second

// openSQL открывает SQL-базу выбранного драйвера и возвращает диалект goose для неё.
func openSQL(cfg *config.Config) (*sql.DB, string, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		conn, err := db.Connect(cfg.DatabaseURL, connectTimeout)
		return conn, db.DialectPostgres, err
	case config.DriverSQLite:
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		return conn, db.DialectSQLite, err
	default:
		return nil, "", fmt.Errorf("storage driver %q has no SQL schema", cfg.StorageDriver)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on exit")
		return repositories.NewMemoryStore(), nil

	case config.DriverRedis:
		client, err := db.ConnectRedis(cfg.RedisURL, connectTimeout)
		if err != nil {
			return nil, err
		}
		logger.Info("redis connection established")
		return repositories.NewRedisStore(client, ""), nil
	}

	conn, dialect, err := openSQL(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", slog.String("driver", cfg.StorageDriver))

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, conn, dialect, "up", logger); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	if dialect == db.DialectPostgres {
		return repositories.NewPostgresStore(conn), nil
	}
	return repositories.NewSQLiteStore(conn), nil
}
