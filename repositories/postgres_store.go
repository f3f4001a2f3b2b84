package repositories

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые мы различаем
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// NewPostgresStore returns a Store backed by a lib/pq connection pool.
func NewPostgresStore(db *sql.DB) Store {
	return newSQLStore(db, sqlDialect{
		name:                  "postgres",
		rebind:                rebindDollar,
		isUniqueViolation:     func(err error) bool { return hasPQCode(err, pgUniqueViolation) },
		isForeignKeyViolation: func(err error) bool { return hasPQCode(err, pgForeignKeyViolation) },
		snapshotTx:            &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
	})
}

func hasPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}
	return false
}
