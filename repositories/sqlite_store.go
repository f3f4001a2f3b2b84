package repositories

import (
	"database/sql"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// NewSQLiteStore returns a Store backed by an embedded modernc SQLite database.
// The handle is expected to come from db.OpenSQLite (single connection, foreign keys on).
func NewSQLiteStore(db *sql.DB) Store {
	return newSQLStore(db, sqlDialect{
		name:   "sqlite",
		rebind: func(query string) string { return query },
		isUniqueViolation: func(err error) bool {
			return hasSQLiteCode(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
		},
		isForeignKeyViolation: func(err error) bool {
			return hasSQLiteCode(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY)
		},
		// транзакция SQLite и так сериализуема, уровень изоляции не задаём
		snapshotTx: nil,
	})
}

func hasSQLiteCode(err error, codes ...int) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	for _, code := range codes {
		if sqliteErr.Code() == code {
			return true
		}
	}
	return false
}
