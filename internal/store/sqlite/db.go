package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"socialnet/internal/domain"
)

// Open opens a SQLite database with the given DSN. Foreign keys are enforced
// so post and conversation deletes cascade to their child rows.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseConnection, err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	// All access multiplexes over one logical connection; the engine
	// serializes statements itself.
	db.SetMaxOpenConns(1)
	return db, nil
}

// isConstraintViolation reports whether err is any SQLite constraint failure
// (unique, primary key, foreign key).
func isConstraintViolation(err error) bool {
	var se *sqlitedriver.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

// classify maps store errors onto the domain taxonomy, preserving the
// original error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}
