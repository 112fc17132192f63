package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Connect opens the answer history database and creates its schema
func Connect(driver, dsn string) (*sqlx.DB, error) {
	if driver == DriverSQLite {
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(dsn); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == DriverPostgres {
		idColumn = "id SERIAL PRIMARY KEY"
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS answers (
			` + idColumn + `,
			kind TEXT NOT NULL,
			test_type TEXT NOT NULL,
			item_id TEXT NOT NULL,
			is_correct BOOLEAN NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			answered_on TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create answers table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_answers_answered_on ON answers (answered_on)`)
	if err != nil {
		return fmt.Errorf("failed to create answers index: %w", err)
	}

	return nil
}
