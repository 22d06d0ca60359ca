// Package db opens the Postgres connection pool used by the repository
// adapters.
package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open returns a verified *sql.DB using the pgx stdlib driver. The caller
// owns the pool and must close it.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}
