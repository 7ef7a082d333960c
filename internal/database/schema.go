package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is written in the subset of SQL understood by both MySQL and
// SQLite.  Column names avoid words reserved in either dialect.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		title           VARCHAR(191) NOT NULL PRIMARY KEY,
		genre           VARCHAR(191) NOT NULL,
		runtime_minutes INT          NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		name      VARCHAR(191) NOT NULL PRIMARY KEY,
		seat_rows INT          NOT NULL,
		seat_cols INT          NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS screenings (
		id          CHAR(36)     NOT NULL PRIMARY KEY,
		movie_title VARCHAR(191) NOT NULL,
		room_name   VARCHAR(191) NOT NULL,
		starts_at   DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		username      VARCHAR(191) NOT NULL PRIMARY KEY,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL
	)`,
}

// Migrate creates the back-office tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
