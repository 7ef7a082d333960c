// Package repository contains data access logic separated from the services.
// This file defines the SQL backed movie store. The queries use `?`
// placeholders and portable DDL so the same code serves MySQL and SQLite.
package repository

import (
	"context"      // context carries deadlines into DB calls
	"database/sql" // sql provides generic database operations
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *sql.DB // db is the underlying connection pool
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Get fetches a movie by title.  A missing row is reported with found=false.
func (r *MovieRepo) Get(ctx context.Context, title string) (model.Movie, bool, error) {
	const q = `SELECT title, genre, runtime_minutes FROM movies WHERE title = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, title).Scan(&m.Title, &m.Genre, &m.RuntimeMinutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Movie{}, false, nil
		}
		return model.Movie{}, false, err
	}
	return m, true, nil
}

// Put inserts the movie or overwrites genre and runtime of an existing row.
// The existence check and the write share one transaction.
func (r *MovieRepo) Put(ctx context.Context, m model.Movie) (model.Movie, error) {
	err := upsert(ctx, r.db,
		`SELECT COUNT(*) FROM movies WHERE title = ?`, []any{m.Title},
		`UPDATE movies SET genre = ?, runtime_minutes = ? WHERE title = ?`, []any{m.Genre, m.RuntimeMinutes, m.Title},
		`INSERT INTO movies (title, genre, runtime_minutes) VALUES (?, ?, ?)`, []any{m.Title, m.Genre, m.RuntimeMinutes},
	)
	if err != nil {
		return model.Movie{}, fmt.Errorf("put movie %q: %w", m.Title, err)
	}
	return m, nil
}

// Delete removes the movie row.  Deleting a missing title is not an error.
func (r *MovieRepo) Delete(ctx context.Context, title string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE title = ?`, title)
	return err
}

// List returns all movies ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT title, genre, runtime_minutes FROM movies ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.Title, &m.Genre, &m.RuntimeMinutes); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// upsert runs count, then update or insert, inside one transaction.  A
// unique-key violation on the insert means another writer won the race and
// is reported as ErrConflict.
func upsert(ctx context.Context, db *sql.DB, qCount string, countArgs []any, qUpdate string, updateArgs []any, qInsert string, insertArgs []any) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// Ensure rollback or commit at the end
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var n int
	if err = tx.QueryRowContext(ctx, qCount, countArgs...).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		_, err = tx.ExecContext(ctx, qUpdate, updateArgs...)
		return err
	}
	if _, err = tx.ExecContext(ctx, qInsert, insertArgs...); err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}
