// Package repository contains data access logic for screening operations.
// A screening refers to its movie and room by key; start times are stored as
// UTC DATETIME values at minute precision.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

const screeningColumns = `id, movie_title, room_name, starts_at`

// ScreeningRepo manages persistence for screenings.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo {
	return &ScreeningRepo{db: db}
}

// Put inserts a new screening, generating its ID, or rewrites an existing
// row with the same ID.
func (r *ScreeningRepo) Put(ctx context.Context, s model.Screening) (model.Screening, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Start = model.NormalizeStart(s.Start)
	err := upsert(ctx, r.db,
		`SELECT COUNT(*) FROM screenings WHERE id = ?`, []any{s.ID},
		`UPDATE screenings SET movie_title = ?, room_name = ?, starts_at = ? WHERE id = ?`, []any{s.MovieTitle, s.RoomName, s.Start, s.ID},
		`INSERT INTO screenings (id, movie_title, room_name, starts_at) VALUES (?, ?, ?, ?)`, []any{s.ID, s.MovieTitle, s.RoomName, s.Start},
	)
	if err != nil {
		return model.Screening{}, err
	}
	return s, nil
}

// Delete removes the screening with the given ID.
func (r *ScreeningRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM screenings WHERE id = ?`, id)
	return err
}

// List returns every screening ordered by start time, then room.
func (r *ScreeningRepo) List(ctx context.Context) ([]model.Screening, error) {
	return r.query(ctx, `SELECT `+screeningColumns+` FROM screenings ORDER BY starts_at ASC, room_name ASC`)
}

// FindByRoom returns all screenings hosted by a room.  This is the input of
// the scheduler's conflict test.
func (r *ScreeningRepo) FindByRoom(ctx context.Context, roomName string) ([]model.Screening, error) {
	return r.query(ctx, `SELECT `+screeningColumns+` FROM screenings WHERE room_name = ? ORDER BY starts_at ASC`, roomName)
}

// FindByMovie returns all screenings of a movie.
func (r *ScreeningRepo) FindByMovie(ctx context.Context, movieTitle string) ([]model.Screening, error) {
	return r.query(ctx, `SELECT `+screeningColumns+` FROM screenings WHERE movie_title = ? ORDER BY starts_at ASC`, movieTitle)
}

// FindExact looks up the screening identified by (room, movie, start).
func (r *ScreeningRepo) FindExact(ctx context.Context, roomName, movieTitle string, start time.Time) (model.Screening, bool, error) {
	const q = `SELECT ` + screeningColumns + ` FROM screenings
               WHERE room_name = ? AND movie_title = ? AND starts_at = ?
               LIMIT 1`
	var s model.Screening
	err := r.db.QueryRowContext(ctx, q, roomName, movieTitle, model.NormalizeStart(start)).
		Scan(&s.ID, &s.MovieTitle, &s.RoomName, &s.Start)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Screening{}, false, nil
		}
		return model.Screening{}, false, err
	}
	s.Start = s.Start.UTC()
	return s, true, nil
}

func (r *ScreeningRepo) query(ctx context.Context, q string, args ...any) ([]model.Screening, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Screening
	for rows.Next() {
		var s model.Screening
		if err := rows.Scan(&s.ID, &s.MovieTitle, &s.RoomName, &s.Start); err != nil {
			return nil, err
		}
		s.Start = s.Start.UTC()
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
