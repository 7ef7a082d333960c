package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// RoomRepo provides methods to store and retrieve rooms.  Seat rows and
// columns live in seat_rows/seat_cols because ROWS is reserved in MySQL 8.
type RoomRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Get retrieves a room by name.
func (r *RoomRepo) Get(ctx context.Context, name string) (model.Room, bool, error) {
	const q = `SELECT name, seat_rows, seat_cols FROM rooms WHERE name = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, name).Scan(&room.Name, &room.Rows, &room.Cols)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Room{}, false, nil
		}
		return model.Room{}, false, err
	}
	return room, true, nil
}

// Put inserts the room or updates its layout.
func (r *RoomRepo) Put(ctx context.Context, room model.Room) (model.Room, error) {
	err := upsert(ctx, r.db,
		`SELECT COUNT(*) FROM rooms WHERE name = ?`, []any{room.Name},
		`UPDATE rooms SET seat_rows = ?, seat_cols = ? WHERE name = ?`, []any{room.Rows, room.Cols, room.Name},
		`INSERT INTO rooms (name, seat_rows, seat_cols) VALUES (?, ?, ?)`, []any{room.Name, room.Rows, room.Cols},
	)
	if err != nil {
		return model.Room{}, fmt.Errorf("put room %q: %w", room.Name, err)
	}
	return room, nil
}

func (r *RoomRepo) Delete(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE name = ?`, name)
	return err
}

// List returns all rooms ordered by name.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, seat_rows, seat_cols FROM rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.Name, &room.Rows, &room.Cols); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
