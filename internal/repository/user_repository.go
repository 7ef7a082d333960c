package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// UserRepo persists operator accounts in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Get fetches a user by username.
func (r *UserRepo) Get(ctx context.Context, username string) (model.User, bool, error) {
	var u model.User
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT username, password_hash, role FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.Username, &u.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, false, nil
		}
		return model.User{}, false, err
	}
	u.Role = model.Role(role)
	return u, true, nil
}

// Put inserts the account or replaces its hash and role.
func (r *UserRepo) Put(ctx context.Context, u model.User) (model.User, error) {
	err := upsert(ctx, r.DB,
		"SELECT COUNT(*) FROM users WHERE username=?", []any{u.Username},
		"UPDATE users SET password_hash=?, role=? WHERE username=?", []any{u.PasswordHash, string(u.Role), u.Username},
		"INSERT INTO users (username, password_hash, role) VALUES (?,?,?)", []any{u.Username, u.PasswordHash, string(u.Role)},
	)
	if err != nil {
		return model.User{}, fmt.Errorf("put user %q: %w", u.Username, err)
	}
	return u, nil
}

// NewSQLStores wires the SQL repositories over one connection pool.
func NewSQLStores(db *sql.DB) Stores {
	return Stores{
		Movies:     NewMovieRepo(db),
		Rooms:      NewRoomRepo(db),
		Screenings: NewScreeningRepo(db),
		Users:      NewUserRepo(db),
		Close:      db.Close,
	}
}
