package repository

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// MovieStore is the key-addressable persistence of movies, keyed by title.
// Get reports absence with found=false; err is reserved for storage failures.
type MovieStore interface {
	Get(ctx context.Context, title string) (model.Movie, bool, error)
	Put(ctx context.Context, m model.Movie) (model.Movie, error)
	Delete(ctx context.Context, title string) error
	List(ctx context.Context) ([]model.Movie, error)
}

// RoomStore persists rooms keyed by name.
type RoomStore interface {
	Get(ctx context.Context, name string) (model.Room, bool, error)
	Put(ctx context.Context, r model.Room) (model.Room, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]model.Room, error)
}

// ScreeningStore persists screenings keyed by their generated ID. Put
// assigns an ID when the screening has none.
type ScreeningStore interface {
	Put(ctx context.Context, s model.Screening) (model.Screening, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Screening, error)
	FindByRoom(ctx context.Context, roomName string) ([]model.Screening, error)
	FindByMovie(ctx context.Context, movieTitle string) ([]model.Screening, error)
	FindExact(ctx context.Context, roomName, movieTitle string, start time.Time) (model.Screening, bool, error)
}

// UserStore persists operator accounts keyed by username.
type UserStore interface {
	Get(ctx context.Context, username string) (model.User, bool, error)
	Put(ctx context.Context, u model.User) (model.User, error)
}

// Stores bundles one store per entity. The composition root picks the
// backend (memory, SQL or Badger) and hands the bundle to the services.
type Stores struct {
	Movies     MovieStore
	Rooms      RoomStore
	Screenings ScreeningStore
	Users      UserStore
	// Close releases the backend, if it holds anything.
	Close func() error
}

// Listing order shared by the backends that cannot sort in a query.

func sortMovies(ms []model.Movie) {
	sort.Slice(ms, func(i, j int) bool { return ms[i].Title < ms[j].Title })
}

func sortRooms(rs []model.Room) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Name < rs[j].Name })
}

func sortScreenings(ss []model.Screening) {
	sort.Slice(ss, func(i, j int) bool {
		if !ss[i].Start.Equal(ss[j].Start) {
			return ss[i].Start.Before(ss[j].Start)
		}
		return ss[i].RoomName < ss[j].RoomName
	})
}
