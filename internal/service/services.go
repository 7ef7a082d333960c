package service

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/iliyamo/cinema-backoffice/internal/apperr"
	"github.com/iliyamo/cinema-backoffice/internal/repository"
	"github.com/iliyamo/cinema-backoffice/internal/result"
)

// Services bundles the three back-office services.
type Services struct {
	Movies     *MovieService
	Rooms      *RoomService
	Screenings *ScreeningService
}

// New wires the services over one set of stores.  They share a single
// write lock: deleting a movie or room and scheduling a screening that
// refers to it must not interleave.
func New(gate Gate, stores repository.Stores, events EventPublisher, brk time.Duration, log *slog.Logger) *Services {
	mu := new(sync.Mutex)
	movies := NewMovieService(gate, stores, log)
	rooms := NewRoomService(gate, stores, log)
	screenings := NewScreeningService(gate, stores, events, brk, log)
	movies.mu, rooms.mu, screenings.mu = mu, mu, mu
	return &Services{Movies: movies, Rooms: rooms, Screenings: screenings}
}

// conflictAs reports a store write that lost a race for its key, which only
// happens when several processes share one database, as AlreadyExists with
// msg.
func conflictAs[T any](r result.Result[T], msg string) result.Result[T] {
	return result.MapErr(r, func(err error) error {
		if errors.Is(err, repository.ErrConflict) {
			return apperr.AlreadyExists(msg)
		}
		return err
	})
}
