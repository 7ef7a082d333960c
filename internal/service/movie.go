package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iliyamo/cinema-backoffice/internal/apperr"
	"github.com/iliyamo/cinema-backoffice/internal/model"
	"github.com/iliyamo/cinema-backoffice/internal/repository"
	"github.com/iliyamo/cinema-backoffice/internal/result"
)

const (
	msgMovieNotFound = "Movie not found"
	msgMovieExists   = "Movie already exists"
	msgMovieInUse    = "Movie has scheduled screenings"
)

// MovieService manages the movie catalog.
type MovieService struct {
	gate       Gate
	movies     repository.MovieStore
	screenings repository.ScreeningStore
	log        *slog.Logger
	mu         *sync.Mutex
}

func NewMovieService(gate Gate, stores repository.Stores, log *slog.Logger) *MovieService {
	return &MovieService{
		gate:       gate,
		movies:     stores.Movies,
		screenings: stores.Screenings,
		log:        log,
		mu:         new(sync.Mutex),
	}
}

// Exists reports whether a movie with title is stored.
func (s *MovieService) Exists(ctx context.Context, title string) (bool, error) {
	_, found, err := s.movies.Get(ctx, title)
	return found, err
}

func (s *MovieService) Get(ctx context.Context, title string) result.Result[model.Movie] {
	return findMovie(ctx, s.movies, title)
}

// Create stores a new movie.
func (s *MovieService) Create(ctx context.Context, m model.Movie) result.Result[model.Movie] {
	return result.FlatMap(s.gate.RequirePrivileged(), func(model.User) result.Result[model.Movie] {
		if err := checkAttrs(m); err != nil {
			return result.Err[model.Movie](err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()

		found, err := s.Exists(ctx, m.Title)
		if err != nil {
			return result.Err[model.Movie](fmt.Errorf("lookup movie: %w", err))
		}
		if found {
			return result.Err[model.Movie](apperr.AlreadyExists(msgMovieExists))
		}
		return conflictAs(result.From(s.movies.Put(ctx, m)), msgMovieExists).
			Use(func(m model.Movie) { s.log.Info("movie created", "movie", m.Title) })
	})
}

// Update overwrites genre and runtime of an existing movie.
func (s *MovieService) Update(ctx context.Context, m model.Movie) result.Result[model.Movie] {
	return result.FlatMap(s.gate.RequirePrivileged(), func(model.User) result.Result[model.Movie] {
		if err := checkAttrs(m); err != nil {
			return result.Err[model.Movie](err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()

		return result.FlatMap(findMovie(ctx, s.movies, m.Title), func(model.Movie) result.Result[model.Movie] {
			return conflictAs(result.From(s.movies.Put(ctx, m)), msgMovieExists)
		}).Use(func(m model.Movie) { s.log.Info("movie updated", "movie", m.Title) })
	})
}

// Delete removes a movie that no screening refers to and returns it.
func (s *MovieService) Delete(ctx context.Context, title string) result.Result[model.Movie] {
	return result.FlatMap(s.gate.RequirePrivileged(), func(model.User) result.Result[model.Movie] {
		s.mu.Lock()
		defer s.mu.Unlock()

		return findMovie(ctx, s.movies, title).
			Do(func(m model.Movie) error {
				refs, err := s.screenings.FindByMovie(ctx, m.Title)
				if err != nil {
					return fmt.Errorf("lookup screenings: %w", err)
				}
				if len(refs) > 0 {
					return apperr.InUse(msgMovieInUse)
				}
				return s.movies.Delete(ctx, m.Title)
			}).
			Use(func(m model.Movie) { s.log.Info("movie deleted", "movie", m.Title) })
	})
}

// List returns every movie ordered by title.  No privilege is needed.
func (s *MovieService) List(ctx context.Context) result.Result[[]model.Movie] {
	return result.From(s.movies.List(ctx))
}

func findMovie(ctx context.Context, movies repository.MovieStore, title string) result.Result[model.Movie] {
	m, found, err := movies.Get(ctx, title)
	return result.FromLookup(m, found, err, apperr.NotFound(msgMovieNotFound))
}
