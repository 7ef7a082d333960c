package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/iliyamo/cinema-backoffice/internal/apperr"
	"github.com/iliyamo/cinema-backoffice/internal/model"
	"github.com/iliyamo/cinema-backoffice/internal/queue"
	"github.com/iliyamo/cinema-backoffice/internal/repository"
	"github.com/iliyamo/cinema-backoffice/internal/result"
)

// DefaultBreak is the changeover time a room needs after every screening.
const DefaultBreak = 10 * time.Minute

const (
	msgScreeningNotFound = "Screening not found"
	msgOverlap           = "There is an overlapping screening"
	msgBreak             = "This would start in the break period after another screening in this room"
)

// ScreeningService is the scheduler.  It places movies into rooms so that
// no two screenings in one room overlap and every screening is followed by
// a break before the next one starts.
type ScreeningService struct {
	gate       Gate
	movies     repository.MovieStore
	rooms      repository.RoomStore
	screenings repository.ScreeningStore
	events     EventPublisher
	brk        time.Duration
	log        *slog.Logger
	mu         *sync.Mutex
}

func NewScreeningService(gate Gate, stores repository.Stores, events EventPublisher, brk time.Duration, log *slog.Logger) *ScreeningService {
	if events == nil {
		events = NopPublisher{}
	}
	return &ScreeningService{
		gate:       gate,
		movies:     stores.Movies,
		rooms:      stores.Rooms,
		screenings: stores.Screenings,
		events:     events,
		brk:        brk,
		log:        log,
		mu:         new(sync.Mutex),
	}
}

// slot is the time a screening holds its room.  Both ends are inclusive.
type slot struct {
	start, end time.Time
}

// slotOf saturates instead of wrapping, so an end never precedes its start.
func slotOf(start time.Time, runtime, pad time.Duration) slot {
	d := runtime + pad
	if d < runtime {
		d = math.MaxInt64
	}
	return slot{start: start, end: start.Add(d)}
}

func (a slot) intersects(b slot) bool {
	return !a.start.After(b.end) && !a.end.Before(b.start)
}

// booking is an existing screening with its movie's runtime resolved.
type booking struct {
	model.Screening
	runtime time.Duration
}

// Get resolves movie and room, in that order, then the screening itself.
func (s *ScreeningService) Get(ctx context.Context, movieTitle, roomName string, start time.Time) result.Result[model.Screening] {
	start = model.NormalizeStart(start)
	return result.FlatMap(findMovie(ctx, s.movies, movieTitle), func(m model.Movie) result.Result[model.Screening] {
		return result.FlatMap(findRoom(ctx, s.rooms, roomName), func(r model.Room) result.Result[model.Screening] {
			sc, found, err := s.screenings.FindExact(ctx, r.Name, m.Title, start)
			return result.FromLookup(sc, found, err, apperr.NotFound(msgScreeningNotFound))
		})
	})
}

// Create schedules movieTitle in roomName at start.  An exact duplicate is
// rejected by the overlap rule, since a screening always overlaps itself.
func (s *ScreeningService) Create(ctx context.Context, movieTitle, roomName string, start time.Time) result.Result[model.Screening] {
	start = model.NormalizeStart(start)
	return result.FlatMap(s.gate.RequirePrivileged(), func(model.User) result.Result[model.Screening] {
		s.mu.Lock()
		defer s.mu.Unlock()

		return result.FlatMap(findMovie(ctx, s.movies, movieTitle), func(m model.Movie) result.Result[model.Screening] {
			return result.FlatMap(findRoom(ctx, s.rooms, roomName), func(r model.Room) result.Result[model.Screening] {
				existing, err := s.bookings(ctx, r.Name)
				if err != nil {
					return result.Err[model.Screening](err)
				}
				if err := s.conflict(start, m.Runtime(), existing); err != nil {
					s.log.Debug("screening rejected", "movie", m.Title, "room", r.Name, "start", start, "reason", err)
					return result.Err[model.Screening](err)
				}
				return result.From(s.screenings.Put(ctx, model.Screening{MovieTitle: m.Title, RoomName: r.Name, Start: start}))
			})
		}).Use(func(sc model.Screening) {
			s.log.Info("screening scheduled", "movie", sc.MovieTitle, "room", sc.RoomName, "start", sc.Start)
			s.publish(ctx, queue.ScreeningScheduled, sc)
		})
	})
}

// conflict runs the overlap rule against every existing screening, then
// the break rule with the break added to both runtimes.
func (s *ScreeningService) conflict(start time.Time, runtime time.Duration, existing []booking) error {
	clashes := func(pad time.Duration) bool {
		candidate := slotOf(start, runtime, pad)
		return lo.SomeBy(existing, func(b booking) bool {
			return candidate.intersects(slotOf(b.Start, b.runtime, pad))
		})
	}
	if clashes(0) {
		return apperr.SchedulingConflict(msgOverlap)
	}
	if clashes(s.brk) {
		return apperr.SchedulingConflict(msgBreak)
	}
	return nil
}

// bookings loads the screenings of a room with their runtimes.
func (s *ScreeningService) bookings(ctx context.Context, roomName string) ([]booking, error) {
	inRoom, err := s.screenings.FindByRoom(ctx, roomName)
	if err != nil {
		return nil, fmt.Errorf("lookup screenings: %w", err)
	}
	runtimes := make(map[string]time.Duration)
	out := make([]booking, 0, len(inRoom))
	for _, sc := range inRoom {
		rt, ok := runtimes[sc.MovieTitle]
		if !ok {
			m, found, err := s.movies.Get(ctx, sc.MovieTitle)
			if err != nil {
				return nil, fmt.Errorf("lookup movie %q: %w", sc.MovieTitle, err)
			}
			if !found {
				return nil, fmt.Errorf("screening %s refers to missing movie %q", sc.ID, sc.MovieTitle)
			}
			rt = m.Runtime()
			runtimes[sc.MovieTitle] = rt
		}
		out = append(out, booking{Screening: sc, runtime: rt})
	}
	return out, nil
}

// Delete removes the screening identified by (movie, room, start) and
// returns it.
func (s *ScreeningService) Delete(ctx context.Context, movieTitle, roomName string, start time.Time) result.Result[model.Screening] {
	return result.FlatMap(s.gate.RequirePrivileged(), func(model.User) result.Result[model.Screening] {
		s.mu.Lock()
		defer s.mu.Unlock()

		return s.Get(ctx, movieTitle, roomName, start).
			Do(func(sc model.Screening) error { return s.screenings.Delete(ctx, sc.ID) }).
			Use(func(sc model.Screening) {
				s.log.Info("screening cancelled", "movie", sc.MovieTitle, "room", sc.RoomName, "start", sc.Start)
				s.publish(ctx, queue.ScreeningCancelled, sc)
			})
	})
}

// List returns every screening ordered by start time.
func (s *ScreeningService) List(ctx context.Context) result.Result[[]model.Screening] {
	return result.From(s.screenings.List(ctx))
}

// ListDetailed is List with each screening's movie resolved for display.
func (s *ScreeningService) ListDetailed(ctx context.Context) result.Result[[]model.ScreeningDetail] {
	return result.FlatMap(s.List(ctx), func(all []model.Screening) result.Result[[]model.ScreeningDetail] {
		out := make([]model.ScreeningDetail, 0, len(all))
		for _, sc := range all {
			m, err := findMovie(ctx, s.movies, sc.MovieTitle).Get()
			if err != nil {
				return result.Err[[]model.ScreeningDetail](err)
			}
			out = append(out, model.ScreeningDetail{Screening: sc, Movie: m})
		}
		return result.Ok(out)
	})
}

// publish hands an event to the broker.  A failed publish never fails the
// operation that caused it.
func (s *ScreeningService) publish(ctx context.Context, typ string, sc model.Screening) {
	if err := s.events.Publish(ctx, queue.NewScreeningEvent(typ, sc)); err != nil {
		s.log.Warn("screening event not published", "type", typ, "err", err)
	}
}
