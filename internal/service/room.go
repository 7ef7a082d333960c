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
	msgRoomNotFound = "Room not found"
	msgRoomExists   = "Room already exists"
	msgRoomInUse    = "Room has scheduled screenings"
)

// RoomService manages screening rooms.  It mirrors MovieService.
type RoomService struct {
	gate       Gate
	rooms      repository.RoomStore
	screenings repository.ScreeningStore
	log        *slog.Logger
	mu         *sync.Mutex
}

func NewRoomService(gate Gate, stores repository.Stores, log *slog.Logger) *RoomService {
	return &RoomService{
		gate:       gate,
		rooms:      stores.Rooms,
		screenings: stores.Screenings,
		log:        log,
		mu:         new(sync.Mutex),
	}
}

func (s *RoomService) Exists(ctx context.Context, name string) (bool, error) {
	_, found, err := s.rooms.Get(ctx, name)
	return found, err
}

func (s *RoomService) Get(ctx context.Context, name string) result.Result[model.Room] {
	return findRoom(ctx, s.rooms, name)
}

func (s *RoomService) Create(ctx context.Context, r model.Room) result.Result[model.Room] {
	return result.FlatMap(s.gate.RequirePrivileged(), func(model.User) result.Result[model.Room] {
		if err := checkAttrs(r); err != nil {
			return result.Err[model.Room](err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()

		found, err := s.Exists(ctx, r.Name)
		if err != nil {
			return result.Err[model.Room](fmt.Errorf("lookup room: %w", err))
		}
		if found {
			return result.Err[model.Room](apperr.AlreadyExists(msgRoomExists))
		}
		return conflictAs(result.From(s.rooms.Put(ctx, r)), msgRoomExists).
			Use(func(r model.Room) { s.log.Info("room created", "room", r.Name, "seats", r.Seats()) })
	})
}

func (s *RoomService) Update(ctx context.Context, r model.Room) result.Result[model.Room] {
	return result.FlatMap(s.gate.RequirePrivileged(), func(model.User) result.Result[model.Room] {
		if err := checkAttrs(r); err != nil {
			return result.Err[model.Room](err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()

		return result.FlatMap(findRoom(ctx, s.rooms, r.Name), func(model.Room) result.Result[model.Room] {
			return conflictAs(result.From(s.rooms.Put(ctx, r)), msgRoomExists)
		}).Use(func(r model.Room) { s.log.Info("room updated", "room", r.Name, "seats", r.Seats()) })
	})
}

func (s *RoomService) Delete(ctx context.Context, name string) result.Result[model.Room] {
	return result.FlatMap(s.gate.RequirePrivileged(), func(model.User) result.Result[model.Room] {
		s.mu.Lock()
		defer s.mu.Unlock()

		return findRoom(ctx, s.rooms, name).
			Do(func(r model.Room) error {
				refs, err := s.screenings.FindByRoom(ctx, r.Name)
				if err != nil {
					return fmt.Errorf("lookup screenings: %w", err)
				}
				if len(refs) > 0 {
					return apperr.InUse(msgRoomInUse)
				}
				return s.rooms.Delete(ctx, r.Name)
			}).
			Use(func(r model.Room) { s.log.Info("room deleted", "room", r.Name) })
	})
}

func (s *RoomService) List(ctx context.Context) result.Result[[]model.Room] {
	return result.From(s.rooms.List(ctx))
}

func findRoom(ctx context.Context, rooms repository.RoomStore, name string) result.Result[model.Room] {
	r, found, err := rooms.Get(ctx, name)
	return result.FromLookup(r, found, err, apperr.NotFound(msgRoomNotFound))
}
