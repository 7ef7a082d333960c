package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// memTable is a mutex guarded map used by every in-memory store.
type memTable[E any] struct {
	mu    sync.RWMutex
	items map[string]E
}

func newMemTable[E any]() *memTable[E] {
	return &memTable[E]{items: make(map[string]E)}
}

func (t *memTable[E]) get(key string) (E, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.items[key]
	return e, ok
}

func (t *memTable[E]) put(key string, e E) E {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[key] = e
	return e
}

func (t *memTable[E]) delete(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.items, key)
}

func (t *memTable[E]) filter(keep func(E) bool) []E {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lo.Filter(lo.Values(t.items), func(e E, _ int) bool { return keep(e) })
}

func all[E any](E) bool { return true }

// MemoryMovieStore keeps movies in process memory.
type MemoryMovieStore struct{ t *memTable[model.Movie] }

func NewMemoryMovieStore() *MemoryMovieStore {
	return &MemoryMovieStore{t: newMemTable[model.Movie]()}
}

func (s *MemoryMovieStore) Get(_ context.Context, title string) (model.Movie, bool, error) {
	m, ok := s.t.get(title)
	return m, ok, nil
}

func (s *MemoryMovieStore) Put(_ context.Context, m model.Movie) (model.Movie, error) {
	return s.t.put(m.Title, m), nil
}

func (s *MemoryMovieStore) Delete(_ context.Context, title string) error {
	s.t.delete(title)
	return nil
}

func (s *MemoryMovieStore) List(context.Context) ([]model.Movie, error) {
	out := s.t.filter(all[model.Movie])
	sortMovies(out)
	return out, nil
}

// MemoryRoomStore keeps rooms in process memory.
type MemoryRoomStore struct{ t *memTable[model.Room] }

func NewMemoryRoomStore() *MemoryRoomStore {
	return &MemoryRoomStore{t: newMemTable[model.Room]()}
}

func (s *MemoryRoomStore) Get(_ context.Context, name string) (model.Room, bool, error) {
	r, ok := s.t.get(name)
	return r, ok, nil
}

func (s *MemoryRoomStore) Put(_ context.Context, r model.Room) (model.Room, error) {
	return s.t.put(r.Name, r), nil
}

func (s *MemoryRoomStore) Delete(_ context.Context, name string) error {
	s.t.delete(name)
	return nil
}

func (s *MemoryRoomStore) List(context.Context) ([]model.Room, error) {
	out := s.t.filter(all[model.Room])
	sortRooms(out)
	return out, nil
}

// MemoryScreeningStore keeps screenings in process memory, keyed by ID.
type MemoryScreeningStore struct{ t *memTable[model.Screening] }

func NewMemoryScreeningStore() *MemoryScreeningStore {
	return &MemoryScreeningStore{t: newMemTable[model.Screening]()}
}

func (s *MemoryScreeningStore) Put(_ context.Context, sc model.Screening) (model.Screening, error) {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	sc.Start = model.NormalizeStart(sc.Start)
	return s.t.put(sc.ID, sc), nil
}

func (s *MemoryScreeningStore) Delete(_ context.Context, id string) error {
	s.t.delete(id)
	return nil
}

func (s *MemoryScreeningStore) List(context.Context) ([]model.Screening, error) {
	out := s.t.filter(all[model.Screening])
	sortScreenings(out)
	return out, nil
}

func (s *MemoryScreeningStore) FindByRoom(_ context.Context, roomName string) ([]model.Screening, error) {
	out := s.t.filter(func(sc model.Screening) bool { return sc.RoomName == roomName })
	sortScreenings(out)
	return out, nil
}

func (s *MemoryScreeningStore) FindByMovie(_ context.Context, movieTitle string) ([]model.Screening, error) {
	out := s.t.filter(func(sc model.Screening) bool { return sc.MovieTitle == movieTitle })
	sortScreenings(out)
	return out, nil
}

func (s *MemoryScreeningStore) FindExact(_ context.Context, roomName, movieTitle string, start time.Time) (model.Screening, bool, error) {
	hits := s.t.filter(func(sc model.Screening) bool { return sc.Matches(roomName, movieTitle, start) })
	if len(hits) == 0 {
		return model.Screening{}, false, nil
	}
	return hits[0], true, nil
}

// MemoryUserStore keeps accounts in process memory.
type MemoryUserStore struct{ t *memTable[model.User] }

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{t: newMemTable[model.User]()}
}

func (s *MemoryUserStore) Get(_ context.Context, username string) (model.User, bool, error) {
	u, ok := s.t.get(username)
	return u, ok, nil
}

func (s *MemoryUserStore) Put(_ context.Context, u model.User) (model.User, error) {
	return s.t.put(u.Username, u), nil
}

// NewMemoryStores builds a bundle of empty in-memory stores.
func NewMemoryStores() Stores {
	return Stores{
		Movies:     NewMemoryMovieStore(),
		Rooms:      NewMemoryRoomStore(),
		Screenings: NewMemoryScreeningStore(),
		Users:      NewMemoryUserStore(),
		Close:      func() error { return nil },
	}
}
