package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// badgerTable stores JSON encoded entities under "<prefix>:<key>".
type badgerTable[E any] struct {
	db     *badger.DB
	prefix string
}

func (t badgerTable[E]) key(k string) []byte {
	return []byte(t.prefix + ":" + k)
}

func (t badgerTable[E]) get(k string) (E, bool, error) {
	var e E
	found := false
	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(t.key(k))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if err != nil {
		return e, false, fmt.Errorf("badger get %s: %w", t.key(k), err)
	}
	return e, found, nil
}

func (t badgerTable[E]) put(k string, e E) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(t.key(k), data)
	})
}

func (t badgerTable[E]) delete(k string) error {
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(t.key(k))
	})
}

func (t badgerTable[E]) scan(keep func(E) bool) ([]E, error) {
	var out []E
	err := t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(t.prefix + ":")
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var e E
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return err
			}
			if keep(e) {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

// BadgerMovieStore persists movies in an embedded Badger database.
type BadgerMovieStore struct{ t badgerTable[model.Movie] }

func NewBadgerMovieStore(db *badger.DB) *BadgerMovieStore {
	return &BadgerMovieStore{t: badgerTable[model.Movie]{db: db, prefix: "movie"}}
}

func (s *BadgerMovieStore) Get(_ context.Context, title string) (model.Movie, bool, error) {
	return s.t.get(title)
}

func (s *BadgerMovieStore) Put(_ context.Context, m model.Movie) (model.Movie, error) {
	return m, s.t.put(m.Title, m)
}

func (s *BadgerMovieStore) Delete(_ context.Context, title string) error {
	return s.t.delete(title)
}

func (s *BadgerMovieStore) List(context.Context) ([]model.Movie, error) {
	out, err := s.t.scan(all[model.Movie])
	sortMovies(out)
	return out, err
}

// BadgerRoomStore persists rooms in Badger.
type BadgerRoomStore struct{ t badgerTable[model.Room] }

func NewBadgerRoomStore(db *badger.DB) *BadgerRoomStore {
	return &BadgerRoomStore{t: badgerTable[model.Room]{db: db, prefix: "room"}}
}

func (s *BadgerRoomStore) Get(_ context.Context, name string) (model.Room, bool, error) {
	return s.t.get(name)
}

func (s *BadgerRoomStore) Put(_ context.Context, r model.Room) (model.Room, error) {
	return r, s.t.put(r.Name, r)
}

func (s *BadgerRoomStore) Delete(_ context.Context, name string) error {
	return s.t.delete(name)
}

func (s *BadgerRoomStore) List(context.Context) ([]model.Room, error) {
	out, err := s.t.scan(all[model.Room])
	sortRooms(out)
	return out, err
}

// BadgerScreeningStore persists screenings in Badger keyed by ID.  Room and
// movie lookups scan the screening prefix.
type BadgerScreeningStore struct{ t badgerTable[model.Screening] }

func NewBadgerScreeningStore(db *badger.DB) *BadgerScreeningStore {
	return &BadgerScreeningStore{t: badgerTable[model.Screening]{db: db, prefix: "screening"}}
}

func (s *BadgerScreeningStore) Put(_ context.Context, sc model.Screening) (model.Screening, error) {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	sc.Start = model.NormalizeStart(sc.Start)
	return sc, s.t.put(sc.ID, sc)
}

func (s *BadgerScreeningStore) Delete(_ context.Context, id string) error {
	return s.t.delete(id)
}

func (s *BadgerScreeningStore) List(context.Context) ([]model.Screening, error) {
	return s.sorted(all[model.Screening])
}

func (s *BadgerScreeningStore) FindByRoom(_ context.Context, roomName string) ([]model.Screening, error) {
	return s.sorted(func(sc model.Screening) bool { return sc.RoomName == roomName })
}

func (s *BadgerScreeningStore) FindByMovie(_ context.Context, movieTitle string) ([]model.Screening, error) {
	return s.sorted(func(sc model.Screening) bool { return sc.MovieTitle == movieTitle })
}

func (s *BadgerScreeningStore) FindExact(_ context.Context, roomName, movieTitle string, start time.Time) (model.Screening, bool, error) {
	hits, err := s.t.scan(func(sc model.Screening) bool { return sc.Matches(roomName, movieTitle, start) })
	if err != nil || len(hits) == 0 {
		return model.Screening{}, false, err
	}
	return hits[0], true, nil
}

func (s *BadgerScreeningStore) sorted(keep func(model.Screening) bool) ([]model.Screening, error) {
	out, err := s.t.scan(keep)
	sortScreenings(out)
	return out, err
}

// userRecord is the stored form of a user. model.User hides the hash from
// JSON, so the store keeps its own shape.
type userRecord struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
}

// BadgerUserStore persists accounts in Badger.
type BadgerUserStore struct{ t badgerTable[userRecord] }

func NewBadgerUserStore(db *badger.DB) *BadgerUserStore {
	return &BadgerUserStore{t: badgerTable[userRecord]{db: db, prefix: "user"}}
}

func (s *BadgerUserStore) Get(_ context.Context, username string) (model.User, bool, error) {
	rec, ok, err := s.t.get(username)
	if err != nil || !ok {
		return model.User{}, false, err
	}
	return model.User{Username: rec.Username, PasswordHash: rec.PasswordHash, Role: model.Role(rec.Role)}, true, nil
}

func (s *BadgerUserStore) Put(_ context.Context, u model.User) (model.User, error) {
	rec := userRecord{Username: u.Username, PasswordHash: u.PasswordHash, Role: string(u.Role)}
	return u, s.t.put(u.Username, rec)
}

// NewBadgerStores wires the Badger stores over one database handle.
func NewBadgerStores(db *badger.DB) Stores {
	return Stores{
		Movies:     NewBadgerMovieStore(db),
		Rooms:      NewBadgerRoomStore(db),
		Screenings: NewBadgerScreeningStore(db),
		Users:      NewBadgerUserStore(db),
		Close:      db.Close,
	}
}
