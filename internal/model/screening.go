package model

import (
	"fmt"
	"time"
)

// TimeLayout is the minute precision layout used by the shell and the HTTP
// API for screening start times.  Values are interpreted in UTC.
const TimeLayout = "2006-01-02 15:04"

// Screening is a scheduled showing of a movie in a room.  It refers to the
// movie and the room by key only; callers resolve them through the owning
// services.  The natural identity is (RoomName, MovieTitle, Start); ID is a
// generated surrogate that backs storage.
//
// Fields:
//  ID         – generated storage id (uuid).
//  MovieTitle – key of the movie being shown.
//  RoomName   – key of the room hosting the screening.
//  Start      – start instant, UTC, truncated to the minute.
type Screening struct {
	ID         string    `json:"id"`          // screenings.id
	MovieTitle string    `json:"movie_title"` // screenings.movie_title
	RoomName   string    `json:"room_name"`   // screenings.room_name
	Start      time.Time `json:"start"`       // screenings.starts_at
}

// Matches reports whether s is the screening identified by the triple.
func (s Screening) Matches(roomName, movieTitle string, start time.Time) bool {
	return s.RoomName == roomName && s.MovieTitle == movieTitle && s.Start.Equal(start)
}

// ScreeningDetail is a screening with its movie resolved, used for display.
type ScreeningDetail struct {
	Screening
	Movie Movie `json:"movie"`
}

func (d ScreeningDetail) String() string {
	return fmt.Sprintf("%s, screened in room %s, at %s", d.Movie, d.RoomName, d.Start.UTC().Format(TimeLayout))
}

// NormalizeStart brings a start instant to the stored precision.
func NormalizeStart(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// ParseStart parses a TimeLayout string as a UTC instant.
func ParseStart(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
