// Package queue defines the screening events exchanged over RabbitMQ and the
// publisher/consumer pair that moves them.
package queue

import (
	"fmt"
	"time"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// Event types.
const (
	ScreeningScheduled = "screening.scheduled"
	ScreeningCancelled = "screening.cancelled"
)

// ScreeningEvent is published whenever the schedule changes.  It carries
// enough for consumers to log or notify without reading the stores.
type ScreeningEvent struct {
	Type       string `json:"type"`
	MovieTitle string `json:"movie_title"`
	RoomName   string `json:"room_name"`
	StartsAt   string `json:"starts_at"`
	OccurredAt string `json:"occurred_at"`
}

// NewScreeningEvent stamps an event of the given type for s.
func NewScreeningEvent(typ string, s model.Screening) ScreeningEvent {
	return ScreeningEvent{
		Type:       typ,
		MovieTitle: s.MovieTitle,
		RoomName:   s.RoomName,
		StartsAt:   s.Start.UTC().Format(model.TimeLayout),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// logLine renders the event as one line of the screenings log.
func (e ScreeningEvent) logLine() string {
	return fmt.Sprintf("[%s] %s | movie=%q | room=%q | starts_at=%s\n",
		e.OccurredAt, e.Type, e.MovieTitle, e.RoomName, e.StartsAt)
}
