package model

import (
	"fmt"
	"math"
	"time"
)

// MaxRuntimeMinutes bounds RuntimeMinutes.  It keeps runtime plus break far
// inside time.Duration and a 32-bit INT column.
const MaxRuntimeMinutes = 100000

// Movie is a film that can be put on the schedule.  The title is the
// identity of the movie and never changes after creation; genre and runtime
// may be updated by an administrator.
//
// Fields:
//  Title          – unique, human chosen key.
//  Genre          – free text genre.
//  RuntimeMinutes – running time in whole minutes, 1..MaxRuntimeMinutes.
type Movie struct {
	Title          string `json:"title" validate:"required"`                  // movies.title
	Genre          string `json:"genre"`                                      // movies.genre
	RuntimeMinutes int    `json:"runtime_minutes" validate:"gt=0,lte=100000"` // movies.runtime_minutes
}

// Runtime returns the running time as a duration.  Runtimes too long for a
// Duration saturate at the largest one.
func (m Movie) Runtime() time.Duration {
	if int64(m.RuntimeMinutes) > math.MaxInt64/int64(time.Minute) {
		return math.MaxInt64
	}
	return time.Duration(m.RuntimeMinutes) * time.Minute
}

// String renders the movie the way the operator shell lists it.
func (m Movie) String() string {
	return fmt.Sprintf("%s (%s, %d minutes)", m.Title, m.Genre, m.RuntimeMinutes)
}
