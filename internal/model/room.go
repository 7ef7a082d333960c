package model

import "fmt"

// Room represents a screening room.  Rooms are identified by name and
// describe their seating layout via Rows and Cols; the seat count is
// derived and never stored.
//
// Fields:
//  Name – unique room name.
//  Rows – number of seating rows (> 0).
//  Cols – number of seats per row (> 0).
type Room struct {
	Name string `json:"name" validate:"required"` // rooms.name
	Rows int    `json:"rows" validate:"gt=0"`     // rooms.seat_rows
	Cols int    `json:"cols" validate:"gt=0"`     // rooms.seat_cols
}

// Seats is the derived capacity of the room.
func (r Room) Seats() int { return r.Rows * r.Cols }

func (r Room) String() string {
	return fmt.Sprintf("Room %s with %d seats, %d rows and %d columns", r.Name, r.Seats(), r.Rows, r.Cols)
}
