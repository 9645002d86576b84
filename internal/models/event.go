package models

import "time"

// Event is a user-created block on the grid: a recurring commitment with
// no course attached and no week pattern.
type Event struct {
	ID          string    `db:"id" json:"id"`
	TimetableID string    `db:"timetable_id" json:"timetable_id"`
	Name        string    `db:"name" json:"name"`
	Color       string    `db:"color" json:"color"`
	Day         int       `db:"day" json:"day"`
	StartHour   float64   `db:"start_hour" json:"start_hour"`
	EndHour     float64   `db:"end_hour" json:"end_hour"`
	UserOwned   bool      `db:"user_owned" json:"user_owned"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
