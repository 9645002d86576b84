package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Timetable is a named, persisted plan: one selected class per course
// activity plus the user's custom events.
type Timetable struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TermCode  string    `db:"term_code" json:"term_code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassSelection pins one chosen class period onto a timetable. Weeks and
// Locations are stored as JSON arrays.
type ClassSelection struct {
	ID          string         `db:"id" json:"id"`
	TimetableID string         `db:"timetable_id" json:"timetable_id"`
	CourseCode  string         `db:"course_code" json:"course_code"`
	Activity    string         `db:"activity" json:"activity"`
	ClassID     string         `db:"class_id" json:"class_id"`
	Day         int            `db:"day" json:"day"`
	StartHour   float64        `db:"start_hour" json:"start_hour"`
	EndHour     float64        `db:"end_hour" json:"end_hour"`
	Weeks       types.JSONText `db:"weeks" json:"weeks"`
	Locations   types.JSONText `db:"locations" json:"locations"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// TimetableFilter captures listing options for saved timetables.
type TimetableFilter struct {
	TermCode string
	Page     int
	PageSize int
}
