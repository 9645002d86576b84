package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/termgrid/timetable-api/internal/models"
)

// EventRepository persists custom user events attached to a timetable.
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a single event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	const query = `INSERT INTO events (id, timetable_id, name, color, day, start_hour, end_hour, user_owned, created_at, updated_at)
		VALUES (:id, :timetable_id, :name, :color, :day, :start_hour, :end_hour, :user_owned, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ReplaceWithTx swaps the full event set of a timetable.
func (r *EventRepository) ReplaceWithTx(ctx context.Context, tx *sqlx.Tx, timetableID string, events []models.Event) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE timetable_id = $1`, timetableID); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	now := time.Now().UTC()
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
		events[i].TimetableID = timetableID
		if events[i].CreatedAt.IsZero() {
			events[i].CreatedAt = now
		}
		events[i].UpdatedAt = now
	}
	const query = `INSERT INTO events (id, timetable_id, name, color, day, start_hour, end_hour, user_owned, created_at, updated_at)
		VALUES (:id, :timetable_id, :name, :color, :day, :start_hour, :end_hour, :user_owned, :created_at, :updated_at)`
	for _, event := range events {
		if _, err := tx.NamedExecContext(ctx, query, event); err != nil {
			return fmt.Errorf("insert event %s: %w", event.Name, err)
		}
	}
	return nil
}

// ListByTimetable returns events for one timetable ordered by day and start.
func (r *EventRepository) ListByTimetable(ctx context.Context, timetableID string) ([]models.Event, error) {
	const query = `SELECT id, timetable_id, name, color, day, start_hour, end_hour, user_owned, created_at, updated_at
		FROM events WHERE timetable_id = $1 ORDER BY day, start_hour`
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query, timetableID); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Update modifies an existing event in place.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE events SET name = :name, color = :color, day = :day, start_hour = :start_hour,
		end_hour = :end_hour, user_owned = :user_owned, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes one event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
