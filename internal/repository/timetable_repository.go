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

// TimetableRepository persists saved timetables and their class
// selections.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// BeginTxx exposes transactions so services can write a timetable and its
// children atomically.
func (r *TimetableRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}

// CreateWithTx inserts a timetable header inside the given transaction.
func (r *TimetableRepository) CreateWithTx(ctx context.Context, tx *sqlx.Tx, timetable *models.Timetable) error {
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	timetable.CreatedAt = now
	timetable.UpdatedAt = now

	const query = `INSERT INTO timetables (id, name, term_code, created_at, updated_at)
		VALUES (:id, :name, :term_code, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, timetable); err != nil {
		return fmt.Errorf("insert timetable: %w", err)
	}
	return nil
}

// FindByID returns the timetable header.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	const query = `SELECT id, name, term_code, created_at, updated_at FROM timetables WHERE id = $1`
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, id); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// List returns timetable headers with the total count for pagination.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	where := ""
	args := []interface{}{}
	if filter.TermCode != "" {
		where = " WHERE term_code = $1"
		args = append(args, filter.TermCode)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM timetables"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count timetables: %w", err)
	}

	query := fmt.Sprintf("SELECT id, name, term_code, created_at, updated_at FROM timetables%s ORDER BY updated_at DESC LIMIT %d OFFSET %d",
		where, pageSize, (page-1)*pageSize)
	timetables := []models.Timetable{}
	if err := r.db.SelectContext(ctx, &timetables, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list timetables: %w", err)
	}
	return timetables, total, nil
}

// UpdateWithTx renames a timetable and bumps its modification time.
func (r *TimetableRepository) UpdateWithTx(ctx context.Context, tx *sqlx.Tx, id, name string) error {
	const query = `UPDATE timetables SET name = $1, updated_at = $2 WHERE id = $3`
	result, err := tx.ExecContext(ctx, query, name, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update timetable rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a timetable; selections and events cascade in schema.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM timetables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete timetable rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ReplaceSelectionsWithTx swaps the full selection set of a timetable.
func (r *TimetableRepository) ReplaceSelectionsWithTx(ctx context.Context, tx *sqlx.Tx, timetableID string, selections []models.ClassSelection) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM class_selections WHERE timetable_id = $1`, timetableID); err != nil {
		return fmt.Errorf("clear selections: %w", err)
	}
	for i := range selections {
		if selections[i].ID == "" {
			selections[i].ID = uuid.NewString()
		}
		selections[i].TimetableID = timetableID
		if selections[i].CreatedAt.IsZero() {
			selections[i].CreatedAt = time.Now().UTC()
		}
	}
	const query = `INSERT INTO class_selections
		(id, timetable_id, course_code, activity, class_id, day, start_hour, end_hour, weeks, locations, created_at)
		VALUES (:id, :timetable_id, :course_code, :activity, :class_id, :day, :start_hour, :end_hour, :weeks, :locations, :created_at)`
	for _, selection := range selections {
		if _, err := tx.NamedExecContext(ctx, query, selection); err != nil {
			return fmt.Errorf("insert selection %s/%s: %w", selection.CourseCode, selection.Activity, err)
		}
	}
	return nil
}

// ListSelections returns the stored selections ordered for stable output.
func (r *TimetableRepository) ListSelections(ctx context.Context, timetableID string) ([]models.ClassSelection, error) {
	const query = `SELECT id, timetable_id, course_code, activity, class_id, day, start_hour, end_hour, weeks, locations, created_at
		FROM class_selections WHERE timetable_id = $1 ORDER BY course_code, activity`
	selections := []models.ClassSelection{}
	if err := r.db.SelectContext(ctx, &selections, query, timetableID); err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return selections, nil
}
