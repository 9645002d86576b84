package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgrid/timetable-api/internal/models"
)

func newTimetableMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableRepositoryCreateWithSelections(t *testing.T) {
	db, mock, cleanup := newTimetableMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO timetables").
		WithArgs(sqlmock.AnyArg(), "Draft plan", "2026-T3", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM class_selections").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO class_selections").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "COMP1511", "Tutorial", "T09A",
			1, 9.0, 10.0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := repo.BeginTxx(ctx, nil)
	require.NoError(t, err)

	timetable := &models.Timetable{Name: "Draft plan", TermCode: "2026-T3"}
	require.NoError(t, repo.CreateWithTx(ctx, tx, timetable))
	assert.NotEmpty(t, timetable.ID)

	selections := []models.ClassSelection{{
		CourseCode: "COMP1511",
		Activity:   "Tutorial",
		ClassID:    "T09A",
		Day:        1,
		StartHour:  9,
		EndHour:    10,
		Weeks:      types.JSONText(`[1,2,3]`),
		Locations:  types.JSONText(`["K17 G7"]`),
	}}
	require.NoError(t, repo.ReplaceSelectionsWithTx(ctx, tx, timetable.ID, selections))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryFindAndList(t *testing.T) {
	db, mock, cleanup := newTimetableMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, term_code, created_at, updated_at FROM timetables WHERE id = $1")).
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "term_code", "created_at", "updated_at"}).
			AddRow("tt-1", "Draft plan", "2026-T3", now, now))

	timetable, err := repo.FindByID(context.Background(), "tt-1")
	require.NoError(t, err)
	assert.Equal(t, "Draft plan", timetable.Name)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetables WHERE term_code = $1")).
		WithArgs("2026-T3").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, name, term_code, created_at, updated_at FROM timetables WHERE term_code").
		WithArgs("2026-T3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "term_code", "created_at", "updated_at"}).
			AddRow("tt-1", "Draft plan", "2026-T3", now, now))

	timetables, total, err := repo.List(context.Background(), models.TimetableFilter{TermCode: "2026-T3", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, timetables, 1)
	assert.Equal(t, "tt-1", timetables[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newTimetableMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("DELETE FROM timetables").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
