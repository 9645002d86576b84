package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgrid/timetable-api/internal/dto"
	appErrors "github.com/termgrid/timetable-api/pkg/errors"
)

type timetableLoaderStub struct {
	timetable *dto.TimetableResponse
	err       error
}

func (s *timetableLoaderStub) Get(ctx context.Context, id string) (*dto.TimetableResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.timetable, nil
}

func exportFixture() *dto.TimetableResponse {
	return &dto.TimetableResponse{
		ID:       "tt-1",
		Name:     "Trimester 3",
		TermCode: "2026-T3",
		Selections: []dto.SelectionResponse{
			{ID: "sel-2", CourseCode: "MATH1131", Activity: "Lecture", ClassID: "L10A", Day: 2, Start: 10, End: 12, Locations: []string{"Keith Burrows"}},
			{ID: "sel-1", CourseCode: "COMP1511", Activity: "Tutorial", ClassID: "T09A", Day: 1, Start: 9.5, End: 10.5, Locations: []string{"K17 G7"}},
		},
		Events: []dto.EventResponse{
			{ID: "evt-1", Name: "Gym", Day: 1, Start: 17, End: 18},
		},
	}
}

func TestExportServiceRendersCSV(t *testing.T) {
	service := NewExportService(&timetableLoaderStub{timetable: exportFixture()}, ExportServiceConfig{Enabled: true}, nil, nil, nil)

	result, err := service.Render(context.Background(), "tt-1", ExportFormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Day")
	// Rows come out ordered by day then start time.
	assert.Contains(t, lines[1], "COMP1511")
	assert.Contains(t, lines[1], "09:30")
	assert.Contains(t, lines[2], "Gym")
	assert.Contains(t, lines[3], "MATH1131")
}

func TestExportServiceRendersPDF(t *testing.T) {
	service := NewExportService(&timetableLoaderStub{timetable: exportFixture()}, ExportServiceConfig{Enabled: true, Title: "My Plan"}, nil, nil, nil)

	result, err := service.Render(context.Background(), "tt-1", ExportFormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}

func TestExportServiceDisabled(t *testing.T) {
	service := NewExportService(&timetableLoaderStub{timetable: exportFixture()}, ExportServiceConfig{Enabled: false}, nil, nil, nil)

	_, err := service.Render(context.Background(), "tt-1", ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, "EXPORT_DISABLED", appErrors.FromError(err).Code)
}

func TestExportServiceUnknownFormat(t *testing.T) {
	service := NewExportService(&timetableLoaderStub{timetable: exportFixture()}, ExportServiceConfig{Enabled: true}, nil, nil, nil)

	_, err := service.Render(context.Background(), "tt-1", ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, "EXPORT_FORMAT_INVALID", appErrors.FromError(err).Code)
}

func TestExportServicePropagatesNotFound(t *testing.T) {
	service := NewExportService(&timetableLoaderStub{err: appErrors.ErrNotFound}, ExportServiceConfig{Enabled: true}, nil, nil, nil)

	_, err := service.Render(context.Background(), "missing", ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
