package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgrid/timetable-api/internal/dto"
	"github.com/termgrid/timetable-api/internal/models"
	"github.com/termgrid/timetable-api/internal/service"
	appErrors "github.com/termgrid/timetable-api/pkg/errors"
)

type timetableServiceMock struct {
	resp *dto.TimetableResponse
	err  error
}

func (m *timetableServiceMock) Create(ctx context.Context, req dto.CreateTimetableRequest) (*dto.TimetableResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *timetableServiceMock) Get(ctx context.Context, id string) (*dto.TimetableResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *timetableServiceMock) List(ctx context.Context, query dto.TimetableQuery) ([]dto.TimetableResponse, *models.Pagination, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return []dto.TimetableResponse{*m.resp}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (m *timetableServiceMock) Update(ctx context.Context, id string, req dto.UpdateTimetableRequest) (*dto.TimetableResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *timetableServiceMock) Delete(ctx context.Context, id string) error {
	return m.err
}

func (m *timetableServiceMock) AddEvent(ctx context.Context, timetableID string, req dto.EventRequest) (*dto.EventResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.EventResponse{ID: "evt-1", Name: req.Name, Day: req.Day, Start: req.Start, End: req.End}, nil
}

func (m *timetableServiceMock) UpdateEvent(ctx context.Context, timetableID, eventID string, req dto.EventRequest) (*dto.EventResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.EventResponse{ID: eventID, Name: req.Name, Day: req.Day, Start: req.Start, End: req.End}, nil
}

func (m *timetableServiceMock) DeleteEvent(ctx context.Context, eventID string) error {
	return m.err
}

type exportServiceMock struct {
	result *service.ExportResult
	err    error
	format service.ExportFormat
}

func (m *exportServiceMock) Render(ctx context.Context, timetableID string, format service.ExportFormat) (*service.ExportResult, error) {
	m.format = format
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func timetableFixture() *dto.TimetableResponse {
	return &dto.TimetableResponse{
		ID:         "tt-1",
		Name:       "Trimester 3",
		TermCode:   "2026-T3",
		Selections: []dto.SelectionResponse{},
		Events:     []dto.EventResponse{},
	}
}

func TestTimetableHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{resp: timetableFixture()}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateTimetableRequest{Name: "Trimester 3", TermCode: "2026-T3"})
	req, _ := http.NewRequest(http.MethodPost, "/timetables", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data dto.TimetableResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "tt-1", envelope.Data.ID)
}

func TestTimetableHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{err: appErrors.ErrNotFound}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetables/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/timetables/tt-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "tt-1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTimetableHandlerAddEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{resp: timetableFixture()}, &exportServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.EventRequest{Name: "Gym", Day: 3, Start: 17, End: 18})
	req, _ := http.NewRequest(http.MethodPost, "/timetables/tt-1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "tt-1"}}

	handler.AddEvent(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data dto.EventResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Gym", envelope.Data.Name)
}

func TestTimetableHandlerExportDefaultsToCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	export := &exportServiceMock{result: &service.ExportResult{
		Filename:    "trimester_3.csv",
		ContentType: "text/csv",
		Payload:     []byte("Day,Start\n"),
	}}
	handler := NewTimetableHandler(&timetableServiceMock{resp: timetableFixture()}, export)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetables/tt-1/export", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "tt-1"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatCSV, export.format)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "trimester_3.csv")
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
}
