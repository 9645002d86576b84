package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/termgrid/timetable-api/internal/dto"
	"github.com/termgrid/timetable-api/internal/models"
	"github.com/termgrid/timetable-api/internal/service"
	appErrors "github.com/termgrid/timetable-api/pkg/errors"
	"github.com/termgrid/timetable-api/pkg/response"
)

type timetableService interface {
	Create(ctx context.Context, req dto.CreateTimetableRequest) (*dto.TimetableResponse, error)
	Get(ctx context.Context, id string) (*dto.TimetableResponse, error)
	List(ctx context.Context, query dto.TimetableQuery) ([]dto.TimetableResponse, *models.Pagination, error)
	Update(ctx context.Context, id string, req dto.UpdateTimetableRequest) (*dto.TimetableResponse, error)
	Delete(ctx context.Context, id string) error
	AddEvent(ctx context.Context, timetableID string, req dto.EventRequest) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, timetableID, eventID string, req dto.EventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type exportService interface {
	Render(ctx context.Context, timetableID string, format service.ExportFormat) (*service.ExportResult, error)
}

// TimetableHandler exposes saved timetable CRUD and export.
type TimetableHandler struct {
	service timetableService
	export  exportService
}

// NewTimetableHandler builds a new handler.
func NewTimetableHandler(service timetableService, export exportService) *TimetableHandler {
	return &TimetableHandler{service: service, export: export}
}

// Create godoc
// @Summary Save a new timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableRequest true "Timetable payload"
// @Success 201 {object} response.Envelope
// @Router /timetables [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get godoc
// @Summary Load one saved timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List saved timetables
// @Tags Timetables
// @Produce json
// @Param termCode query string false "Term code filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid listing query"))
		return
	}
	results, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, pagination)
}

// Update godoc
// @Summary Rename a timetable and replace its contents
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.UpdateTimetableRequest true "Timetable payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	var req dto.UpdateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	result, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a saved timetable
// @Tags Timetables
// @Param id path string true "Timetable ID"
// @Success 204
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddEvent godoc
// @Summary Attach a custom event to a timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.EventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /timetables/{id}/events [post]
func (h *TimetableHandler) AddEvent(c *gin.Context) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	result, err := h.service.AddEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateEvent godoc
// @Summary Update a custom event
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param eventId path string true "Event ID"
// @Param payload body dto.EventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/events/{eventId} [put]
func (h *TimetableHandler) UpdateEvent(c *gin.Context) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	result, err := h.service.UpdateEvent(c.Request.Context(), c.Param("id"), c.Param("eventId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// DeleteEvent godoc
// @Summary Delete a custom event
// @Tags Timetables
// @Param id path string true "Timetable ID"
// @Param eventId path string true "Event ID"
// @Success 204
// @Router /timetables/{id}/events/{eventId} [delete]
func (h *TimetableHandler) DeleteEvent(c *gin.Context) {
	if err := h.service.DeleteEvent(c.Request.Context(), c.Param("eventId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Download a timetable as CSV or PDF
// @Tags Timetables
// @Produce octet-stream
// @Param id path string true "Timetable ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /timetables/{id}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	result, err := h.export.Render(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
