package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/termgrid/timetable-api/internal/dto"
	appErrors "github.com/termgrid/timetable-api/pkg/errors"
	"github.com/termgrid/timetable-api/pkg/response"
)

type autoTimetableService interface {
	Generate(ctx context.Context, req dto.AutoTimetableRequest) (*dto.AutoTimetableResponse, error)
}

// AutoHandler exposes the auto-timetabling endpoint.
type AutoHandler struct {
	service autoTimetableService
}

// NewAutoHandler builds a new handler.
func NewAutoHandler(service autoTimetableService) *AutoHandler {
	return &AutoHandler{service: service}
}

// Generate godoc
// @Summary Pick one class per activity honouring the given constraints
// @Tags Auto
// @Accept json
// @Produce json
// @Param payload body dto.AutoTimetableRequest true "Activities and constraints"
// @Success 200 {object} response.Envelope
// @Router /auto [post]
func (h *AutoHandler) Generate(c *gin.Context) {
	var req dto.AutoTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid auto timetable payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
