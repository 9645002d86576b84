package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/termgrid/timetable-api/internal/dto"
	appErrors "github.com/termgrid/timetable-api/pkg/errors"
	"github.com/termgrid/timetable-api/pkg/response"
)

type clashService interface {
	Compute(ctx context.Context, req dto.ComputeClashesRequest) (*dto.ComputeClashesResponse, error)
}

// ClashHandler exposes clash detection.
type ClashHandler struct {
	service clashService
}

// NewClashHandler builds a new handler.
func NewClashHandler(service clashService) *ClashHandler {
	return &ClashHandler{service: service}
}

// Compute godoc
// @Summary Compute clash groups and render hints for a grid snapshot
// @Tags Clashes
// @Accept json
// @Produce json
// @Param payload body dto.ComputeClashesRequest true "Grid snapshot"
// @Success 200 {object} response.Envelope
// @Router /clashes [post]
func (h *ClashHandler) Compute(c *gin.Context) {
	var req dto.ComputeClashesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid snapshot payload"))
		return
	}
	result, err := h.service.Compute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
