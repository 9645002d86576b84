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
)

type clashServiceMock struct {
	resp *dto.ComputeClashesResponse
	err  error
	got  *dto.ComputeClashesRequest
}

func (m *clashServiceMock) Compute(ctx context.Context, req dto.ComputeClashesRequest) (*dto.ComputeClashesResponse, error) {
	m.got = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func TestClashHandlerCompute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &clashServiceMock{resp: &dto.ComputeClashesResponse{
		Groups: []dto.ClashGroupResponse{{Day: 1, ItemIDs: []string{"c1", "c2"}}},
		Hints:  []dto.PeriodHintResponse{},
	}}
	handler := NewClashHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.ComputeClashesRequest{
		Classes: []dto.ClashPeriodRequest{
			{ClassID: "c1", CourseCode: "COMP1511", Activity: "Tutorial", Day: 1, Start: 9, End: 11},
			{ClassID: "c2", CourseCode: "MATH1131", Activity: "Tutorial", Day: 1, Start: 10, End: 12},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/clashes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Compute(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.got)
	assert.Len(t, mock.got.Classes, 2)

	var envelope struct {
		Data dto.ComputeClashesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Groups, 1)
	assert.Equal(t, []string{"c1", "c2"}, envelope.Data.Groups[0].ItemIDs)
}

func TestClashHandlerComputeInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewClashHandler(&clashServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/clashes", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Compute(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
