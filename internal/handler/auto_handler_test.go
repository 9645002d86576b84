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
	appErrors "github.com/termgrid/timetable-api/pkg/errors"
)

type autoServiceMock struct {
	resp *dto.AutoTimetableResponse
	err  error
}

func (m *autoServiceMock) Generate(ctx context.Context, req dto.AutoTimetableRequest) (*dto.AutoTimetableResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func autoPayload() []byte {
	body, _ := json.Marshal(dto.AutoTimetableRequest{
		Activities: []dto.AutoActivityRequest{
			{
				CourseCode: "COMP1511",
				Activity:   "Tutorial",
				Candidates: []dto.AutoCandidateRequest{
					{ClassID: "T09A", Slots: []dto.AutoSlotRequest{{Day: 1, Start: 9, Duration: 1}}},
				},
			},
		},
		Constraints: dto.AutoConstraintsRequest{
			EarliestStart:   9,
			LatestEnd:       18,
			Days:            []int{1, 2, 3, 4, 5},
			MaxDaysOnCampus: 5,
		},
	})
	return body
}

func TestAutoHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &autoServiceMock{resp: &dto.AutoTimetableResponse{
		Generation: 7,
		Choices: []dto.AutoChoiceResponse{
			{CourseCode: "COMP1511", Activity: "Tutorial", ClassID: "T09A", Day: 1, Start: 9},
		},
		Optimal: true,
	}}
	handler := NewAutoHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auto", bytes.NewReader(autoPayload()))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Generate(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.AutoTimetableResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, uint64(7), envelope.Data.Generation)
	assert.True(t, envelope.Data.Optimal)
}

func TestAutoHandlerGenerateBudgetExhausted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAutoHandler(&autoServiceMock{err: appErrors.ErrSolverBudget})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auto", bytes.NewReader(autoPayload()))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Generate(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAutoHandlerGenerateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAutoHandler(&autoServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auto", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Generate(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
