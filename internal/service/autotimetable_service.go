package service

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/termgrid/timetable-api/internal/dto"
	"github.com/termgrid/timetable-api/internal/timetable"
	appErrors "github.com/termgrid/timetable-api/pkg/errors"
)

type solverMetrics interface {
	ObserveSolverRun(outcome string, nodes int, duration time.Duration)
}

// AutoTimetableConfig tunes one solver deployment.
type AutoTimetableConfig struct {
	NodeBudget int
	Timeout    time.Duration
}

// AutoTimetableService maps wire requests onto solver inputs, runs the
// bounded search and stamps each response with a generation counter so
// callers can discard answers overtaken by a newer request.
type AutoTimetableService struct {
	solver     *timetable.Solver
	validator  *validator.Validate
	metrics    solverMetrics
	logger     *zap.Logger
	timeout    time.Duration
	generation uint64
}

// NewAutoTimetableService constructs an AutoTimetableService.
func NewAutoTimetableService(cfg AutoTimetableConfig, validate *validator.Validate, metrics solverMetrics, logger *zap.Logger) *AutoTimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}
	return &AutoTimetableService{
		solver:    timetable.NewSolver(cfg.NodeBudget),
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		timeout:   cfg.Timeout,
	}
}

// Generate runs one solver invocation. The returned response carries the
// generation issued at admission time; it is marked stale when a newer
// generation was admitted before this one finished.
func (s *AutoTimetableService) Generate(ctx context.Context, req dto.AutoTimetableRequest) (*dto.AutoTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, "VALIDATION_ERROR", http.StatusBadRequest, "invalid auto timetable request")
	}

	activities, cons := mapSolverInput(req)
	generation := atomic.AddUint64(&s.generation, 1)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	solution, err := s.solveWithContext(ctx, activities, cons)
	elapsed := time.Since(started)

	if err != nil {
		s.observe("error", 0, elapsed)
		switch {
		case errors.Is(err, timetable.ErrNoActivities), errors.Is(err, timetable.ErrInvalidConstraints):
			return nil, appErrors.Wrap(err, "VALIDATION_ERROR", http.StatusBadRequest, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return nil, appErrors.Wrap(err, appErrors.ErrSolverBudget.Code, appErrors.ErrSolverBudget.Status, "solver timed out before completion")
		default:
			return nil, appErrors.Wrap(err, "SOLVER_FAILURE", http.StatusInternalServerError, "solver run failed")
		}
	}

	outcome := "partial"
	switch {
	case solution.BudgetExhausted:
		outcome = "budget_exhausted"
	case solution.Optimal:
		outcome = "optimal"
	}
	s.observe(outcome, solution.Nodes, elapsed)

	response := buildAutoResponse(req, solution)
	response.Generation = generation
	response.Stale = atomic.LoadUint64(&s.generation) != generation

	s.logger.Info("solver run complete",
		zap.Uint64("generation", generation),
		zap.String("outcome", outcome),
		zap.Int("nodes", solution.Nodes),
		zap.Duration("elapsed", elapsed))

	return response, nil
}

// solveWithContext bounds the synchronous search with the request context.
// The search itself is node-budgeted, so an abandoned goroutine terminates
// shortly after the deadline fires.
func (s *AutoTimetableService) solveWithContext(ctx context.Context, activities []timetable.Activity, cons timetable.ConstraintSet) (timetable.Solution, error) {
	type result struct {
		solution timetable.Solution
		err      error
	}
	done := make(chan result, 1)
	go func() {
		solution, err := s.solver.Solve(activities, cons)
		done <- result{solution: solution, err: err}
	}()

	select {
	case <-ctx.Done():
		return timetable.Solution{}, ctx.Err()
	case res := <-done:
		return res.solution, res.err
	}
}

func (s *AutoTimetableService) observe(outcome string, nodes int, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveSolverRun(outcome, nodes, elapsed)
	}
}

func mapSolverInput(req dto.AutoTimetableRequest) ([]timetable.Activity, timetable.ConstraintSet) {
	activities := make([]timetable.Activity, 0, len(req.Activities))
	for _, activity := range req.Activities {
		candidates := make([]timetable.CandidateClass, 0, len(activity.Candidates))
		for _, cand := range activity.Candidates {
			slots := make([]timetable.Slot, 0, len(cand.Slots))
			for _, slot := range cand.Slots {
				slots = append(slots, timetable.Slot{
					Day:      slot.Day,
					Start:    slot.Start,
					Duration: slot.Duration,
				})
			}
			candidates = append(candidates, timetable.CandidateClass{
				ID:    cand.ClassID,
				Mode:  timetable.DeliveryMode(cand.Mode),
				Slots: slots,
			})
		}
		activities = append(activities, timetable.Activity{
			CourseCode: activity.CourseCode,
			Name:       activity.Activity,
			Candidates: candidates,
		})
	}

	cons := timetable.ConstraintSet{
		EarliestStart:   req.Constraints.EarliestStart,
		LatestEnd:       req.Constraints.LatestEnd,
		AllowedDays:     req.Constraints.Days,
		MinBreakHours:   req.Constraints.MinBreakHours,
		MaxDaysOnCampus: req.Constraints.MaxDaysOnCampus,
		Mode:            timetable.DeliveryMode(req.Constraints.Mode),
	}
	return activities, cons
}

func buildAutoResponse(req dto.AutoTimetableRequest, solution timetable.Solution) *dto.AutoTimetableResponse {
	choices := make([]dto.AutoChoiceResponse, 0, len(req.Activities))
	for i, activity := range req.Activities {
		choice := dto.AutoChoiceResponse{
			CourseCode: activity.CourseCode,
			Activity:   activity.Activity,
			Excluded:   true,
		}
		if candIdx, ok := solution.Choices[i]; ok && candIdx >= 0 && candIdx < len(activity.Candidates) {
			cand := activity.Candidates[candIdx]
			choice.ClassID = cand.ClassID
			choice.Excluded = false
			if len(cand.Slots) > 0 {
				choice.Day = cand.Slots[0].Day
				choice.Start = cand.Slots[0].Start
			}
		}
		choices = append(choices, choice)
	}

	return &dto.AutoTimetableResponse{
		Choices:         choices,
		Optimal:         solution.Optimal,
		Nodes:           solution.Nodes,
		BudgetExhausted: solution.BudgetExhausted,
	}
}
