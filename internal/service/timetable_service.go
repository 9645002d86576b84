package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/termgrid/timetable-api/internal/dto"
	"github.com/termgrid/timetable-api/internal/models"
	appErrors "github.com/termgrid/timetable-api/pkg/errors"
)

type timetableRepository interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	CreateWithTx(ctx context.Context, tx *sqlx.Tx, timetable *models.Timetable) error
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error)
	UpdateWithTx(ctx context.Context, tx *sqlx.Tx, id, name string) error
	Delete(ctx context.Context, id string) error
	ReplaceSelectionsWithTx(ctx context.Context, tx *sqlx.Tx, timetableID string, selections []models.ClassSelection) error
	ListSelections(ctx context.Context, timetableID string) ([]models.ClassSelection, error)
}

type eventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	ReplaceWithTx(ctx context.Context, tx *sqlx.Tx, timetableID string, events []models.Event) error
	ListByTimetable(ctx context.Context, timetableID string) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

// TimetableService persists saved plans with their selections and events.
type TimetableService struct {
	timetables timetableRepository
	events     eventRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(timetables timetableRepository, events eventRepository, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{timetables: timetables, events: events, validator: validate, logger: logger}
}

// Create saves a new plan atomically.
func (s *TimetableService) Create(ctx context.Context, req dto.CreateTimetableRequest) (*dto.TimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	timetable := &models.Timetable{Name: req.Name, TermCode: req.TermCode}
	selections, err := mapSelections(req.Selections)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}
	events := mapEvents(req.Events)

	tx, err := s.timetables.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create timetable: %w", err)
	}
	defer tx.Rollback()

	if err := s.timetables.CreateWithTx(ctx, tx, timetable); err != nil {
		return nil, err
	}
	if err := s.timetables.ReplaceSelectionsWithTx(ctx, tx, timetable.ID, selections); err != nil {
		return nil, err
	}
	if err := s.events.ReplaceWithTx(ctx, tx, timetable.ID, events); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create timetable: %w", err)
	}

	s.logger.Info("timetable created", zap.String("id", timetable.ID), zap.String("term", timetable.TermCode))
	return s.Get(ctx, timetable.ID)
}

// Get loads one plan with its selections and events.
func (s *TimetableService) Get(ctx context.Context, id string) (*dto.TimetableResponse, error) {
	timetable, err := s.timetables.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("load timetable %s: %w", id, err)
	}

	selections, err := s.timetables.ListSelections(ctx, id)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListByTimetable(ctx, id)
	if err != nil {
		return nil, err
	}

	return buildTimetableResponse(timetable, selections, events)
}

// List returns plan headers with pagination metadata.
func (s *TimetableService) List(ctx context.Context, query dto.TimetableQuery) ([]dto.TimetableResponse, *models.Pagination, error) {
	filter := models.TimetableFilter{TermCode: query.TermCode, Page: query.Page, PageSize: query.PageSize}
	timetables, total, err := s.timetables.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]dto.TimetableResponse, 0, len(timetables))
	for i := range timetables {
		responses = append(responses, dto.TimetableResponse{
			ID:         timetables[i].ID,
			Name:       timetables[i].Name,
			TermCode:   timetables[i].TermCode,
			Selections: []dto.SelectionResponse{},
			Events:     []dto.EventResponse{},
		})
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
	return responses, pagination, nil
}

// Update renames a plan and replaces its contents atomically.
func (s *TimetableService) Update(ctx context.Context, id string, req dto.UpdateTimetableRequest) (*dto.TimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	selections, err := mapSelections(req.Selections)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}
	events := mapEvents(req.Events)

	tx, err := s.timetables.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update timetable: %w", err)
	}
	defer tx.Rollback()

	if err := s.timetables.UpdateWithTx(ctx, tx, id, req.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	if err := s.timetables.ReplaceSelectionsWithTx(ctx, tx, id, selections); err != nil {
		return nil, err
	}
	if err := s.events.ReplaceWithTx(ctx, tx, id, events); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update timetable: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete removes a plan.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if err := s.timetables.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return err
	}
	return nil
}

// AddEvent attaches a single custom event to an existing plan.
func (s *TimetableService) AddEvent(ctx context.Context, timetableID string, req dto.EventRequest) (*dto.EventResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if _, err := s.timetables.FindByID(ctx, timetableID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("load timetable %s: %w", timetableID, err)
	}

	event := models.Event{
		TimetableID: timetableID,
		Name:        req.Name,
		Color:       req.Color,
		Day:         req.Day,
		StartHour:   req.Start,
		EndHour:     req.End,
		UserOwned:   true,
	}
	if err := s.events.Create(ctx, &event); err != nil {
		return nil, err
	}

	return &dto.EventResponse{
		ID:    event.ID,
		Name:  event.Name,
		Color: event.Color,
		Day:   event.Day,
		Start: event.StartHour,
		End:   event.EndHour,
	}, nil
}

// UpdateEvent modifies one event in place.
func (s *TimetableService) UpdateEvent(ctx context.Context, timetableID, eventID string, req dto.EventRequest) (*dto.EventResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	event := models.Event{
		ID:          eventID,
		TimetableID: timetableID,
		Name:        req.Name,
		Color:       req.Color,
		Day:         req.Day,
		StartHour:   req.Start,
		EndHour:     req.End,
		UserOwned:   true,
	}
	if err := s.events.Update(ctx, &event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}

	return &dto.EventResponse{
		ID:    event.ID,
		Name:  event.Name,
		Color: event.Color,
		Day:   event.Day,
		Start: event.StartHour,
		End:   event.EndHour,
	}, nil
}

// DeleteEvent removes one event.
func (s *TimetableService) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.events.Delete(ctx, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return err
	}
	return nil
}

func mapSelections(requests []dto.SelectionRequest) ([]models.ClassSelection, error) {
	selections := make([]models.ClassSelection, 0, len(requests))
	for _, req := range requests {
		weeks, err := json.Marshal(req.Weeks)
		if err != nil {
			return nil, fmt.Errorf("encode weeks for %s: %w", req.ClassID, err)
		}
		locations, err := json.Marshal(req.Locations)
		if err != nil {
			return nil, fmt.Errorf("encode locations for %s: %w", req.ClassID, err)
		}
		selections = append(selections, models.ClassSelection{
			CourseCode: req.CourseCode,
			Activity:   req.Activity,
			ClassID:    req.ClassID,
			Day:        req.Day,
			StartHour:  req.Start,
			EndHour:    req.End,
			Weeks:      types.JSONText(weeks),
			Locations:  types.JSONText(locations),
		})
	}
	return selections, nil
}

func mapEvents(requests []dto.EventRequest) []models.Event {
	events := make([]models.Event, 0, len(requests))
	for _, req := range requests {
		events = append(events, models.Event{
			Name:      req.Name,
			Color:     req.Color,
			Day:       req.Day,
			StartHour: req.Start,
			EndHour:   req.End,
			UserOwned: true,
		})
	}
	return events
}

func buildTimetableResponse(timetable *models.Timetable, selections []models.ClassSelection, events []models.Event) (*dto.TimetableResponse, error) {
	response := &dto.TimetableResponse{
		ID:         timetable.ID,
		Name:       timetable.Name,
		TermCode:   timetable.TermCode,
		Selections: make([]dto.SelectionResponse, 0, len(selections)),
		Events:     make([]dto.EventResponse, 0, len(events)),
	}

	for _, selection := range selections {
		var weeks []int
		if len(selection.Weeks) > 0 {
			if err := json.Unmarshal(selection.Weeks, &weeks); err != nil {
				return nil, fmt.Errorf("decode weeks for %s: %w", selection.ClassID, err)
			}
		}
		var locations []string
		if len(selection.Locations) > 0 {
			if err := json.Unmarshal(selection.Locations, &locations); err != nil {
				return nil, fmt.Errorf("decode locations for %s: %w", selection.ClassID, err)
			}
		}
		response.Selections = append(response.Selections, dto.SelectionResponse{
			ID:         selection.ID,
			CourseCode: selection.CourseCode,
			Activity:   selection.Activity,
			ClassID:    selection.ClassID,
			Day:        selection.Day,
			Start:      selection.StartHour,
			End:        selection.EndHour,
			Weeks:      weeks,
			Locations:  locations,
		})
	}

	for _, event := range events {
		response.Events = append(response.Events, dto.EventResponse{
			ID:    event.ID,
			Name:  event.Name,
			Color: event.Color,
			Day:   event.Day,
			Start: event.StartHour,
			End:   event.EndHour,
		})
	}

	return response, nil
}
