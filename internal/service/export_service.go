package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/termgrid/timetable-api/internal/dto"
	appErrors "github.com/termgrid/timetable-api/pkg/errors"
	"github.com/termgrid/timetable-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type timetableLoader interface {
	Get(ctx context.Context, id string) (*dto.TimetableResponse, error)
}

type csvRenderer interface {
	Render(sheet export.Sheet) ([]byte, error)
}

type pdfRenderer interface {
	Render(sheet export.Sheet, title string) ([]byte, error)
}

// ExportServiceConfig tunes export behaviour.
type ExportServiceConfig struct {
	Enabled bool
	Title   string
}

// ExportResult is one rendered timetable file.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders saved timetables as downloadable CSV or PDF
// schedules.
type ExportService struct {
	timetables timetableLoader
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
	cfg        ExportServiceConfig
}

// NewExportService constructs an ExportService.
func NewExportService(timetables timetableLoader, cfg ExportServiceConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Title == "" {
		cfg.Title = "Weekly Timetable"
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{timetables: timetables, csv: csv, pdf: pdf, logger: logger, cfg: cfg}
}

// Render loads the timetable and renders it in the requested format.
func (s *ExportService) Render(ctx context.Context, timetableID string, format ExportFormat) (*ExportResult, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.New("EXPORT_DISABLED", http.StatusNotFound, "timetable export is disabled")
	}

	timetable, err := s.timetables.Get(ctx, timetableID)
	if err != nil {
		return nil, err
	}

	sheet := buildScheduleSheet(timetable)
	filename := fmt.Sprintf("%s_%s.%s", sanitizeFilename(timetable.Name), time.Now().UTC().Format("20060102"), format)

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(sheet)
		if err != nil {
			return nil, fmt.Errorf("render csv: %w", err)
		}
		return &ExportResult{Filename: filename, ContentType: "text/csv", Payload: payload}, nil
	case ExportFormatPDF:
		title := fmt.Sprintf("%s - %s %s", s.cfg.Title, timetable.Name, timetable.TermCode)
		payload, err := s.pdf.Render(sheet, title)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &ExportResult{Filename: filename, ContentType: "application/pdf", Payload: payload}, nil
	default:
		return nil, appErrors.New("EXPORT_FORMAT_INVALID", http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", format))
	}
}

var dayNames = map[int]string{
	1: "Monday", 2: "Tuesday", 3: "Wednesday", 4: "Thursday",
	5: "Friday", 6: "Saturday", 7: "Sunday",
}

type scheduleRow struct {
	day   int
	start float64
	cells map[string]string
}

// buildScheduleSheet flattens selections and events into one table ordered
// by day then start time.
func buildScheduleSheet(timetable *dto.TimetableResponse) export.Sheet {
	rows := make([]scheduleRow, 0, len(timetable.Selections)+len(timetable.Events))

	for _, selection := range timetable.Selections {
		rows = append(rows, scheduleRow{
			day:   selection.Day,
			start: selection.Start,
			cells: map[string]string{
				"Day":      dayNames[selection.Day],
				"Start":    formatHour(selection.Start),
				"End":      formatHour(selection.End),
				"Course":   selection.CourseCode,
				"Activity": selection.Activity,
				"Class":    selection.ClassID,
				"Location": strings.Join(selection.Locations, "; "),
			},
		})
	}

	for _, event := range timetable.Events {
		rows = append(rows, scheduleRow{
			day:   event.Day,
			start: event.Start,
			cells: map[string]string{
				"Day":      dayNames[event.Day],
				"Start":    formatHour(event.Start),
				"End":      formatHour(event.End),
				"Course":   "",
				"Activity": event.Name,
				"Class":    "",
				"Location": "",
			},
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].day != rows[j].day {
			return rows[i].day < rows[j].day
		}
		return rows[i].start < rows[j].start
	})

	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, row.cells)
	}

	return export.Sheet{
		Headers: []string{"Day", "Start", "End", "Course", "Activity", "Class", "Location"},
		Rows:    dataRows,
	}
}

func formatHour(hour float64) string {
	whole := int(hour)
	minutes := int((hour - float64(whole)) * 60)
	return fmt.Sprintf("%02d:%02d", whole, minutes)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "timetable"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
