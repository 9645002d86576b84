package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Sheet defines tabular export content for a rendered timetable.
type Sheet struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Sheet records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the sheet.
func (e *CSVExporter) Render(sheet Sheet) ([]byte, error) {
	if len(sheet.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(sheet.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range sheet.Rows {
		record := make([]string, len(sheet.Headers))
		for i, header := range sheet.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
