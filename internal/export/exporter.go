package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rebeliceyang/cotable/internal/models"
)

// Format selects the export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ToCSV writes rows to a CSV file, one column per descriptor, using the
// cells' display text
func ToCSV(rows []models.KeyedRow, columns []models.Column, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close CSV file: %w", cerr)
		}
	}()

	writer := csv.NewWriter(file)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label()
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(columns))
	for _, kr := range rows {
		for i, col := range columns {
			record[i] = col.DisplayText(kr.Row)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}
	return nil
}

// ToJSON writes rows to a JSON array. Each object is keyed by column
// header; columns with an extractor export their display text, the rest
// their raw value.
func ToJSON(rows []models.KeyedRow, columns []models.Column, path string) error {
	out := make([]map[string]any, 0, len(rows))
	for _, kr := range rows {
		obj := make(map[string]any, len(columns))
		for _, col := range columns {
			if col.HasExtractor() {
				obj[col.Label()] = col.DisplayText(kr.Row)
				continue
			}
			v, _ := col.Value(kr.Row)
			obj[col.Label()] = v
		}
		out = append(out, obj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// Write exports rows in the given format
func Write(format Format, rows []models.KeyedRow, columns []models.Column, path string) error {
	switch format {
	case FormatCSV:
		return ToCSV(rows, columns, path)
	case FormatJSON:
		return ToJSON(rows, columns, path)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// FileName builds a timestamped export file path inside dir
func FileName(dir string, format Format, now time.Time) string {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	name := fmt.Sprintf("cotable-%s.%s", now.Format("20060102-150405"), format)
	return filepath.Join(dir, name)
}
