package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/cotable/internal/models"
)

func loadJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON source: %w", err)
	}
	return parseJSON(data)
}

func parseJSON(data []byte) (*Dataset, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrNotTabular
		}
		return nil, fmt.Errorf("failed to parse JSON source: %w", err)
	}

	rows := make([]models.Row, 0, len(elems))
	for i, elem := range elems {
		var row map[string]any
		if err := json.Unmarshal(elem, &row); err != nil || row == nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrNotTabular, i)
		}
		rows = append(rows, models.Row(row))
	}

	var fields []string
	if len(elems) > 0 {
		fields = jsonKeyOrder(elems[0])
	}
	return &Dataset{Fields: mergeFields(fields, rows), Rows: rows}, nil
}

// jsonKeyOrder returns the keys of a JSON object in document order
func jsonKeyOrder(obj json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(obj))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}

func loadYAML(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML source: %w", err)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (*Dataset, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML source: %w", err)
	}
	if len(doc.Content) == 0 {
		return &Dataset{}, nil
	}

	list := doc.Content[0]
	if list.Kind != yaml.SequenceNode {
		return nil, ErrNotTabular
	}

	rows := make([]models.Row, 0, len(list.Content))
	for i, item := range list.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: element %d is not a mapping", ErrNotTabular, i)
		}
		var row map[string]any
		if err := item.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode YAML element %d: %w", i, err)
		}
		rows = append(rows, models.Row(row))
	}

	var fields []string
	if len(list.Content) > 0 {
		first := list.Content[0]
		for i := 0; i+1 < len(first.Content); i += 2 {
			fields = append(fields, first.Content[i].Value)
		}
	}
	return &Dataset{Fields: mergeFields(fields, rows), Rows: rows}, nil
}

func loadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV source: %w", err)
	}
	defer func() { _ = file.Close() }()
	return parseCSV(file)
}

func parseCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []models.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+1, err)
		}

		row := make(models.Row, len(header))
		for i, name := range header {
			if i >= len(record) {
				break
			}
			if v := parseCell(record[i]); v != nil {
				row[name] = v
			}
		}
		rows = append(rows, row)
	}

	return &Dataset{Fields: header, Rows: rows}, nil
}

// parseCell types a CSV cell: integers, floats and booleans are parsed,
// empty cells are absent
func parseCell(cell string) any {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch s {
	case "true", "TRUE", "True":
		return true
	case "false", "FALSE", "False":
		return false
	}
	return s
}
