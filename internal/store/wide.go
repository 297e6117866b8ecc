package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// WideTable is a raw per-variable table: one row per cell, one column
// per date plus the id column. Values stay as the strings read from
// disk; schema validation and parsing belong to the reshaper.
type WideTable struct {
	Variable string
	Columns  []string
	Rows     []WideRow
}

type WideRow struct {
	Values map[string]string
}

func wideTableFileName(variable, frequency string) string {
	return fmt.Sprintf("%s_%s.csv", variable, frequency)
}

// WideTable reads the persisted table for one tracked variable at the
// given reporting frequency.
func (s *Store) WideTable(variable, frequency string) (*WideTable, error) {
	filePath := filepath.Join(s.path, wideTableFileName(variable, frequency))
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFoundError{Path: s.path, Variable: fmt.Sprintf("%s_%s", variable, frequency)}
		}
		return nil, fmt.Errorf("failed to open wide table: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read wide table %s: %w", filePath, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("wide table %s has no header row", filePath)
	}

	columns := records[0]
	rows := make([]WideRow, 0, len(records)-1)
	for _, record := range records[1:] {
		values := make(map[string]string, len(columns))
		for i, column := range columns {
			if i < len(record) {
				values[column] = record[i]
			}
		}
		rows = append(rows, WideRow{Values: values})
	}

	return &WideTable{Variable: variable, Columns: columns, Rows: rows}, nil
}

// WriteWideTable persists a wide table, overwriting any previous one
// for the same variable and frequency.
func (s *Store) WriteWideTable(table *WideTable, frequency string) (string, error) {
	filePath := filepath.Join(s.path, wideTableFileName(table.Variable, frequency))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create wide table file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Columns); err != nil {
		return "", fmt.Errorf("failed to write wide table header: %w", err)
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, column := range table.Columns {
			record[i] = row.Values[column]
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write wide table row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush wide table: %w", err)
	}

	return filePath, nil
}
