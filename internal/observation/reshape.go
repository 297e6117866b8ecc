package observation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/verdant-watch/ndvi-monitor-poc/internal/store"
)

// SchemaError reports a wide table whose header or values cannot be
// interpreted. The pipeline aborts rather than produce partial output.
type SchemaError struct {
	Column string
	Reason string
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("invalid wide table schema: column %q: %s", e.Column, e.Reason)
}

type dateColumn struct {
	name string
	date time.Time
}

// Reshape converts a wide table into long-format observations, one per
// (cell, date) pair, preserving row order then column order. Columns
// named in metaColumns are skipped; every remaining non-id column must
// be a YYYY-MM-DD date. Missing values pass through as nil.
func Reshape(table *store.WideTable, metaColumns ...string) ([]Observation, error) {
	meta := make(map[string]struct{}, len(metaColumns))
	for _, column := range metaColumns {
		meta[column] = struct{}{}
	}

	hasID := false
	var dateColumns []dateColumn
	for _, column := range table.Columns {
		if column == IDColumn {
			hasID = true
			continue
		}
		if _, skip := meta[column]; skip {
			continue
		}
		date, err := time.Parse(DateLayout, column)
		if err != nil {
			return nil, SchemaError{Column: column, Reason: "not a YYYY-MM-DD date"}
		}
		dateColumns = append(dateColumns, dateColumn{name: column, date: date})
	}
	if !hasID {
		return nil, SchemaError{Column: IDColumn, Reason: "column is missing"}
	}

	observations := make([]Observation, 0, len(table.Rows)*len(dateColumns))
	for _, row := range table.Rows {
		cellID := row.Values[IDColumn]
		for _, column := range dateColumns {
			value, err := parseValue(row.Values[column.name])
			if err != nil {
				return nil, SchemaError{
					Column: column.name,
					Reason: fmt.Sprintf("cell %s: %s", cellID, err),
				}
			}
			observations = append(observations, Observation{
				CellID: cellID,
				Date:   NewDate(column.date),
				Value:  value,
			})
		}
	}
	return observations, nil
}

func parseValue(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("value %q is not numeric", raw)
	}
	return &parsed, nil
}

// Pivot is the inverse of Reshape: it rebuilds a wide table from
// long-format observations, keeping first-seen cell and date order.
func Pivot(observations []Observation, variable string) *store.WideTable {
	columns := []string{IDColumn}
	seenDates := make(map[string]struct{})
	rowIndex := make(map[string]int)
	var rows []store.WideRow

	for _, obs := range observations {
		column := obs.Date.Format(DateLayout)
		if _, ok := seenDates[column]; !ok {
			seenDates[column] = struct{}{}
			columns = append(columns, column)
		}

		idx, ok := rowIndex[obs.CellID]
		if !ok {
			idx = len(rows)
			rowIndex[obs.CellID] = idx
			rows = append(rows, store.WideRow{Values: map[string]string{IDColumn: obs.CellID}})
		}

		if obs.Value != nil {
			rows[idx].Values[column] = strconv.FormatFloat(*obs.Value, 'f', -1, 64)
		} else {
			rows[idx].Values[column] = ""
		}
	}

	return &store.WideTable{Variable: variable, Columns: columns, Rows: rows}
}
