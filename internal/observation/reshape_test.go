package observation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/store"
)

func wideFixture() *store.WideTable {
	return &store.WideTable{
		Variable: "ndvi",
		Columns:  []string{"id", "2020-01-01", "2020-02-01"},
		Rows: []store.WideRow{
			{Values: map[string]string{"id": "A", "2020-01-01": "10", "2020-02-01": ""}},
			{Values: map[string]string{"id": "B", "2020-01-01": "20", "2020-02-01": "30"}},
		},
	}
}

func TestReshape_ProducesOneObservationPerCellAndDate(t *testing.T) {
	observations, err := Reshape(wideFixture())
	require.NoError(t, err)

	// 2 cells x 2 dates
	require.Len(t, observations, 4)

	jan := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "A", observations[0].CellID)
	assert.Equal(t, jan, observations[0].Date.Time)
	require.NotNil(t, observations[0].Value)
	assert.Equal(t, 10.0, *observations[0].Value)

	// A's February value is missing and must pass through as nil
	assert.Equal(t, "A", observations[1].CellID)
	assert.Equal(t, feb, observations[1].Date.Time)
	assert.Nil(t, observations[1].Value)

	assert.Equal(t, "B", observations[2].CellID)
	assert.Equal(t, jan, observations[2].Date.Time)
	require.NotNil(t, observations[2].Value)
	assert.Equal(t, 20.0, *observations[2].Value)

	assert.Equal(t, "B", observations[3].CellID)
	require.NotNil(t, observations[3].Value)
	assert.Equal(t, 30.0, *observations[3].Value)
}

func TestReshape_RowOrderThenColumnOrder(t *testing.T) {
	table := wideFixture()
	observations, err := Reshape(table)
	require.NoError(t, err)

	var got []string
	for _, obs := range observations {
		got = append(got, obs.CellID+"/"+obs.Date.Format(DateLayout))
	}
	assert.Equal(t, []string{"A/2020-01-01", "A/2020-02-01", "B/2020-01-01", "B/2020-02-01"}, got)
}

func TestReshape_SkipsMetadataColumns(t *testing.T) {
	table := wideFixture()
	table.Columns = append(table.Columns, "geometry")
	for i := range table.Rows {
		table.Rows[i].Values["geometry"] = "opaque"
	}

	observations, err := Reshape(table, "geometry")
	require.NoError(t, err)
	assert.Len(t, observations, 4)
}

func TestReshape_MissingIDColumn(t *testing.T) {
	table := &store.WideTable{
		Variable: "ndvi",
		Columns:  []string{"2020-01-01"},
		Rows:     []store.WideRow{{Values: map[string]string{"2020-01-01": "1"}}},
	}

	_, err := Reshape(table)
	var schemaErr SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, IDColumn, schemaErr.Column)
}

func TestReshape_NonDateColumn(t *testing.T) {
	table := wideFixture()
	table.Columns[2] = "february"

	_, err := Reshape(table)
	var schemaErr SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "february", schemaErr.Column)
}

func TestReshape_NonNumericValue(t *testing.T) {
	table := wideFixture()
	table.Rows[0].Values["2020-01-01"] = "n/a"

	_, err := Reshape(table)
	var schemaErr SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "2020-01-01", schemaErr.Column)
}

func TestPivot_RoundTrip(t *testing.T) {
	table := wideFixture()
	observations, err := Reshape(table)
	require.NoError(t, err)

	rebuilt := Pivot(observations, table.Variable)

	assert.Equal(t, table.Variable, rebuilt.Variable)
	assert.Equal(t, table.Columns, rebuilt.Columns)
	require.Len(t, rebuilt.Rows, len(table.Rows))
	for i, row := range table.Rows {
		assert.Equal(t, row.Values, rebuilt.Rows[i].Values)
	}
}
