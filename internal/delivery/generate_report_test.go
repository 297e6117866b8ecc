package delivery

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/observation"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/properties"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/store"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/trend"
)

const gridFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"id": "A", "region": "marmara"},
      "geometry": {"type": "Polygon", "coordinates": [[[28, 40], [29, 40], [29, 41], [28, 41], [28, 40]]]}
    },
    {
      "type": "Feature",
      "properties": {"id": "B", "region": "aegean"},
      "geometry": {"type": "Polygon", "coordinates": [[[26, 38], [27, 38], [27, 39], [26, 39], [26, 38]]]}
    }
  ]
}`

const wideFixture = "id,2020-01-01,2020-02-01,2020-03-01\nA,100,,190\nB,120,150,210\n"

func fixtureConfig(t *testing.T) properties.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grid.geojson"), []byte(gridFixture), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ndvi_monthly.csv"), []byte(wideFixture), 0644))

	cfg, err := properties.NewConfig(dir, nil, "ndvi", time.Time{}, 250)
	require.NoError(t, err)
	return cfg
}

func TestGenerateReport_EndToEnd(t *testing.T) {
	cfg := fixtureConfig(t)

	result, err := GenerateReport(cfg, "monthly")
	require.NoError(t, err)

	assert.Len(t, result.Cells, 2)
	assert.Len(t, result.Observations, 6)
	require.Len(t, result.Summaries, 3)

	require.NotNil(t, result.Summaries[0].Mean)
	assert.Equal(t, 110.0, *result.Summaries[0].Mean)
	assert.Equal(t, 2, result.Summaries[0].ValidCount)
	assert.Equal(t, 1, result.Summaries[1].ValidCount)

	require.NotNil(t, result.Assessment.TotalChange)
	assert.Equal(t, 90.0, *result.Assessment.TotalChange)
	assert.Equal(t, trend.ClassificationImprovement, result.Assessment.Classification)
	assert.Equal(t, 6, result.Assessment.TotalObservations)
	assert.Equal(t, 2, result.Assessment.CellCount)

	require.Len(t, result.Artifacts, 7)
	for _, artifact := range result.Artifacts {
		_, err := os.Stat(artifact)
		assert.NoError(t, err, artifact)
	}
}

func TestGenerateReport_RegionFilter(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Regions = []string{"marmara"}

	result, err := GenerateReport(cfg, "monthly")
	require.NoError(t, err)

	assert.Len(t, result.Cells, 1)
	// Only cell A's three observations remain
	assert.Len(t, result.Observations, 3)
	assert.Equal(t, 0, result.Summaries[1].ValidCount)
	assert.Nil(t, result.Summaries[1].Mean)
}

func TestGenerateReport_StartDateFilter(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Start = time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)

	result, err := GenerateReport(cfg, "monthly")
	require.NoError(t, err)

	require.Len(t, result.Summaries, 2)
	assert.Equal(t, "2020-02-01", result.Summaries[0].Date.Format(observation.DateLayout))
}

func TestGenerateReport_MissingVariable(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Source = "evi"

	_, err := GenerateReport(cfg, "monthly")
	var notFound store.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), "load:")
}

func TestGenerateReport_SchemaErrorAbortsRun(t *testing.T) {
	cfg := fixtureConfig(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Path, "ndvi_monthly.csv"),
		[]byte("cell,2020-01-01\nA,1\n"), 0644,
	))

	_, err := GenerateReport(cfg, "monthly")
	var schemaErr observation.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, err.Error(), "reshape:")

	// No partial artifacts
	_, statErr := os.Stat(filepath.Join(cfg.Path, "report"))
	assert.True(t, os.IsNotExist(statErr))
}
