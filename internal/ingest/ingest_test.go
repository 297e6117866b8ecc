package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/cache"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/properties"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/store"
)

func squareCell(id string, origin float64) store.Cell {
	return store.Cell{
		ID: id,
		Geometry: orb.Polygon{{
			{origin, origin},
			{origin + 1, origin},
			{origin + 1, origin + 1},
			{origin, origin + 1},
			{origin, origin},
		}},
	}
}

func testConfig(t *testing.T, path string) properties.Config {
	t.Helper()
	cfg, err := properties.NewConfig(path, nil, "ndvi", time.Time{}, 250)
	require.NoError(t, err)
	return cfg
}

func TestListRasters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"ndvi_2020-03-01.tif",
		"ndvi_2020-01-01.tif",
		"ndvi_2020-02-01.tiff",
		"evi_2020-01-01.tif",
		"ndvi_notadate.tif",
		"readme.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	rasters, err := listRasters(dir, "ndvi")
	require.NoError(t, err)

	require.Len(t, rasters, 3)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), rasters[0].date)
	assert.Equal(t, time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), rasters[1].date)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), rasters[2].date)
	assert.Equal(t, filepath.Join(dir, "ndvi_2020-01-01.tif"), rasters[0].path)
}

func TestListRasters_MissingDirectory(t *testing.T) {
	_, err := listRasters(filepath.Join(t.TempDir(), "nope"), "ndvi")
	var notFound store.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCacheKeyFor_GridChangesKey(t *testing.T) {
	fileCache := cache.NewFileCache[cellValues]("ingest")
	cfg := testConfig(t, t.TempDir())
	rasters := []rasterFile{{path: "ndvi_2020-01-01.tif", date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}}
	cells := []store.Cell{squareCell("A", 0), squareCell("B", 10)}

	key := cacheKeyFor(fileCache, cfg, cells, rasters)
	assert.Equal(t, key, cacheKeyFor(fileCache, cfg, cells, rasters))

	// A new cell must miss the cache instead of reading stale samples
	// as all-missing values.
	withExtra := append(append([]store.Cell{}, cells...), squareCell("C", 20))
	assert.NotEqual(t, key, cacheKeyFor(fileCache, cfg, withExtra, rasters))

	// So must the same cell with moved geometry.
	moved := []store.Cell{squareCell("A", 5), squareCell("B", 10)}
	assert.NotEqual(t, key, cacheKeyFor(fileCache, cfg, moved, rasters))
}

func TestBuildWideTable(t *testing.T) {
	cells := []store.Cell{squareCell("A", 0), squareCell("B", 10)}
	rasters := []rasterFile{
		{path: "ndvi_2020-01-01.tif", date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{path: "ndvi_2020-02-01.tif", date: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	sampled := 0.42
	values := cellValues{
		"A": {"2020-01-01": &sampled},
	}

	table := buildWideTable("ndvi", cells, rasters, values)

	assert.Equal(t, []string{"id", "2020-01-01", "2020-02-01"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "0.42", table.Rows[0].Values["2020-01-01"])
	assert.Equal(t, "", table.Rows[0].Values["2020-02-01"])
	assert.Equal(t, "", table.Rows[1].Values["2020-01-01"])
}
