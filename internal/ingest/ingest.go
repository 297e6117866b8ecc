package ingest

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/schollz/progressbar/v3"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/cache"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/observation"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/properties"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/store"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/utils"
)

const rastersDirName = "rasters"

var rasterFilePattern = regexp.MustCompile(`^(.+)_(\d{4}-\d{2}-\d{2})\.tiff?$`)

type rasterFile struct {
	path string
	date time.Time
}

// cellValues maps cellID → date column → sampled value.
type cellValues map[string]map[string]*float64

// IngestRasters samples the per-date rasters of the configured variable
// into a wide table, averaging the first band over each cell's
// geometry. Cells without any valid pixel for a date stay missing.
// Sampling always works on the raster's native geotransform; cfg.Resol
// records the nominal resolution and separates cache entries, it does
// not resample. Sampled values are cached so re-running a report does
// not re-read every raster.
func IngestRasters(cfg properties.Config, cells []store.Cell) (*store.WideTable, error) {
	dir := filepath.Join(cfg.Path, rastersDirName)
	rasters, err := listRasters(dir, cfg.Source)
	if err != nil {
		return nil, err
	}
	if len(rasters) == 0 {
		return nil, fmt.Errorf("no %s rasters found in %s", cfg.Source, dir)
	}

	fileCache := cache.NewFileCache[cellValues]("ingest")
	cacheKey := cacheKeyFor(fileCache, cfg, cells, rasters)
	if cached, ok := fileCache.Get(cacheKey); ok {
		fmt.Println("Using cached raster samples")
		return buildWideTable(cfg.Source, cells, rasters, cached), nil
	}

	values := make(cellValues, len(cells))
	for _, cell := range cells {
		values[cell.ID] = make(map[string]*float64, len(rasters))
	}

	progressBar := progressbar.Default(int64(len(rasters)), "Sampling rasters")
	for _, raster := range rasters {
		sampled, err := sampleRaster(raster.path, cells)
		if err != nil {
			return nil, fmt.Errorf("failed to sample raster %s: %w", raster.path, err)
		}
		column := raster.date.Format(observation.DateLayout)
		for cellID, value := range sampled {
			values[cellID][column] = value
		}
		progressBar.Add(1)
	}
	progressBar.Finish()

	if err := fileCache.Set(cacheKey, values); err != nil {
		fmt.Printf("Warning: failed to cache raster samples: %s\n", err.Error())
	}

	return buildWideTable(cfg.Source, cells, rasters, values), nil
}

func listRasters(dir, variable string) ([]rasterFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.NotFoundError{Path: dir}
		}
		return nil, fmt.Errorf("failed to read rasters directory: %w", err)
	}

	pathByDate := make(map[time.Time]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := rasterFilePattern.FindStringSubmatch(entry.Name())
		if match == nil || match[1] != variable {
			continue
		}
		date, err := time.Parse(observation.DateLayout, match[2])
		if err != nil {
			continue
		}
		pathByDate[date] = filepath.Join(dir, entry.Name())
	}

	rasters := make([]rasterFile, 0, len(pathByDate))
	for _, date := range utils.GetSortedKeys(pathByDate, true) {
		rasters = append(rasters, rasterFile{path: pathByDate[date], date: date})
	}
	return rasters, nil
}

// cacheKeyFor keys cached samples on the grid as well as the rasters,
// so editing grid.geojson invalidates them instead of resolving new
// cell IDs to missing values.
func cacheKeyFor(fileCache *cache.FileCache[cellValues], cfg properties.Config, cells []store.Cell, rasters []rasterFile) string {
	params := []interface{}{cfg.Source, cfg.Resol}
	for _, cell := range cells {
		params = append(params, cell.ID, cell.Geometry)
	}
	for _, raster := range rasters {
		params = append(params, filepath.Base(raster.path))
	}
	return fileCache.GenerateKey(params...)
}

func sampleRaster(path string, cells []store.Cell) (map[string]*float64, error) {
	var (
		dataset *godal.Dataset
		err     error
	)
	utils.ExecuteWithRasterLock(func() {
		dataset, err = godal.Open(path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open raster: %w", err)
	}
	defer dataset.Close()

	geoTransform, err := dataset.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("failed to get GeoTransform: %w", err)
	}

	width := dataset.Structure().SizeX
	height := dataset.Structure().SizeY
	bands := dataset.Bands()
	if len(bands) == 0 {
		return nil, fmt.Errorf("raster has no bands")
	}
	band := bands[0]
	nodata, hasNodata := band.NoData()

	data := make([]float64, width*height)
	utils.ExecuteWithRasterLock(func() {
		err = band.Read(0, 0, data, width, height)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read raster data: %w", err)
	}

	sampled := make(map[string]*float64, len(cells))
	for _, cell := range cells {
		sampled[cell.ID] = averageWithin(cell.Geometry, geoTransform, data, width, height, nodata, hasNodata)
	}
	return sampled, nil
}

// averageWithin averages the pixels whose centers fall inside the
// geometry. Returns nil when no valid pixel contributes.
func averageWithin(geometry orb.Geometry, gt [6]float64, data []float64, width, height int, nodata float64, hasNodata bool) *float64 {
	bound := geometry.Bound()

	// gt[5] is negative for north-up rasters, so the bound's max Y maps
	// to the smallest row index.
	minCol := clamp(int(math.Floor((bound.Min[0]-gt[0])/gt[1])), 0, width-1)
	maxCol := clamp(int(math.Ceil((bound.Max[0]-gt[0])/gt[1])), 0, width-1)
	minRow := clamp(int(math.Floor((bound.Max[1]-gt[3])/gt[5])), 0, height-1)
	maxRow := clamp(int(math.Ceil((bound.Min[1]-gt[3])/gt[5])), 0, height-1)

	sum, count := 0.0, 0
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			lon := gt[0] + (float64(col)+0.5)*gt[1]
			lat := gt[3] + (float64(row)+0.5)*gt[5]
			if !contains(geometry, orb.Point{lon, lat}) {
				continue
			}
			value := data[row*width+col]
			if hasNodata && value == nodata {
				continue
			}
			sum += value
			count++
		}
	}

	if count == 0 {
		return nil
	}
	average := sum / float64(count)
	return &average
}

func contains(geometry orb.Geometry, point orb.Point) bool {
	switch g := geometry.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, point)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, point)
	default:
		return geometry.Bound().Contains(point)
	}
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func buildWideTable(variable string, cells []store.Cell, rasters []rasterFile, values cellValues) *store.WideTable {
	columns := make([]string, 0, len(rasters)+1)
	columns = append(columns, observation.IDColumn)
	for _, raster := range rasters {
		columns = append(columns, raster.date.Format(observation.DateLayout))
	}

	rows := make([]store.WideRow, 0, len(cells))
	for _, cell := range cells {
		rowValues := map[string]string{observation.IDColumn: cell.ID}
		for _, column := range columns[1:] {
			if value := values[cell.ID][column]; value != nil {
				rowValues[column] = strconv.FormatFloat(*value, 'f', -1, 64)
			} else {
				rowValues[column] = ""
			}
		}
		rows = append(rows, store.WideRow{Values: rowValues})
	}

	return &store.WideTable{Variable: variable, Columns: columns, Rows: rows}
}
