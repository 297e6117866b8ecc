package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const gridFileName = "grid.geojson"

// NotFoundError reports a missing store directory or a missing tracked
// variable inside an existing store.
type NotFoundError struct {
	Path     string
	Variable string
}

func (e NotFoundError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("variable %q not found in store at %s", e.Variable, e.Path)
	}
	return fmt.Sprintf("store not found at %s", e.Path)
}

// Cell is one unit of the spatial grid. Geometry is opaque to the
// pipeline and only touched by ingestion and rendering.
type Cell struct {
	ID       string
	Region   string
	Geometry orb.Geometry
}

type Store struct {
	path string
}

func Open(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to stat store directory: %w", err)
	}
	if !info.IsDir() {
		return nil, NotFoundError{Path: path}
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Grid reads the grid table. Every feature must carry an id property;
// a region property is optional.
func (s *Store) Grid() ([]Cell, error) {
	filePath := filepath.Join(s.path, gridFileName)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFoundError{Path: filePath}
		}
		return nil, fmt.Errorf("failed to read grid table: %w", err)
	}

	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode grid table %s: %w", filePath, err)
	}

	cells := make([]Cell, 0, len(collection.Features))
	for i, feature := range collection.Features {
		id := propertyString(feature.Properties, "id")
		if id == "" {
			return nil, fmt.Errorf("grid feature %d in %s has no id property", i, filePath)
		}
		cells = append(cells, Cell{
			ID:       id,
			Region:   propertyString(feature.Properties, "region"),
			Geometry: feature.Geometry,
		})
	}
	return cells, nil
}

// Regions returns the distinct non-empty region names of the grid,
// sorted for stable listings.
func (s *Store) Regions() ([]string, error) {
	cells, err := s.Grid()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var regions []string
	for _, cell := range cells {
		if cell.Region == "" {
			continue
		}
		if _, ok := seen[cell.Region]; ok {
			continue
		}
		seen[cell.Region] = struct{}{}
		regions = append(regions, cell.Region)
	}
	sort.Strings(regions)
	return regions, nil
}

// ListVariables enumerates the wide tables present in the store as
// "<variable>_<frequency>" names.
func (s *Store) ListVariables() ([]string, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var variables []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		variables = append(variables, strings.TrimSuffix(name, ".csv"))
	}
	sort.Strings(variables)
	return variables, nil
}

func propertyString(properties geojson.Properties, key string) string {
	switch value := properties[key].(type) {
	case string:
		return value
	case float64:
		return fmt.Sprintf("%v", value)
	default:
		return ""
	}
}
