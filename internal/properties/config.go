package properties

import (
	"errors"
	"fmt"
	"time"
)

// Config collects the parameters of one report run. Validation happens
// here, once, so the pipeline stages can trust every field.
type Config struct {
	Path    string    // store directory holding the grid and the wide tables
	Regions []string  // region filter, empty means every region
	Source  string    // tracked variable, e.g. "ndvi"
	Start   time.Time // earliest date to include, zero means no lower bound
	Resol   float64   // nominal raster resolution in meters; labels cache entries, ingestion samples at native resolution
}

func NewConfig(path string, regions []string, source string, start time.Time, resol float64) (Config, error) {
	if path == "" {
		return Config{}, errors.New("store path must not be empty")
	}
	if source == "" {
		return Config{}, errors.New("source variable must not be empty")
	}
	if resol <= 0 {
		return Config{}, fmt.Errorf("spatial resolution must be positive, got %v", resol)
	}

	return Config{
		Path:    path,
		Regions: regions,
		Source:  source,
		Start:   start,
		Resol:   resol,
	}, nil
}

// IncludesRegion reports whether the region filter admits the given
// region. An empty filter admits everything.
func (c Config) IncludesRegion(region string) bool {
	if len(c.Regions) == 0 {
		return true
	}
	for _, r := range c.Regions {
		if r == region {
			return true
		}
	}
	return false
}
