package output

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/store"
)

// CreateGridGeoJSON exports the grid with the latest value of each cell
// attached, for the mapping side of the report. Cells without a latest
// value get a null value property.
func CreateGridGeoJSON(cells []store.Cell, latestValues map[string]*float64, outputPath string) error {
	collection := geojson.NewFeatureCollection()
	for _, cell := range cells {
		feature := geojson.NewFeature(cell.Geometry)
		feature.Properties["id"] = cell.ID
		if cell.Region != "" {
			feature.Properties["region"] = cell.Region
		}
		if value := latestValues[cell.ID]; value != nil {
			feature.Properties["value"] = *value
		} else {
			feature.Properties["value"] = nil
		}
		collection.Append(feature)
	}

	data, err := collection.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode grid geojson: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write grid geojson: %w", err)
	}
	return nil
}
