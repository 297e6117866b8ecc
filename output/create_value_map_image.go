package output

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/store"
)

const (
	mapImageWidth = 1200
	mapMargin     = 20.0
)

func normalize(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	norm := (value - min) / (max - min)
	if norm < 0 {
		return 0
	}
	if norm > 1 {
		return 1
	}
	return norm
}

// valueToColor maps a normalized value onto a blue→green→red ramp.
func valueToColor(norm float64) color.RGBA {
	var r, g, b uint8
	if norm <= 0.5 {
		ratio := norm / 0.5
		r = 0
		g = uint8(255 * ratio)
		b = uint8(255 * (1 - ratio))
	} else {
		ratio := (norm - 0.5) / 0.5
		r = uint8(255 * ratio)
		g = uint8(255 * (1 - ratio))
		b = 0
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var missingCellColor = color.RGBA{R: 180, G: 180, B: 180, A: 255}

// CreateValueMapImage renders a choropleth of the grid for one date's
// values. Cells with a missing value are painted gray.
func CreateValueMapImage(cells []store.Cell, values map[string]*float64, outputPath string) error {
	if len(cells) == 0 {
		return fmt.Errorf("no cells to render")
	}

	bound := cells[0].Geometry.Bound()
	for _, cell := range cells[1:] {
		bound = bound.Union(cell.Geometry.Bound())
	}
	if bound.Max[0] == bound.Min[0] || bound.Max[1] == bound.Min[1] {
		return fmt.Errorf("grid has a degenerate extent")
	}

	scale := (mapImageWidth - 2*mapMargin) / (bound.Max[0] - bound.Min[0])
	height := int((bound.Max[1]-bound.Min[1])*scale + 2*mapMargin)

	minValue, maxValue, hasValues := valueRange(values)

	dc := gg.NewContext(mapImageWidth, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	project := func(p orb.Point) (float64, float64) {
		x := mapMargin + (p[0]-bound.Min[0])*scale
		y := float64(height) - mapMargin - (p[1]-bound.Min[1])*scale
		return x, y
	}

	for _, cell := range cells {
		fill := missingCellColor
		if value := values[cell.ID]; value != nil && hasValues {
			fill = valueToColor(normalize(*value, minValue, maxValue))
		}

		switch geometry := cell.Geometry.(type) {
		case orb.Polygon:
			drawPolygon(dc, geometry, project, fill)
		case orb.MultiPolygon:
			for _, polygon := range geometry {
				drawPolygon(dc, polygon, project, fill)
			}
		}
	}

	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to save map image: %w", err)
	}
	return nil
}

func drawPolygon(dc *gg.Context, polygon orb.Polygon, project func(orb.Point) (float64, float64), fill color.RGBA) {
	if len(polygon) == 0 {
		return
	}
	// Exterior ring only; grid cells have no holes.
	ring := polygon[0]
	for i, point := range ring {
		x, y := project(point)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(0.5)
	dc.Stroke()
}

func valueRange(values map[string]*float64) (float64, float64, bool) {
	minValue, maxValue := 0.0, 0.0
	found := false
	for _, value := range values {
		if value == nil {
			continue
		}
		if !found {
			minValue, maxValue = *value, *value
			found = true
			continue
		}
		if *value < minValue {
			minValue = *value
		}
		if *value > maxValue {
			maxValue = *value
		}
	}
	return minValue, maxValue, found
}
