package output

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/summary"
)

const (
	chartWidth  = 1200
	chartHeight = 500
	chartMargin = 40.0
)

// CreateMeanSeriesChart renders the per-date mean as a line chart.
// Periods without a mean leave a gap in the line instead of dropping
// to zero.
func CreateMeanSeriesChart(summaries []summary.PeriodSummary, outputPath string) error {
	if len(summaries) == 0 {
		return fmt.Errorf("no summaries to chart")
	}

	// A series with no available means at all still renders the empty
	// axes rather than failing the run.
	minMean, maxMean, _ := meanRange(summaries)
	if maxMean == minMean {
		// Flat series still needs a visible vertical range.
		minMean -= 1
		maxMean += 1
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Axes
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(1)
	dc.DrawLine(chartMargin, chartHeight-chartMargin, chartWidth-chartMargin, chartHeight-chartMargin)
	dc.DrawLine(chartMargin, chartMargin, chartMargin, chartHeight-chartMargin)
	dc.Stroke()

	xStep := (chartWidth - 2*chartMargin) / float64(max(len(summaries)-1, 1))
	pointY := func(mean float64) float64 {
		norm := (mean - minMean) / (maxMean - minMean)
		return chartHeight - chartMargin - norm*(chartHeight-2*chartMargin)
	}

	dc.SetRGB(0.1, 0.5, 0.2)
	dc.SetLineWidth(2)
	previousAvailable := false
	var previousX, previousY float64
	for i, periodSummary := range summaries {
		if periodSummary.Mean == nil {
			previousAvailable = false
			continue
		}
		x := chartMargin + float64(i)*xStep
		y := pointY(*periodSummary.Mean)
		if previousAvailable {
			dc.DrawLine(previousX, previousY, x, y)
			dc.Stroke()
		}
		dc.DrawCircle(x, y, 4)
		dc.Fill()
		previousX, previousY = x, y
		previousAvailable = true
	}

	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to save series chart: %w", err)
	}
	return nil
}

func meanRange(summaries []summary.PeriodSummary) (float64, float64, bool) {
	minMean, maxMean := 0.0, 0.0
	found := false
	for _, periodSummary := range summaries {
		if periodSummary.Mean == nil {
			continue
		}
		if !found {
			minMean, maxMean = *periodSummary.Mean, *periodSummary.Mean
			found = true
			continue
		}
		if *periodSummary.Mean < minMean {
			minMean = *periodSummary.Mean
		}
		if *periodSummary.Mean > maxMean {
			maxMean = *periodSummary.Mean
		}
	}
	return minMean, maxMean, found
}
