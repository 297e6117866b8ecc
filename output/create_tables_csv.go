package output

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/observation"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/summary"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/trend"
)

// CreateObservationsCSV writes the long-format observation table.
// Missing values come out as empty cells.
func CreateObservationsCSV(observations []observation.Observation, outputPath string) error {
	return marshalCSV(&observations, outputPath, "observations")
}

// CreateSummaryCSV writes the per-date summary table, already sorted
// ascending by date by the aggregator.
func CreateSummaryCSV(summaries []summary.PeriodSummary, outputPath string) error {
	return marshalCSV(&summaries, outputPath, "summary")
}

// CreateAssessmentCSV writes the single trend assessment record.
func CreateAssessmentCSV(assessment *trend.Assessment, outputPath string) error {
	records := []*trend.Assessment{assessment}
	return marshalCSV(&records, outputPath, "assessment")
}

func marshalCSV(records interface{}, outputPath, name string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", name, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(records, file); err != nil {
		return fmt.Errorf("failed to write %s table: %w", name, err)
	}
	return nil
}
