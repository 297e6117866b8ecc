package ui

import (
	"fmt"

	"github.com/verdant-watch/ndvi-monitor-poc/internal/delivery"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/notification"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/observation"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/properties"
)

// GenerateReport handles the UI for running the full report pipeline
func GenerateReport() {
	PrintWarning("- The store directory must contain a 'grid.geojson' and a '<variable>_<frequency>.csv' wide table.\n- Report artifacts are written to the store's 'report' folder.")

	path := ReadStringDefault("Enter the store path", DefaultStorePath())
	source := ReadStringDefault("Enter the variable to report on", "ndvi")
	frequency := ReadStringDefault("Enter the reporting frequency", "monthly")
	regions := ReadRegions("Enter a comma-separated region filter (empty for all regions): ")

	start, err := ReadOptionalDate("Enter the earliest date to include (YYYY-MM-DD, empty for no bound): ")
	if err != nil {
		PrintError(err.Error())
		return
	}

	resol, err := ReadPositiveFloat("Enter the spatial resolution in meters", 250)
	if err != nil {
		PrintError(err.Error())
		return
	}

	cfg, err := properties.NewConfig(path, regions, source, start, resol)
	if err != nil {
		PrintError(err.Error())
		return
	}

	result, err := delivery.GenerateReport(cfg, frequency)
	if err != nil {
		PrintError(err.Error())
		notification.SendDiscordErrorNotification(fmt.Sprintf("Report run failed: %s", err.Error()))
		return
	}

	fmt.Printf("\n%sPer-period summary:%s\n", ColorGreen, ColorReset)
	for _, periodSummary := range result.Summaries {
		if periodSummary.Mean == nil {
			fmt.Printf("%s  %s: no data%s\n", ColorGreen, periodSummary.Date.Format(observation.DateLayout), ColorReset)
			continue
		}
		fmt.Printf("%s  %s: mean %.2f (%d valid cells)%s\n",
			ColorGreen, periodSummary.Date.Format(observation.DateLayout), *periodSummary.Mean, periodSummary.ValidCount, ColorReset)
	}

	assessment := result.Assessment
	fmt.Printf("\n%sTrend: %s%s\n", ColorGreen, assessment.Classification, ColorReset)

	PrintSuccess("Report generated. Artifacts:")
	for _, artifact := range result.Artifacts {
		fmt.Printf("%s  - %s%s\n", ColorGreen, artifact, ColorReset)
	}

	notification.SendDiscordSuccessNotification(fmt.Sprintf(
		"Report generated for %s (%s). Trend: %s over %d periods.",
		source, frequency, assessment.Classification, len(result.Summaries),
	))
}
