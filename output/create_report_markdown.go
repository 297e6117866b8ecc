package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/verdant-watch/ndvi-monitor-poc/internal/observation"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/summary"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/trend"
)

const noDataMarker = "no data"

// CreateReportMarkdown writes the human-readable report. The summary
// table and the key findings both read the same assessment record, so
// the two sections cannot drift apart.
func CreateReportMarkdown(variable string, summaries []summary.PeriodSummary, assessment *trend.Assessment, outputPath string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Vegetation report: %s\n\n", strings.ToUpper(variable))
	fmt.Fprintf(&b, "Period %s to %s, %d cells, %d observations.\n\n",
		assessment.PeriodStart.Format(observation.DateLayout),
		assessment.PeriodEnd.Format(observation.DateLayout),
		assessment.CellCount,
		assessment.TotalObservations,
	)

	b.WriteString("## Per-period summary\n\n")
	b.WriteString("| date | mean | median | min | max | stddev | valid count |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, periodSummary := range summaries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %d |\n",
			periodSummary.Date.Format(observation.DateLayout),
			formatValue(periodSummary.Mean),
			formatValue(periodSummary.Median),
			formatValue(periodSummary.Min),
			formatValue(periodSummary.Max),
			formatValue(periodSummary.StdDev),
			periodSummary.ValidCount,
		)
	}
	b.WriteString("\n")

	b.WriteString("## Key findings\n\n")
	fmt.Fprintf(&b, "- Baseline mean: %s\n", formatValue(assessment.Baseline))
	fmt.Fprintf(&b, "- Latest mean: %s\n", formatValue(assessment.Latest))
	fmt.Fprintf(&b, "- Total change: %s\n", formatValue(assessment.TotalChange))
	fmt.Fprintf(&b, "- Mean change per period: %s\n", formatValue(assessment.MeanChangePerPeriod))
	fmt.Fprintf(&b, "- Trend: **%s**\n\n", assessment.Classification)

	b.WriteString("## Artifacts\n\n")
	fmt.Fprintf(&b, "![Latest %s map](%s_map.png)\n\n", variable, variable)
	fmt.Fprintf(&b, "![Mean %s over time](%s_means.png)\n", variable, variable)

	if err := os.WriteFile(outputPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report markdown: %w", err)
	}
	return nil
}

func formatValue(value *float64) string {
	if value == nil {
		return noDataMarker
	}
	return fmt.Sprintf("%.2f", *value)
}
