package delivery

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verdant-watch/ndvi-monitor-poc/internal/observation"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/properties"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/store"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/summary"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/trend"
	"github.com/verdant-watch/ndvi-monitor-poc/output"
)

// ReportResult carries everything one report run produced.
type ReportResult struct {
	Cells        []store.Cell
	Observations []observation.Observation
	Summaries    []summary.PeriodSummary
	Assessment   *trend.Assessment
	Artifacts    []string
}

// GenerateReport runs the whole pipeline: load, reshape, aggregate,
// assess, render. Every stage fails fast; the wrapped error names the
// stage so the caller can surface where the run died.
func GenerateReport(cfg properties.Config, frequency string) (*ReportResult, error) {
	st, err := store.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	cells, err := st.Grid()
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	cells = filterCells(cfg, cells)
	if len(cells) == 0 {
		return nil, fmt.Errorf("load: no grid cells match regions %v", cfg.Regions)
	}

	wide, err := st.WideTable(cfg.Source, frequency)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	wide = filterWideTable(cfg, cells, wide)

	observations, err := observation.Reshape(wide)
	if err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}

	summaries := summary.Aggregate(observations)

	assessment, err := trend.Assess(
		summaries,
		len(observations),
		len(cells),
		properties.ImprovementThreshold(),
		properties.DeclineThreshold(),
	)
	if err != nil {
		return nil, fmt.Errorf("assess: %w", err)
	}

	result := &ReportResult{
		Cells:        cells,
		Observations: observations,
		Summaries:    summaries,
		Assessment:   assessment,
	}
	artifacts, err := renderArtifacts(cfg, result)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	return result, nil
}

func filterCells(cfg properties.Config, cells []store.Cell) []store.Cell {
	filtered := make([]store.Cell, 0, len(cells))
	for _, cell := range cells {
		if cfg.IncludesRegion(cell.Region) {
			filtered = append(filtered, cell)
		}
	}
	return filtered
}

// filterWideTable drops rows of cells outside the region filter and
// date columns before cfg.Start. Columns that do not parse as dates
// are kept so the reshaper surfaces them as schema errors.
func filterWideTable(cfg properties.Config, cells []store.Cell, wide *store.WideTable) *store.WideTable {
	keep := make(map[string]struct{}, len(cells))
	for _, cell := range cells {
		keep[cell.ID] = struct{}{}
	}

	columns := make([]string, 0, len(wide.Columns))
	for _, column := range wide.Columns {
		if column == observation.IDColumn || cfg.Start.IsZero() {
			columns = append(columns, column)
			continue
		}
		date, err := time.Parse(observation.DateLayout, column)
		if err != nil || !date.Before(cfg.Start) {
			columns = append(columns, column)
		}
	}

	rows := make([]store.WideRow, 0, len(wide.Rows))
	for _, row := range wide.Rows {
		if _, ok := keep[row.Values[observation.IDColumn]]; ok {
			rows = append(rows, row)
		}
	}

	return &store.WideTable{Variable: wide.Variable, Columns: columns, Rows: rows}
}

// renderArtifacts writes every report artifact. Artifacts are
// independent of each other, so they render concurrently.
func renderArtifacts(cfg properties.Config, result *ReportResult) ([]string, error) {
	reportDir := filepath.Join(cfg.Path, "report")
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	latestValues := latestValuesByCell(result.Observations)

	artifacts := []string{
		filepath.Join(reportDir, fmt.Sprintf("%s_observations.csv", cfg.Source)),
		filepath.Join(reportDir, fmt.Sprintf("%s_summary.csv", cfg.Source)),
		filepath.Join(reportDir, fmt.Sprintf("%s_assessment.csv", cfg.Source)),
		filepath.Join(reportDir, fmt.Sprintf("%s_grid.geojson", cfg.Source)),
		filepath.Join(reportDir, fmt.Sprintf("%s_map.png", cfg.Source)),
		filepath.Join(reportDir, fmt.Sprintf("%s_means.png", cfg.Source)),
		filepath.Join(reportDir, fmt.Sprintf("%s_report.md", cfg.Source)),
	}

	var g errgroup.Group
	g.Go(func() error { return output.CreateObservationsCSV(result.Observations, artifacts[0]) })
	g.Go(func() error { return output.CreateSummaryCSV(result.Summaries, artifacts[1]) })
	g.Go(func() error { return output.CreateAssessmentCSV(result.Assessment, artifacts[2]) })
	g.Go(func() error { return output.CreateGridGeoJSON(result.Cells, latestValues, artifacts[3]) })
	g.Go(func() error { return output.CreateValueMapImage(result.Cells, latestValues, artifacts[4]) })
	g.Go(func() error { return output.CreateMeanSeriesChart(result.Summaries, artifacts[5]) })
	g.Go(func() error {
		return output.CreateReportMarkdown(cfg.Source, result.Summaries, result.Assessment, artifacts[6])
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return artifacts, nil
}

// latestValuesByCell picks each cell's value at the most recent date,
// missing when that observation is missing.
func latestValuesByCell(observations []observation.Observation) map[string]*float64 {
	var latest time.Time
	for _, obs := range observations {
		if obs.Date.After(latest) {
			latest = obs.Date.Time
		}
	}

	values := make(map[string]*float64)
	for _, obs := range observations {
		if obs.Date.Equal(latest) {
			values[obs.CellID] = obs.Value
		}
	}
	return values
}
