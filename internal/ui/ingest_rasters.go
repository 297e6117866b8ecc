package ui

import (
	"fmt"
	"time"

	"github.com/verdant-watch/ndvi-monitor-poc/internal/ingest"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/properties"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/store"
)

// IngestRasters handles the UI for sampling per-date rasters into a
// wide table
func IngestRasters() {
	PrintWarning("- Rasters must live in the store's 'rasters' folder, named '<variable>_YYYY-MM-DD.tif'.\n- The resulting wide table overwrites any existing one for the same variable and frequency.")

	path := ReadStringDefault("Enter the store path", DefaultStorePath())
	source := ReadStringDefault("Enter the variable to ingest", "ndvi")
	frequency := ReadStringDefault("Enter the reporting frequency", "monthly")

	resol, err := ReadPositiveFloat("Enter the spatial resolution in meters", 250)
	if err != nil {
		PrintError(err.Error())
		return
	}

	cfg, err := properties.NewConfig(path, nil, source, time.Time{}, resol)
	if err != nil {
		PrintError(err.Error())
		return
	}

	st, err := store.Open(cfg.Path)
	if err != nil {
		PrintError(err.Error())
		return
	}

	cells, err := st.Grid()
	if err != nil {
		PrintError(err.Error())
		return
	}

	table, err := ingest.IngestRasters(cfg, cells)
	if err != nil {
		PrintError(err.Error())
		return
	}

	filePath, err := st.WriteWideTable(table, frequency)
	if err != nil {
		PrintError(err.Error())
		return
	}

	PrintSuccess(fmt.Sprintf("Ingested %d dates for %d cells into %s", len(table.Columns)-1, len(table.Rows), filePath))
}
