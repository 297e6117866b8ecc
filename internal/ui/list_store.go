package ui

import (
	"fmt"

	"github.com/verdant-watch/ndvi-monitor-poc/internal/store"
)

// ListRegions prints the distinct regions of a store's grid
func ListRegions() {
	st, err := store.Open(ReadStringDefault("Enter the store path", DefaultStorePath()))
	if err != nil {
		PrintError(err.Error())
		return
	}

	regions, err := st.Regions()
	if err != nil {
		PrintError(err.Error())
		return
	}

	if len(regions) == 0 {
		PrintWarning("The grid has no region properties.")
		return
	}

	fmt.Printf("%s\nAvailable regions:%s\n", ColorGreen, ColorReset)
	for _, region := range regions {
		fmt.Printf("%s- %s%s\n", ColorGreen, region, ColorReset)
	}
}

// ListVariables prints the wide tables available in a store
func ListVariables() {
	st, err := store.Open(ReadStringDefault("Enter the store path", DefaultStorePath()))
	if err != nil {
		PrintError(err.Error())
		return
	}

	variables, err := st.ListVariables()
	if err != nil {
		PrintError(err.Error())
		return
	}

	if len(variables) == 0 {
		PrintWarning("The store has no wide tables yet. Ingest rasters first.")
		return
	}

	fmt.Printf("%s\nTracked variables:%s\n", ColorGreen, ColorReset)
	for _, variable := range variables {
		fmt.Printf("%s- %s%s\n", ColorGreen, variable, ColorReset)
	}
}
