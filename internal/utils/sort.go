package utils

import (
	"sort"
	"time"
)

// SortDates sorts dates in place, ascending when asc is true.
func SortDates(dates []time.Time, asc bool) []time.Time {
	sort.Slice(dates, func(i, j int) bool {
		if asc {
			return dates[i].Before(dates[j])
		}
		return dates[i].After(dates[j])
	})
	return dates
}

// GetSortedKeys returns the date keys of m sorted by SortDates.
func GetSortedKeys[T any](m map[time.Time]T, asc bool) []time.Time {
	keys := make([]time.Time, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	return SortDates(keys, asc)
}
