package summary

import (
	"math"
	"sort"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/observation"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/utils"
)

// PeriodSummary holds the statistics of one date across all cells.
// Nil statistic fields mean the period had no valid observations;
// they are never reported as zero.
type PeriodSummary struct {
	Date       observation.Date `csv:"date"`
	Mean       *float64         `csv:"mean"`
	Median     *float64         `csv:"median"`
	Min        *float64         `csv:"min"`
	Max        *float64         `csv:"max"`
	StdDev     *float64         `csv:"stddev"`
	ValidCount int              `csv:"valid_count"`
}

const aggregationWorkers = 8

// Aggregate groups observations by date and computes per-date summary
// statistics, ignoring missing values. Dates are independent of each
// other, so each group is summarized on its own worker, writing
// straight into its slot of the date-ordered result.
func Aggregate(observations []observation.Observation) []PeriodSummary {
	grouped := make(map[time.Time][]*float64)
	for _, obs := range observations {
		grouped[obs.Date.Time] = append(grouped[obs.Date.Time], obs.Value)
	}

	dates := utils.GetSortedKeys(grouped, true)
	summaries := make([]PeriodSummary, len(dates))

	wp := workerpool.New(aggregationWorkers)
	for i, date := range dates {
		i, date := i, date
		wp.Submit(func() {
			summaries[i] = summarizePeriod(date, grouped[date])
		})
	}
	wp.StopWait()

	return summaries
}

func summarizePeriod(date time.Time, values []*float64) PeriodSummary {
	valid := make([]float64, 0, len(values))
	for _, value := range values {
		if value != nil {
			valid = append(valid, *value)
		}
	}

	periodSummary := PeriodSummary{
		Date:       observation.NewDate(date),
		ValidCount: len(valid),
	}
	if len(valid) == 0 {
		return periodSummary
	}

	minValue, maxValue := valid[0], valid[0]
	for _, value := range valid[1:] {
		if value < minValue {
			minValue = value
		}
		if value > maxValue {
			maxValue = value
		}
	}

	periodSummary.Mean = ptr(mean(valid))
	periodSummary.Median = ptr(median(valid))
	periodSummary.Min = ptr(minValue)
	periodSummary.Max = ptr(maxValue)
	periodSummary.StdDev = ptr(stdDev(valid))
	return periodSummary
}

func mean(data []float64) float64 {
	sum := 0.0
	for _, value := range data {
		sum += value
	}
	return sum / float64(len(data))
}

func median(data []float64) float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stdDev is the population standard deviation.
func stdDev(data []float64) float64 {
	meanValue := mean(data)
	var variance float64
	for _, value := range data {
		variance += math.Pow(value-meanValue, 2)
	}
	return math.Sqrt(variance / float64(len(data)))
}

func ptr(value float64) *float64 {
	return &value
}
