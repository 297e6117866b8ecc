package trend

import (
	"github.com/verdant-watch/ndvi-monitor-poc/internal/observation"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/summary"
)

// InsufficientDataError reports an assessment attempted on an empty
// summary sequence.
type InsufficientDataError struct{}

func (InsufficientDataError) Error() string {
	return "no period summaries available to assess trend"
}

const (
	ClassificationImprovement = "improvement"
	ClassificationDecline     = "decline"
	ClassificationStable      = "stable"
)

// Assessment is the single trend record of a report run. Nil fields
// mean the underlying means were unavailable; they propagate instead
// of being substituted with zero.
type Assessment struct {
	PeriodStart         observation.Date `csv:"period_start"`
	PeriodEnd           observation.Date `csv:"period_end"`
	TotalObservations   int              `csv:"total_observations"`
	CellCount           int              `csv:"cell_count"`
	Baseline            *float64         `csv:"baseline"`
	Latest              *float64         `csv:"latest"`
	TotalChange         *float64         `csv:"total_change"`
	MeanChangePerPeriod *float64         `csv:"mean_change_per_period"`
	Classification      string           `csv:"classification"`
}

// Assess derives the trend of a date-ascending summary sequence.
// The baseline is the first period's mean and the latest the last
// period's; the mean change per period averages the first differences
// of the mean sequence, skipping differences with an unavailable
// operand. Classification compares the total change against the given
// thresholds; an unavailable total change classifies as stable.
func Assess(summaries []summary.PeriodSummary, totalObservations, cellCount int, improvement, decline float64) (*Assessment, error) {
	if len(summaries) == 0 {
		return nil, InsufficientDataError{}
	}

	first := summaries[0]
	last := summaries[len(summaries)-1]

	assessment := &Assessment{
		PeriodStart:       first.Date,
		PeriodEnd:         last.Date,
		TotalObservations: totalObservations,
		CellCount:         cellCount,
		Baseline:          first.Mean,
		Latest:            last.Mean,
		Classification:    ClassificationStable,
	}

	if assessment.Baseline != nil && assessment.Latest != nil {
		change := *assessment.Latest - *assessment.Baseline
		assessment.TotalChange = &change
		switch {
		case change > improvement:
			assessment.Classification = ClassificationImprovement
		case change < decline:
			assessment.Classification = ClassificationDecline
		}
	}

	diffSum, diffCount := 0.0, 0
	for i := 1; i < len(summaries); i++ {
		previous := summaries[i-1].Mean
		current := summaries[i].Mean
		if previous == nil || current == nil {
			continue
		}
		diffSum += *current - *previous
		diffCount++
	}
	if diffCount > 0 {
		meanChange := diffSum / float64(diffCount)
		assessment.MeanChangePerPeriod = &meanChange
	}

	return assessment, nil
}
