package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/observation"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/properties"
	"github.com/verdant-watch/ndvi-monitor-poc/internal/summary"
)

func summariesWithMeans(means []*float64) []summary.PeriodSummary {
	summaries := make([]summary.PeriodSummary, 0, len(means))
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, mean := range means {
		summaries = append(summaries, summary.PeriodSummary{
			Date: observation.NewDate(start.AddDate(0, i, 0)),
			Mean: mean,
		})
	}
	return summaries
}

func value(v float64) *float64 {
	return &v
}

func assess(t *testing.T, means []*float64) *Assessment {
	t.Helper()
	assessment, err := Assess(
		summariesWithMeans(means), len(means)*2, 2,
		properties.DefaultImprovementThreshold, properties.DefaultDeclineThreshold,
	)
	require.NoError(t, err)
	return assessment
}

func TestAssess_Improvement(t *testing.T) {
	assessment := assess(t, []*float64{value(10), value(20), value(15), value(70)})

	require.NotNil(t, assessment.Baseline)
	assert.Equal(t, 10.0, *assessment.Baseline)
	require.NotNil(t, assessment.Latest)
	assert.Equal(t, 70.0, *assessment.Latest)
	require.NotNil(t, assessment.TotalChange)
	assert.Equal(t, 60.0, *assessment.TotalChange)
	// (10 + (-5) + 55) / 3
	require.NotNil(t, assessment.MeanChangePerPeriod)
	assert.InDelta(t, 20.0, *assessment.MeanChangePerPeriod, 1e-9)
	assert.Equal(t, ClassificationImprovement, assessment.Classification)
}

func TestAssess_Decline(t *testing.T) {
	assessment := assess(t, []*float64{value(100), value(20)})

	require.NotNil(t, assessment.TotalChange)
	assert.Equal(t, -80.0, *assessment.TotalChange)
	assert.Equal(t, ClassificationDecline, assessment.Classification)
}

func TestAssess_SmallChangeIsStable(t *testing.T) {
	assessment := assess(t, []*float64{value(10), value(40)})

	require.NotNil(t, assessment.TotalChange)
	assert.Equal(t, 30.0, *assessment.TotalChange)
	assert.Equal(t, ClassificationStable, assessment.Classification)
}

func TestAssess_SingleRecord(t *testing.T) {
	assessment := assess(t, []*float64{value(12)})

	require.NotNil(t, assessment.TotalChange)
	assert.Equal(t, 0.0, *assessment.TotalChange)
	// No differences to average
	assert.Nil(t, assessment.MeanChangePerPeriod)
	assert.Equal(t, ClassificationStable, assessment.Classification)
}

func TestAssess_EmptySequence(t *testing.T) {
	_, err := Assess(nil, 0, 0, properties.DefaultImprovementThreshold, properties.DefaultDeclineThreshold)
	var insufficient InsufficientDataError
	assert.ErrorAs(t, err, &insufficient)
}

func TestAssess_UnavailableBaselinePropagates(t *testing.T) {
	assessment := assess(t, []*float64{nil, value(30), value(90)})

	assert.Nil(t, assessment.Baseline)
	require.NotNil(t, assessment.Latest)
	assert.Equal(t, 90.0, *assessment.Latest)
	assert.Nil(t, assessment.TotalChange)
	assert.Equal(t, ClassificationStable, assessment.Classification)
	// Only the 30→90 difference is usable
	require.NotNil(t, assessment.MeanChangePerPeriod)
	assert.Equal(t, 60.0, *assessment.MeanChangePerPeriod)
}

func TestAssess_SkipsDifferencesWithUnavailableOperand(t *testing.T) {
	assessment := assess(t, []*float64{value(10), nil, value(40)})

	require.NotNil(t, assessment.TotalChange)
	assert.Equal(t, 30.0, *assessment.TotalChange)
	// Both successive differences touch the missing middle period
	assert.Nil(t, assessment.MeanChangePerPeriod)
}

func TestAssess_CustomThresholds(t *testing.T) {
	assessment, err := Assess(summariesWithMeans([]*float64{value(0), value(30)}), 4, 2, 25, -25)
	require.NoError(t, err)
	assert.Equal(t, ClassificationImprovement, assessment.Classification)
}

func TestAssess_CarriesPeriodAndCounts(t *testing.T) {
	assessment := assess(t, []*float64{value(1), value(2)})

	assert.Equal(t, "2020-01-01", assessment.PeriodStart.Format(observation.DateLayout))
	assert.Equal(t, "2020-02-01", assessment.PeriodEnd.Format(observation.DateLayout))
	assert.Equal(t, 4, assessment.TotalObservations)
	assert.Equal(t, 2, assessment.CellCount)
}
