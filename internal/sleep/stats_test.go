package sleep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightpulse/nightpulse/internal/health"
)

func TestAverage(t *testing.T) {
	assert.Equal(t, 0, Average(nil))
	assert.Equal(t, 42, Average([]int{42}))
	assert.Equal(t, 61, Average([]int{60, 61})) // 60.5 rounds half-up
	assert.Equal(t, 60, Average([]int{58, 60, 62}))
}

func TestCalculateStats_EmptyAndAllOutliers(t *testing.T) {
	assert.Nil(t, CalculateStats(nil))

	all := makePoints(60, 62, 64)
	for i := range all {
		all[i].Outlier = true
	}
	assert.Nil(t, CalculateStats(all))
}

func TestCalculateStats_MinMaxWithTimestamps(t *testing.T) {
	points := makePoints(60, 55, 70, 55, 70)
	stats := CalculateStats(points)
	require.NotNil(t, stats)

	assert.Equal(t, 62, stats.Average) // mean 62.0
	assert.Equal(t, 55, stats.Min)
	assert.Equal(t, 70, stats.Max)
	// Ties keep the first occurrence.
	assert.Equal(t, points[1].Time, stats.MinTime)
	assert.Equal(t, points[2].Time, stats.MaxTime)
	assert.LessOrEqual(t, stats.Min, stats.Average)
	assert.LessOrEqual(t, stats.Average, stats.Max)
}

func TestCalculateStats_ExcludesOutliers(t *testing.T) {
	points := MarkOutliers(makePoints(58, 60, 61, 62, 63, 64, 180))
	stats := CalculateStats(points)
	require.NotNil(t, stats)
	assert.Equal(t, 64, stats.Max)
}

func TestCalculatePhaseAverages(t *testing.T) {
	base := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	points := []Point{
		{Time: base, HR: 60, Phase: health.PhaseCore},
		{Time: base.Add(time.Minute), HR: 62, Phase: health.PhaseCore},
		{Time: base.Add(2 * time.Minute), HR: 50, Phase: health.PhaseDeep},
		{Time: base.Add(3 * time.Minute), HR: 120, Phase: health.PhaseDeep, Outlier: true},
	}

	averages := CalculatePhaseAverages(points)
	assert.Equal(t, 61, averages[health.PhaseCore])
	assert.Equal(t, 50, averages[health.PhaseDeep]) // outlier excluded
	assert.Equal(t, 0, averages[health.PhaseREM])   // no points
}

func TestCalculatePhaseDurations_AccumulatesAcrossGaps(t *testing.T) {
	base := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	segments := []health.Segment{
		{Start: base, End: base.Add(time.Hour), Phase: health.PhaseCore},
		{Start: base.Add(time.Hour), End: base.Add(90 * time.Minute), Phase: health.PhaseDeep},
		{Start: base.Add(2 * time.Hour), End: base.Add(3 * time.Hour), Phase: health.PhaseCore},
	}

	durations := CalculatePhaseDurations(segments)
	assert.Equal(t, 2*time.Hour, durations[health.PhaseCore])
	assert.Equal(t, 30*time.Minute, durations[health.PhaseDeep])
	assert.Equal(t, time.Duration(0), durations[health.PhaseREM])
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(0))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "1h 0m", FormatDuration(time.Hour))
	assert.Equal(t, "1h 30m", FormatDuration(90*time.Minute))
	assert.Equal(t, "7h 42m", FormatDuration(7*time.Hour+42*time.Minute))
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2025, 3, 10, 6, 5, 0, 0, time.UTC)
	assert.Equal(t, "06:05", FormatClock(ts))
}
