package sleep

import (
	"context"
	"time"

	"github.com/nightpulse/nightpulse/internal/health"
)

// Analyze builds the processed sleep record for one night. It fetches the
// night's segments and heart-rate samples from the provider, maps each
// sample to its enclosing segment's phase, marks outliers over the whole
// set, and aggregates statistics. Returns nil when the night has no
// segments, no samples inside the sleep window, or no valid points after
// outlier filtering.
func Analyze(ctx context.Context, provider health.Provider, forDate time.Time) *Data {
	windowStart, windowEnd := health.SleepWindow(forDate)

	segments := provider.FetchSleepSegments(ctx, windowStart, windowEnd)
	if len(segments) == 0 {
		return nil
	}

	sleepStart, sleepEnd, ok := health.Boundaries(segments)
	if !ok {
		return nil
	}

	samples := provider.FetchHeartRateSamples(ctx, sleepStart, sleepEnd)

	// Samples outside every recognized sleep segment are dropped.
	var points []Point
	for _, sample := range samples {
		phase, ok := health.PhaseAt(sample.Time, segments)
		if !ok {
			continue
		}
		points = append(points, Point{
			Time:  sample.Time,
			HR:    sample.BPM,
			Phase: phase,
		})
	}
	if len(points) == 0 {
		return nil
	}

	marked := MarkOutliers(points)

	stats := CalculateStats(marked)
	if stats == nil {
		return nil
	}

	phaseAverages := CalculatePhaseAverages(marked)
	phaseDurations := CalculatePhaseDurations(segments)

	phases := make(map[health.Phase]PhaseStats, len(health.Phases))
	for _, phase := range health.Phases {
		phases[phase] = PhaseStats{
			Duration: phaseDurations[phase],
			AvgHR:    phaseAverages[phase],
		}
	}

	return &Data{
		SleepStart: sleepStart,
		SleepEnd:   sleepEnd,
		// Gaps between segments are excluded from the total, so this can be
		// shorter than sleepEnd-sleepStart.
		Duration: health.TotalDuration(segments),
		Stats:    *stats,
		Phases:   phases,
		Points:   marked,
	}
}

// NewDay wraps Analyze into a persistable Day record. It never fails: an
// absent or unanalyzable night yields a Day with HasData=false.
func NewDay(ctx context.Context, provider health.Provider, forDate time.Time) Day {
	data := Analyze(ctx, provider, forDate)
	return Day{
		Date:    DateKey(forDate),
		HasData: data != nil,
		Data:    data,
		Sends:   make(map[Channel]SendRecord),
	}
}
