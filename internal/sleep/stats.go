package sleep

import (
	"fmt"
	"math"
	"time"

	"github.com/nightpulse/nightpulse/internal/health"
)

// Average returns the mean of values rounded half-up to the nearest
// integer, or 0 for empty input.
func Average(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

// CalculateStats computes aggregate heart-rate statistics over the
// outlier-filtered points. Returns nil when nothing survives filtering,
// including the all-outliers case. Min/max ties keep the first occurrence
// in input order.
func CalculateStats(points []Point) *Stats {
	valid := FilterOutliers(points)
	if len(valid) == 0 {
		return nil
	}

	values := make([]int, len(valid))
	for i, p := range valid {
		values[i] = p.HR
	}

	stats := Stats{
		Average: Average(values),
		Min:     valid[0].HR,
		MinTime: valid[0].Time,
		Max:     valid[0].HR,
		MaxTime: valid[0].Time,
	}
	for _, p := range valid[1:] {
		if p.HR < stats.Min {
			stats.Min = p.HR
			stats.MinTime = p.Time
		}
		if p.HR > stats.Max {
			stats.Max = p.HR
			stats.MaxTime = p.Time
		}
	}
	return &stats
}

// CalculatePhaseAverages groups outlier-filtered points by phase and returns
// the average heart rate per phase. A phase with no points averages 0.
// Durations are computed from segments, not from point sampling; see
// CalculatePhaseDurations.
func CalculatePhaseAverages(points []Point) map[health.Phase]int {
	byPhase := make(map[health.Phase][]int)
	for _, p := range FilterOutliers(points) {
		byPhase[p.Phase] = append(byPhase[p.Phase], p.HR)
	}

	averages := make(map[health.Phase]int, len(health.Phases))
	for _, phase := range health.Phases {
		averages[phase] = Average(byPhase[phase])
	}
	return averages
}

// CalculatePhaseDurations sums segment elapsed time per phase. Multiple
// segments of the same phase accumulate, regardless of gaps between them.
func CalculatePhaseDurations(segments []health.Segment) map[health.Phase]time.Duration {
	durations := make(map[health.Phase]time.Duration, len(health.Phases))
	for _, phase := range health.Phases {
		durations[phase] = 0
	}
	for _, s := range segments {
		if _, ok := durations[s.Phase]; ok {
			durations[s.Phase] += s.Duration()
		}
	}
	return durations
}

// FormatDuration renders a duration as "Xh Ym" when at least an hour,
// otherwise "Ym".
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatClock renders a timestamp as HH:MM in its own location.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
