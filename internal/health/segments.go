package health

import (
	"sort"
	"time"
)

// SleepWindow returns the data-collection window for a night: 21:00 local
// time on the day before forDate through 12:00 on forDate. Month and year
// rollover follow normal calendar arithmetic.
func SleepWindow(forDate time.Time) (start, end time.Time) {
	y, m, d := forDate.Date()
	end = time.Date(y, m, d, 12, 0, 0, 0, forDate.Location())
	prev := forDate.AddDate(0, 0, -1)
	py, pm, pd := prev.Date()
	start = time.Date(py, pm, pd, 21, 0, 0, 0, forDate.Location())
	return start, end
}

// Boundaries returns the earliest segment start and the latest segment end.
// ok is false when segments is empty.
func Boundaries(segments []Segment) (sleepStart, sleepEnd time.Time, ok bool) {
	if len(segments) == 0 {
		return time.Time{}, time.Time{}, false
	}

	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	sleepStart = sorted[0].Start
	sleepEnd = sorted[0].End
	for _, s := range sorted[1:] {
		if s.End.After(sleepEnd) {
			sleepEnd = s.End
		}
	}
	return sleepStart, sleepEnd, true
}

// TotalDuration sums the elapsed time of all segments. Gaps between
// segments (brief wake periods) are not counted, so this can be shorter
// than sleepEnd minus sleepStart.
func TotalDuration(segments []Segment) time.Duration {
	var total time.Duration
	for _, s := range segments {
		total += s.Duration()
	}
	return total
}

// PhaseAt returns the phase of the first segment, in ascending start order,
// whose interval contains t (inclusive on both ends). A sample exactly on a
// shared boundary therefore belongs to the earlier segment.
func PhaseAt(t time.Time, segments []Segment) (Phase, bool) {
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	for _, s := range sorted {
		if !t.Before(s.Start) && !t.After(s.End) {
			return s.Phase, true
		}
	}
	return "", false
}
