package health

import (
	"context"
	"time"
)

// Provider is the health-data collaborator consumed by the analysis and
// delivery pipeline. All methods treat upstream failures as absent data:
// implementations return empty slices, zero, or false instead of surfacing
// transient errors, so one bad read never aborts a delivery cycle.
type Provider interface {
	// FetchSleepSegments returns sleep segments overlapping [start, end],
	// already filtered to real sleep phases.
	FetchSleepSegments(ctx context.Context, start, end time.Time) []Segment

	// FetchHeartRateSamples returns heart-rate samples within [start, end]
	// in ascending time order.
	FetchHeartRateSamples(ctx context.Context, start, end time.Time) []HeartRateSample

	// StepCountSince returns the cumulative step count since the given time.
	StepCountSince(ctx context.Context, since time.Time) int

	// HasWorkoutsSince reports whether any workout started at or after the
	// given time.
	HasWorkoutsSince(ctx context.Context, since time.Time) bool
}
