package sleep

import (
	"context"
	"time"

	"github.com/nightpulse/nightpulse/internal/health"
)

// Thresholds for the readiness heuristic.
const (
	// readyElapsed is how long after sleep end a night counts as over
	// regardless of other signals.
	readyElapsed = time.Hour

	// readyStepThreshold is the step count since sleep end that signals
	// the wearer is up for the day.
	readyStepThreshold = 100
)

// ReadyToSend decides whether a night's data is final and will not change
// further. True when any of: more than an hour has passed since sleep end,
// 100+ steps were recorded since sleep end, or a workout started after
// sleep end. The free time check runs first so the provider is only
// consulted when needed; the conditions are a plain OR either way.
func ReadyToSend(ctx context.Context, provider health.Provider, segments []health.Segment, now time.Time) bool {
	if len(segments) == 0 {
		return false
	}

	_, sleepEnd, ok := health.Boundaries(segments)
	if !ok {
		return false
	}

	if now.Sub(sleepEnd) > readyElapsed {
		return true
	}

	if provider.StepCountSince(ctx, sleepEnd) >= readyStepThreshold {
		return true
	}

	return provider.HasWorkoutsSince(ctx, sleepEnd)
}
