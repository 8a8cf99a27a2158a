package sleep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightpulse/nightpulse/internal/health"
)

// fakeProvider is a canned health.Provider for analyzer and readiness tests.
type fakeProvider struct {
	segments []health.Segment
	samples  []health.HeartRateSample
	steps    int
	workouts bool

	stepCalls    int
	workoutCalls int
}

func (f *fakeProvider) FetchSleepSegments(_ context.Context, start, end time.Time) []health.Segment {
	var out []health.Segment
	for _, s := range f.segments {
		if s.End.Before(start) || s.Start.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (f *fakeProvider) FetchHeartRateSamples(_ context.Context, start, end time.Time) []health.HeartRateSample {
	var out []health.HeartRateSample
	for _, s := range f.samples {
		if s.Time.Before(start) || s.Time.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (f *fakeProvider) StepCountSince(context.Context, time.Time) int {
	f.stepCalls++
	return f.steps
}

func (f *fakeProvider) HasWorkoutsSince(context.Context, time.Time) bool {
	f.workoutCalls++
	return f.workouts
}

// night builds a typical two-segment night ending at 06:30 local on forDate.
func night(forDate time.Time) []health.Segment {
	end := time.Date(forDate.Year(), forDate.Month(), forDate.Day(), 6, 30, 0, 0, forDate.Location())
	return []health.Segment{
		{Start: end.Add(-7 * time.Hour), End: end.Add(-2 * time.Hour), Phase: health.PhaseCore},
		{Start: end.Add(-90 * time.Minute), End: end, Phase: health.PhaseREM},
	}
}

func samplesOver(segments []health.Segment, bpm int, step time.Duration) []health.HeartRateSample {
	var out []health.HeartRateSample
	for _, seg := range segments {
		for ts := seg.Start; !ts.After(seg.End); ts = ts.Add(step) {
			out = append(out, health.HeartRateSample{Time: ts, BPM: bpm})
		}
	}
	return out
}

func TestAnalyze_NoSegments(t *testing.T) {
	forDate := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Nil(t, Analyze(context.Background(), &fakeProvider{}, forDate))
}

func TestAnalyze_NoSamplesInWindow(t *testing.T) {
	forDate := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	p := &fakeProvider{segments: night(forDate)}
	assert.Nil(t, Analyze(context.Background(), p, forDate))
}

func TestAnalyze_FullNight(t *testing.T) {
	forDate := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	segments := night(forDate)
	p := &fakeProvider{
		segments: segments,
		samples:  samplesOver(segments, 60, 10*time.Minute),
	}

	data := Analyze(context.Background(), p, forDate)
	require.NotNil(t, data)

	assert.Equal(t, segments[0].Start, data.SleepStart)
	assert.Equal(t, segments[1].End, data.SleepEnd)
	// Total duration sums segment elapsed time, not end minus start: the
	// 30-minute wake gap between segments is excluded.
	assert.Equal(t, 6*time.Hour+30*time.Minute, data.Duration)
	assert.Equal(t, 60, data.Stats.Average)
	assert.Equal(t, 5*time.Hour, data.Phases[health.PhaseCore].Duration)
	assert.Equal(t, 90*time.Minute, data.Phases[health.PhaseREM].Duration)
	assert.Equal(t, time.Duration(0), data.Phases[health.PhaseDeep].Duration)
	assert.NotEmpty(t, data.Points)
}

func TestAnalyze_DropsSamplesOutsideSegments(t *testing.T) {
	forDate := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	segments := night(forDate)

	// One sample inside the wake gap between segments, one inside a segment.
	gap := segments[0].End.Add(15 * time.Minute)
	inside := segments[0].Start.Add(time.Hour)
	p := &fakeProvider{
		segments: segments,
		samples: []health.HeartRateSample{
			{Time: gap, BPM: 90},
			{Time: inside, BPM: 58},
		},
	}

	data := Analyze(context.Background(), p, forDate)
	require.NotNil(t, data)
	require.Len(t, data.Points, 1)
	assert.Equal(t, 58, data.Points[0].HR)
}

func TestAnalyze_BoundarySampleBelongsToEarlierSegment(t *testing.T) {
	// A sample exactly at the first segment's end (and the second's start)
	// takes the earlier segment's phase.
	forDate := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	segments := []health.Segment{
		{Start: end.Add(-4 * time.Hour), End: end.Add(-2 * time.Hour), Phase: health.PhaseDeep},
		{Start: end.Add(-2 * time.Hour), End: end, Phase: health.PhaseREM},
	}
	p := &fakeProvider{
		segments: segments,
		samples:  []health.HeartRateSample{{Time: end.Add(-2 * time.Hour), BPM: 55}},
	}

	data := Analyze(context.Background(), p, forDate)
	require.NotNil(t, data)
	require.Len(t, data.Points, 1)
	assert.Equal(t, health.PhaseDeep, data.Points[0].Phase)
}

func TestNewDay_NoData(t *testing.T) {
	forDate := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day := NewDay(context.Background(), &fakeProvider{}, forDate)

	assert.Equal(t, "2025-03-10", day.Date)
	assert.False(t, day.HasData)
	assert.Nil(t, day.Data)
	assert.NotNil(t, day.Sends)
	assert.False(t, day.SleepFinished)
}

func TestNewDay_WithData(t *testing.T) {
	forDate := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	segments := night(forDate)
	p := &fakeProvider{segments: segments, samples: samplesOver(segments, 62, 10*time.Minute)}

	day := NewDay(context.Background(), p, forDate)
	assert.True(t, day.HasData)
	require.NotNil(t, day.Data)
	assert.Empty(t, day.Sends)
}

func TestSleepWindow(t *testing.T) {
	forDate := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	start, end := health.SleepWindow(forDate)
	// Month rollover: the window starts the previous calendar day.
	assert.Equal(t, time.Date(2025, 2, 28, 21, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), end)
}
