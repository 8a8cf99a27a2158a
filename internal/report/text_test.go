package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nightpulse/nightpulse/internal/health"
	"github.com/nightpulse/nightpulse/internal/sleep"
)

func reportDay() sleep.Day {
	start := time.Date(2025, 3, 9, 23, 15, 0, 0, time.UTC)
	return sleep.Day{
		Date:    "2025-03-10",
		HasData: true,
		Data: &sleep.Data{
			SleepStart: start,
			SleepEnd:   start.Add(7*time.Hour + 15*time.Minute),
			Duration:   7 * time.Hour,
			Stats: sleep.Stats{
				Average: 58,
				Min:     49, MinTime: start.Add(3 * time.Hour),
				Max: 74, MaxTime: start.Add(30 * time.Minute),
			},
			Phases: map[health.Phase]sleep.PhaseStats{
				health.PhaseCore: {Duration: 4 * time.Hour, AvgHR: 58},
				health.PhaseDeep: {Duration: 2 * time.Hour, AvgHR: 52},
				health.PhaseREM:  {Duration: time.Hour, AvgHR: 63},
			},
			Points: []sleep.Point{
				{Time: start, HR: 58, Phase: health.PhaseCore},
				{Time: start.Add(time.Minute), HR: 160, Phase: health.PhaseCore, Outlier: true},
			},
		},
		Sends: map[sleep.Channel]sleep.SendRecord{},
	}
}

func TestGenerate_Plain(t *testing.T) {
	text := Generate(reportDay(), FormatPlain, Options{UserName: "Alex"})

	assert.True(t, strings.HasPrefix(text, "Alex - Sleep Heart Rate Report"))
	assert.Contains(t, text, "Average HR: 58 bpm")
	assert.Contains(t, text, "Minimum: 49 bpm (at 02:15)")
	assert.Contains(t, text, "Duration: 7h 0m")
	// Phases from lightest to deepest.
	rem := strings.Index(text, "REM:")
	core := strings.Index(text, "Core:")
	deep := strings.Index(text, "Deep:")
	assert.True(t, rem < core && core < deep)
	assert.NotContains(t, text, "Measurements")
}

func TestGenerate_PlainWithMetadata(t *testing.T) {
	text := Generate(reportDay(), FormatPlain, Options{IncludeMetadata: true})
	assert.Contains(t, text, "Measurements: 2")
	assert.Contains(t, text, "Outliers excluded: 1")
}

func TestGenerate_PlainNoData(t *testing.T) {
	day := sleep.Day{Date: "2025-03-10"}
	text := Generate(day, FormatPlain, Options{})
	assert.Contains(t, text, "No sleep data recorded for this date.")
}

func TestGenerate_OmitsZeroDurationPhases(t *testing.T) {
	day := reportDay()
	day.Data.Phases[health.PhaseDeep] = sleep.PhaseStats{}
	text := Generate(day, FormatPlain, Options{})
	assert.NotContains(t, text, "Deep:")
}

func TestGenerate_Telegram(t *testing.T) {
	text := Generate(reportDay(), FormatTelegram, Options{})
	assert.Contains(t, text, "<b>Sleep Heart Rate Report</b>")
	assert.Contains(t, text, "Average HR: <b>58</b> bpm")
	assert.Contains(t, text, "Duration: <b>7h 0m</b>")
}

func TestGenerate_TelegramNoData(t *testing.T) {
	text := Generate(sleep.Day{Date: "2025-03-10"}, FormatTelegram, Options{})
	assert.Contains(t, text, "No sleep data recorded")
}

func TestGenerate_EmailHTML(t *testing.T) {
	text := Generate(reportDay(), FormatEmailHTML, Options{UserName: "Alex", IncludeMetadata: true})
	assert.Contains(t, text, "<h2>Alex - Sleep Heart Rate Report</h2>")
	assert.Contains(t, text, "<li><strong>Average:</strong> 58 bpm</li>")
	assert.Contains(t, text, "Outliers excluded: 1")
}

func TestEmailSubject(t *testing.T) {
	day := sleep.Day{Date: "2025-03-10"}
	assert.Equal(t, "Night Pulse - Mon, Mar 10", EmailSubject(day, ""))
	assert.Equal(t, "Alex - Night Pulse - Mon, Mar 10", EmailSubject(day, "Alex"))
}

func TestDisplayDate_Malformed(t *testing.T) {
	assert.Equal(t, "not-a-date", DisplayDate("not-a-date"))
}
