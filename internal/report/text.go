// Package report renders a day's sleep analysis into the text formats the
// delivery channels expect.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/nightpulse/nightpulse/internal/health"
	"github.com/nightpulse/nightpulse/internal/sleep"
)

// Format selects the output flavor.
type Format string

const (
	// FormatPlain is plain text for email bodies and manual share.
	FormatPlain Format = "plain"
	// FormatTelegram is HTML for the Telegram Bot API caption.
	FormatTelegram Format = "telegram"
	// FormatEmailHTML is full HTML for email bodies.
	FormatEmailHTML Format = "email-html"
)

// Options tweak the rendered report.
type Options struct {
	// UserName identifies whose data this is; prefixed to the title.
	UserName string
	// IncludeMetadata appends measurement and excluded-outlier counts.
	IncludeMetadata bool
}

// Generate renders the report for a day in the requested format.
func Generate(day sleep.Day, format Format, opts Options) string {
	switch format {
	case FormatTelegram:
		return telegramReport(day, opts.UserName)
	case FormatEmailHTML:
		return emailHTMLReport(day, opts)
	default:
		return plainReport(day, opts)
	}
}

// EmailSubject builds the subject line for an emailed report.
func EmailSubject(day sleep.Day, userName string) string {
	dateStr := DisplayDate(day.Date)
	if userName != "" {
		return fmt.Sprintf("%s - Night Pulse - %s", userName, dateStr)
	}
	return fmt.Sprintf("Night Pulse - %s", dateStr)
}

// DisplayDate renders a YYYY-MM-DD key as e.g. "Mon, Mar 10".
func DisplayDate(date string) string {
	t, err := time.Parse(sleep.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 2")
}

func title(userName string) string {
	if userName != "" {
		return userName + " - Sleep Heart Rate Report"
	}
	return "Sleep Heart Rate Report"
}

// phaseOrder lists phases from lightest to deepest for report display.
var phaseOrder = []struct {
	phase health.Phase
	label string
}{
	{health.PhaseREM, "REM"},
	{health.PhaseCore, "Core"},
	{health.PhaseDeep, "Deep"},
}

func plainReport(day sleep.Day, opts Options) string {
	heading := title(opts.UserName)
	dateStr := DisplayDate(day.Date)

	if !day.HasData || day.Data == nil {
		return fmt.Sprintf("%s\n%s\n\nNo sleep data recorded for this date.", heading, dateStr)
	}

	d := day.Data
	lines := []string{
		heading,
		dateStr,
		"",
		"Summary",
		fmt.Sprintf("Average HR: %d bpm", d.Stats.Average),
		fmt.Sprintf("Minimum: %d bpm (at %s)", d.Stats.Min, sleep.FormatClock(d.Stats.MinTime)),
		fmt.Sprintf("Maximum: %d bpm (at %s)", d.Stats.Max, sleep.FormatClock(d.Stats.MaxTime)),
		"",
		fmt.Sprintf("Sleep: %s → %s", sleep.FormatClock(d.SleepStart), sleep.FormatClock(d.SleepEnd)),
		fmt.Sprintf("Duration: %s", sleep.FormatDuration(d.Duration)),
		"",
		"Sleep Phases",
	}

	for _, entry := range phaseOrder {
		ps := d.Phases[entry.phase]
		if ps.Duration > 0 {
			lines = append(lines, fmt.Sprintf("%s: %s (avg %d bpm)", entry.label, sleep.FormatDuration(ps.Duration), ps.AvgHR))
		}
	}

	if opts.IncludeMetadata {
		counts := sleep.CountOutliers(d.Points)
		lines = append(lines, "",
			fmt.Sprintf("Measurements: %d", counts.Total),
			fmt.Sprintf("Outliers excluded: %d", counts.Outliers),
		)
	}

	return strings.Join(lines, "\n")
}

func telegramReport(day sleep.Day, userName string) string {
	heading := title(userName)
	dateStr := DisplayDate(day.Date)

	if !day.HasData || day.Data == nil {
		return fmt.Sprintf("<b>%s</b>\n<i>%s</i>\n\n<b>Summary</b>\nNo sleep data recorded", heading, dateStr)
	}

	d := day.Data
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n<i>%s</i>\n\n", heading, dateStr)
	sb.WriteString("<b>Summary</b>\n")
	fmt.Fprintf(&sb, "Average HR: <b>%d</b> bpm\n", d.Stats.Average)
	fmt.Fprintf(&sb, "Minimum: <b>%d</b> bpm (at %s)\n", d.Stats.Min, sleep.FormatClock(d.Stats.MinTime))
	fmt.Fprintf(&sb, "Maximum: <b>%d</b> bpm (at %s)\n", d.Stats.Max, sleep.FormatClock(d.Stats.MaxTime))
	fmt.Fprintf(&sb, "Duration: <b>%s</b>\n\n", sleep.FormatDuration(d.Duration))

	sb.WriteString("<b>Sleep Phases</b>\n")
	for _, entry := range phaseOrder {
		ps := d.Phases[entry.phase]
		if ps.Duration > 0 {
			fmt.Fprintf(&sb, "%s: %s (avg %d bpm)\n", entry.label, sleep.FormatDuration(ps.Duration), ps.AvgHR)
		}
	}

	return sb.String()
}

func emailHTMLReport(day sleep.Day, opts Options) string {
	heading := title(opts.UserName)
	dateStr := DisplayDate(day.Date)

	if !day.HasData || day.Data == nil {
		return fmt.Sprintf("<h2>%s</h2>\n<p>Date: %s</p>\n<p>No sleep data recorded for this date.</p>", heading, dateStr)
	}

	d := day.Data
	var sb strings.Builder
	fmt.Fprintf(&sb, "<h2>%s</h2>\n", heading)
	fmt.Fprintf(&sb, "<p><strong>Date:</strong> %s</p>\n", dateStr)

	sb.WriteString("<h3>Statistics</h3>\n<ul>\n")
	fmt.Fprintf(&sb, "<li><strong>Average:</strong> %d bpm</li>\n", d.Stats.Average)
	fmt.Fprintf(&sb, "<li><strong>Minimum:</strong> %d bpm (at %s)</li>\n", d.Stats.Min, sleep.FormatClock(d.Stats.MinTime))
	fmt.Fprintf(&sb, "<li><strong>Maximum:</strong> %d bpm (at %s)</li>\n", d.Stats.Max, sleep.FormatClock(d.Stats.MaxTime))
	sb.WriteString("</ul>\n")

	fmt.Fprintf(&sb, "<h3>Sleep Window</h3>\n<p>%s → %s (%s)</p>\n",
		sleep.FormatClock(d.SleepStart), sleep.FormatClock(d.SleepEnd), sleep.FormatDuration(d.Duration))

	sb.WriteString("<h3>Sleep Phases</h3>\n<ul>\n")
	for _, entry := range phaseOrder {
		ps := d.Phases[entry.phase]
		if ps.Duration > 0 {
			fmt.Fprintf(&sb, "<li><strong>%s:</strong> %s (avg %d bpm)</li>\n", entry.label, sleep.FormatDuration(ps.Duration), ps.AvgHR)
		}
	}
	sb.WriteString("</ul>\n")

	if opts.IncludeMetadata {
		counts := sleep.CountOutliers(d.Points)
		fmt.Fprintf(&sb, "<p><em>Measurements: %d | Outliers excluded: %d</em></p>\n", counts.Total, counts.Outliers)
	}

	return sb.String()
}
