// Package chart renders a night's heart-rate series into a PNG image for
// attachment to outgoing reports. Images are written to a scratch directory
// and deleted by the caller once the send attempt is over.
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/nightpulse/nightpulse/internal/sleep"
)

// Renderer generates report chart images in a scratch directory.
type Renderer struct {
	dir string
	log *zap.SugaredLogger
}

// NewRenderer creates a Renderer writing into dir.
func NewRenderer(dir string, log *zap.SugaredLogger) *Renderer {
	return &Renderer{dir: dir, log: log}
}

// Generate renders the heart-rate chart for a day and returns the PNG path.
// Returns an error when the day has no data or rendering fails; no partial
// file is left behind on failure.
func (r *Renderer) Generate(day sleep.Day) (string, error) {
	if !day.HasData || day.Data == nil {
		return "", fmt.Errorf("no sleep data for %s", day.Date)
	}

	valid := sleep.FilterOutliers(day.Data.Points)
	if len(valid) < 2 {
		return "", fmt.Errorf("not enough points to chart for %s", day.Date)
	}

	series := gochart.TimeSeries{
		Name: "Heart rate",
		Style: gochart.Style{
			StrokeColor: drawing.ColorFromHex("ef5350"),
			StrokeWidth: 2.0,
		},
	}
	for _, p := range valid {
		series.XValues = append(series.XValues, p.Time)
		series.YValues = append(series.YValues, float64(p.HR))
	}

	graph := gochart.Chart{
		Title:  fmt.Sprintf("Sleep heart rate %s", day.Date),
		Width:  900,
		Height: 420,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeHourValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name: "bpm",
		},
		Series: []gochart.Series{series},
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(r.dir, fmt.Sprintf("sleep_report_%s.png", day.Date))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := graph.Render(gochart.PNG, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}

	return path, nil
}

// Remove deletes a generated chart file. A file that is already gone is fine.
func (r *Renderer) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) && r.log != nil {
		r.log.Warnw("removing chart image", "path", path, "error", err)
	}
}
