package health

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Export file names inside the export directory.
const (
	sleepFile     = "sleep.json"
	heartRateFile = "heart_rate.json"
	stepsFile     = "steps.json"
	workoutsFile  = "workouts.json"
)

// ExportProvider reads health data from a directory of exported JSON files.
// A phone-side companion (or the bundled import script) drops fresh exports
// into the directory; this provider treats the files as an immutable sample
// source. Missing or malformed files degrade to empty results.
type ExportProvider struct {
	dir string
	log *zap.SugaredLogger
}

// NewExportProvider creates a provider reading from the given directory.
func NewExportProvider(dir string, log *zap.SugaredLogger) *ExportProvider {
	return &ExportProvider{dir: dir, log: log}
}

// rawSegment is the on-disk shape of one sleep interval. Stages outside the
// recognized set are not sleep and are dropped; "unspecified" counts as core.
type rawSegment struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Stage string    `json:"stage"`
}

type rawSteps struct {
	Time  time.Time `json:"time"`
	Count int       `json:"count"`
}

type rawWorkout struct {
	Start time.Time `json:"start"`
}

// FetchSleepSegments implements Provider.
func (p *ExportProvider) FetchSleepSegments(_ context.Context, start, end time.Time) []Segment {
	var raw []rawSegment
	if !p.readJSON(sleepFile, &raw) {
		return nil
	}

	var segments []Segment
	for _, r := range raw {
		phase, ok := stageToPhase(r.Stage)
		if !ok {
			continue
		}
		if r.End.Before(start) || r.Start.After(end) {
			continue
		}
		segments = append(segments, Segment{Start: r.Start, End: r.End, Phase: phase})
	}
	return segments
}

// FetchHeartRateSamples implements Provider.
func (p *ExportProvider) FetchHeartRateSamples(_ context.Context, start, end time.Time) []HeartRateSample {
	var raw []HeartRateSample
	if !p.readJSON(heartRateFile, &raw) {
		return nil
	}

	var samples []HeartRateSample
	for _, r := range raw {
		if r.Time.Before(start) || r.Time.After(end) {
			continue
		}
		samples = append(samples, r)
	}
	return samples
}

// StepCountSince implements Provider.
func (p *ExportProvider) StepCountSince(_ context.Context, since time.Time) int {
	var raw []rawSteps
	if !p.readJSON(stepsFile, &raw) {
		return 0
	}

	total := 0
	for _, r := range raw {
		if r.Time.Before(since) {
			continue
		}
		total += r.Count
	}
	return total
}

// HasWorkoutsSince implements Provider.
func (p *ExportProvider) HasWorkoutsSince(_ context.Context, since time.Time) bool {
	var raw []rawWorkout
	if !p.readJSON(workoutsFile, &raw) {
		return false
	}

	for _, r := range raw {
		if !r.Start.Before(since) {
			return true
		}
	}
	return false
}

// readJSON loads and decodes one export file. Missing files are normal
// (nothing exported yet); decode failures are logged and treated as empty.
func (p *ExportProvider) readJSON(name string, v any) bool {
	data, err := os.ReadFile(filepath.Join(p.dir, name))
	if err != nil {
		if !os.IsNotExist(err) && p.log != nil {
			p.log.Warnw("reading health export", "file", name, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		if p.log != nil {
			p.log.Warnw("malformed health export", "file", name, "error", err)
		}
		return false
	}
	return true
}

func stageToPhase(stage string) (Phase, bool) {
	switch stage {
	case "core", "unspecified":
		return PhaseCore, true
	case "deep":
		return PhaseDeep, true
	case "rem":
		return PhaseREM, true
	default:
		return "", false
	}
}
