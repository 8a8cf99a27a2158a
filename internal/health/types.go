// Package health defines the contract with the health-data source and a
// provider implementation that reads exported health data from local JSON
// files. The rest of the system only sees time-stamped sleep segments,
// heart-rate samples, step counts, and workout markers.
package health

import "time"

// Phase is a sleep stage classification carried by a segment.
type Phase string

const (
	PhaseCore Phase = "core"
	PhaseDeep Phase = "deep"
	PhaseREM  Phase = "rem"
)

// Phases lists all stages in aggregation order.
var Phases = []Phase{PhaseCore, PhaseDeep, PhaseREM}

// Segment is a continuous interval of recorded sleep labeled with one phase.
// Providers return only real sleep phases; in-bed and awake intervals are
// filtered out before segments reach the core.
type Segment struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Phase Phase     `json:"phase"`
}

// Duration returns the elapsed time covered by the segment.
func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// HeartRateSample is a single heart-rate measurement in beats per minute.
type HeartRateSample struct {
	Time time.Time `json:"time"`
	BPM  int       `json:"bpm"`
}
