// Package sleep turns raw health-data segments and heart-rate samples into
// cleaned nightly statistics: IQR outlier marking, per-phase aggregation,
// and the readiness heuristic that decides when a night's data is final.
package sleep

import (
	"time"

	"github.com/nightpulse/nightpulse/internal/health"
)

// Channel identifies a delivery target for a day's report.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
	ChannelManual   Channel = "manual"
)

// SendStatus is the outcome recorded against a channel for a given day.
type SendStatus string

const (
	StatusSuccess SendStatus = "success"
	StatusFailed  SendStatus = "failed"
	StatusPending SendStatus = "pending"
	StatusShared  SendStatus = "shared"
)

// Point is a single heart-rate measurement tagged with its sleep phase and
// outlier flag. Immutable once stored as part of a Data record.
type Point struct {
	Time    time.Time    `json:"time"`
	HR      int          `json:"hr"`
	Phase   health.Phase `json:"phase"`
	Outlier bool         `json:"outlier,omitempty"`
}

// Stats holds aggregate heart-rate statistics over the outlier-filtered
// points of one night. Min and max carry the timestamp of their first
// occurrence in input order.
type Stats struct {
	Average int       `json:"average"`
	Min     int       `json:"min"`
	MinTime time.Time `json:"min_time"`
	Max     int       `json:"max"`
	MaxTime time.Time `json:"max_time"`
}

// PhaseStats holds the duration and average heart rate for one phase.
// Duration comes from segment boundaries, average HR from filtered points.
type PhaseStats struct {
	Duration time.Duration `json:"duration"`
	AvgHR    int           `json:"avg_hr"`
}

// Data is the complete processed result for one night.
type Data struct {
	SleepStart time.Time                    `json:"sleep_start"`
	SleepEnd   time.Time                    `json:"sleep_end"`
	Duration   time.Duration                `json:"duration"`
	Stats      Stats                        `json:"stats"`
	Phases     map[health.Phase]PhaseStats  `json:"phases"`
	Points     []Point                      `json:"points"`
}

// SendRecord is the persisted outcome of the latest send attempt on a channel.
type SendRecord struct {
	Status SendStatus `json:"status"`
	At     time.Time  `json:"at"`
}

// Day is the unit of persistence: one calendar date's analysis result plus
// per-channel send statuses. Keys of Sends are Channel values. The
// SleepFinished flag is monotonic; once true it gates re-sending for the date.
type Day struct {
	Date          string                 `json:"date"` // YYYY-MM-DD
	HasData       bool                   `json:"has_data"`
	Data          *Data                  `json:"data,omitempty"`
	Sends         map[Channel]SendRecord `json:"sends"`
	SleepFinished bool                   `json:"sleep_finished"`
}

// DateFormat is the canonical day key layout.
const DateFormat = "2006-01-02"

// DateKey returns the canonical YYYY-MM-DD key for a time.
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}
