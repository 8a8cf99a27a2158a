// Package channel implements the delivery channels a finished sleep report
// can be sent to. Each sender owns its transport; the orchestrator only sees
// a boolean outcome per attempt.
package channel

import (
	"context"

	"github.com/nightpulse/nightpulse/internal/config"
	"github.com/nightpulse/nightpulse/internal/sleep"
)

// Settings is the per-cycle snapshot of channel configuration. Senders never
// re-read config mid-send.
type Settings struct {
	UserName string
	Channels config.Channels
}

// ChartGenerator produces and disposes of report chart images. Implemented
// by chart.Renderer; faked in tests.
type ChartGenerator interface {
	Generate(day sleep.Day) (string, error)
	Remove(path string)
}

// Sender delivers one day's report over a single channel.
//
// Send returns a plain success flag: the transports expose no retryable
// error classification, so any failure is uniform and the caller decides
// whether to queue a retry. Implementations must not panic or block past
// ctx and must clean up any chart image they generate, win or lose.
type Sender interface {
	Channel() sleep.Channel
	Enabled(s Settings) bool
	Send(ctx context.Context, day sleep.Day, s Settings) bool
}
