// Package deliver runs the scan/send/retry cycle: it walks a rolling window
// of recent nights, analyzes each, decides when tonight's data is final, and
// delivers the report to the enabled channels with durable retry on failure.
package deliver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nightpulse/nightpulse/internal/channel"
	"github.com/nightpulse/nightpulse/internal/config"
	"github.com/nightpulse/nightpulse/internal/health"
	"github.com/nightpulse/nightpulse/internal/notify"
	"github.com/nightpulse/nightpulse/internal/sleep"
	"github.com/nightpulse/nightpulse/internal/store"
)

const (
	// retryBatch caps how many queue items one cycle may attempt.
	retryBatch = 10
	// queueMaxAge is how long a failed delivery stays retryable.
	queueMaxAge = 7 * 24 * time.Hour
)

// Orchestrator owns one delivery cycle. It is safe to abandon a cycle at any
// point and re-run it: every write is idempotent and send decisions are
// derived from persisted state.
type Orchestrator struct {
	provider health.Provider
	db       *store.DB
	senders  []channel.Sender
	settings func() channel.Settings
	notifier notify.Notifier
	clock    func() time.Time
	scanDays int
	hours    config.Hours
	log      *zap.SugaredLogger
}

// New wires an orchestrator. The settings func is called once per cycle so a
// config edit between cycles takes effect without racing a running scan.
func New(
	provider health.Provider,
	db *store.DB,
	senders []channel.Sender,
	settings func() channel.Settings,
	notifier notify.Notifier,
	clock func() time.Time,
	scanDays int,
	hours config.Hours,
	log *zap.SugaredLogger,
) *Orchestrator {
	if clock == nil {
		clock = time.Now
	}
	return &Orchestrator{
		provider: provider,
		db:       db,
		senders:  senders,
		settings: settings,
		notifier: notifier,
		clock:    clock,
		scanDays: scanDays,
		hours:    hours,
		log:      log,
	}
}

// RunCycle executes one full scan/send/retry cycle. Outside the active-hours
// window the cycle is a no-op unless force is set (startup scans are always
// allowed). Errors never escape the cycle: a failure on one date, channel, or
// queue item is logged and the rest of the cycle proceeds.
func (o *Orchestrator) RunCycle(ctx context.Context, force bool) {
	now := o.clock()
	hour := now.Hour()
	if !force && (hour < o.hours.Start || hour > o.hours.End) {
		o.log.Debugw("outside active hours, skipping cycle", "hour", hour)
		return
	}

	settings := o.settings()

	if err := o.db.EvictOlderThan(now.Add(-queueMaxAge)); err != nil {
		o.log.Warnw("queue eviction failed", "error", err)
	}

	o.scan(ctx, now, settings, true)
	o.processQueue(ctx, settings)

	if hour == o.hours.End {
		o.notifyPendingFailures(now)
	}
}

// scan walks today plus the preceding scanDays-1 dates. A date whose record
// is already marked finished is settled and skipped; past dates are assumed
// complete, today is judged by the readiness heuristic. The send decision
// fires only on the unfinished-to-finished transition for today, which keeps
// automatic sends to at most one per date.
// ScanOnly analyzes and persists the recent-night window without sending
// anything or touching the retry queue.
func (o *Orchestrator) ScanOnly(ctx context.Context) {
	o.scan(ctx, o.clock(), o.settings(), false)
}

func (o *Orchestrator) scan(ctx context.Context, now time.Time, settings channel.Settings, allowSend bool) {
	for daysAgo := 0; daysAgo < o.scanDays; daysAgo++ {
		date := now.AddDate(0, 0, -daysAgo)
		key := sleep.DateKey(date)

		prior, err := o.db.GetSleepDay(key)
		if err != nil {
			o.log.Warnw("history read failed", "date", key, "error", err)
			prior = nil
		}
		if prior != nil && prior.SleepFinished {
			continue
		}

		start, end := health.SleepWindow(date)
		segments := o.provider.FetchSleepSegments(ctx, start, end)
		if len(segments) == 0 {
			continue
		}

		isFinished := daysAgo > 0 || sleep.ReadyToSend(ctx, o.provider, segments, now)
		if !allowSend && daysAgo == 0 {
			// A scan-only pass must not settle today: marking it finished
			// here would consume the transition the next real cycle sends on.
			isFinished = false
		}

		day := sleep.NewDay(ctx, o.provider, date)
		day.SleepFinished = isFinished
		if prior != nil {
			// Re-analysis must never lose send history.
			for ch, rec := range prior.Sends {
				day.Sends[ch] = rec
			}
		}

		if err := o.db.SaveSleepDay(day); err != nil {
			o.log.Warnw("history write failed", "date", key, "error", err)
			continue
		}

		wasFinished := prior != nil && prior.SleepFinished
		if allowSend && daysAgo == 0 && isFinished && !wasFinished && day.HasData {
			o.sendToChannels(ctx, day, settings)
		}
	}
}

// sendToChannels attempts delivery on every enabled channel, records the
// outcome per channel, and queues failures for retry.
func (o *Orchestrator) sendToChannels(ctx context.Context, day sleep.Day, settings channel.Settings) {
	for _, s := range o.senders {
		if !s.Enabled(settings) {
			continue
		}
		ch := s.Channel()
		ok := s.Send(ctx, day, settings)

		status := sleep.StatusFailed
		if ok {
			status = sleep.StatusSuccess
		}
		if err := o.db.UpdateSendStatus(day.Date, ch, status); err != nil {
			o.log.Warnw("send status write failed", "date", day.Date, "channel", ch, "error", err)
		}
		if !ok {
			o.log.Warnw("delivery failed, queued for retry", "date", day.Date, "channel", ch)
			if err := o.db.Enqueue(day.Date, ch); err != nil {
				o.log.Warnw("enqueue failed", "date", day.Date, "channel", ch, "error", err)
			}
		} else {
			o.log.Infow("report delivered", "date", day.Date, "channel", ch)
		}
	}
}

// processQueue retries up to retryBatch of the oldest pending failures, in
// ascending date order so no failure waits indefinitely behind newer ones.
// Items whose day is gone or empty are dropped; items for currently disabled
// channels stay queued untouched.
func (o *Orchestrator) processQueue(ctx context.Context, settings channel.Settings) {
	items, err := o.db.OldestPending(retryBatch)
	if err != nil {
		o.log.Warnw("queue read failed", "error", err)
		return
	}

	for _, item := range items {
		day, err := o.db.GetSleepDay(item.Date)
		if err != nil {
			o.log.Warnw("history read failed", "date", item.Date, "error", err)
			continue
		}
		if day == nil || !day.HasData {
			// Nothing left to deliver for this date.
			if err := o.db.Dequeue(item.Date, item.Channel); err != nil {
				o.log.Warnw("dequeue failed", "date", item.Date, "error", err)
			}
			continue
		}

		s := o.senderFor(item.Channel)
		if s == nil || !s.Enabled(settings) {
			continue
		}

		if s.Send(ctx, *day, settings) {
			if err := o.db.UpdateSendStatus(item.Date, item.Channel, sleep.StatusSuccess); err != nil {
				o.log.Warnw("send status write failed", "date", item.Date, "error", err)
			}
			if err := o.db.Dequeue(item.Date, item.Channel); err != nil {
				o.log.Warnw("dequeue failed", "date", item.Date, "error", err)
			}
			o.log.Infow("retry delivered", "date", item.Date, "channel", item.Channel, "attempts", item.Attempts)
		} else {
			if err := o.db.RecordAttempt(item.Date, item.Channel); err != nil {
				o.log.Warnw("attempt record failed", "date", item.Date, "error", err)
			}
		}
	}
}

// notifyPendingFailures raises a single desktop notification when today's
// report still has undelivered channels at the end of the active window.
func (o *Orchestrator) notifyPendingFailures(now time.Time) {
	today := sleep.DateKey(now)
	items, err := o.db.PendingForDate(today)
	if err != nil {
		o.log.Warnw("queue read failed", "error", err)
		return
	}
	if len(items) == 0 {
		return
	}
	msg := fmt.Sprintf("Tonight's sleep report could not be delivered on %d channel(s). It will be retried automatically.", len(items))
	if err := o.notifier.Notify("Delivery failed", msg); err != nil {
		o.log.Warnw("notification failed", "error", err)
	}
}

// RemindManualShare raises a reminder when today's report has data but has
// not been shared through the manual channel yet. Called on the configured
// daily reminder schedule.
func (o *Orchestrator) RemindManualShare(ctx context.Context) {
	today := sleep.DateKey(o.clock())
	day, err := o.db.GetSleepDay(today)
	if err != nil {
		o.log.Warnw("history read failed", "date", today, "error", err)
		return
	}
	if day == nil || !day.HasData {
		return
	}
	if rec, ok := day.Sends[sleep.ChannelManual]; ok && rec.Status == sleep.StatusShared {
		return
	}
	if err := o.notifier.Notify("Sleep report ready", "Last night's report is ready to share."); err != nil {
		o.log.Warnw("notification failed", "error", err)
	}
}

func (o *Orchestrator) senderFor(ch sleep.Channel) channel.Sender {
	for _, s := range o.senders {
		if s.Channel() == ch {
			return s
		}
	}
	return nil
}
