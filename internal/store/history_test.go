package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightpulse/nightpulse/internal/health"
	"github.com/nightpulse/nightpulse/internal/sleep"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleDay(date string) sleep.Day {
	start := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	return sleep.Day{
		Date:    date,
		HasData: true,
		Data: &sleep.Data{
			SleepStart: start,
			SleepEnd:   start.Add(7 * time.Hour),
			Duration:   7 * time.Hour,
			Stats:      sleep.Stats{Average: 58, Min: 49, Max: 72, MinTime: start.Add(3 * time.Hour), MaxTime: start.Add(time.Hour)},
			Phases: map[health.Phase]sleep.PhaseStats{
				health.PhaseCore: {Duration: 4 * time.Hour, AvgHR: 58},
				health.PhaseDeep: {Duration: 2 * time.Hour, AvgHR: 52},
				health.PhaseREM:  {Duration: time.Hour, AvgHR: 63},
			},
			Points: []sleep.Point{{Time: start.Add(time.Hour), HR: 72, Phase: health.PhaseCore}},
		},
		Sends: map[sleep.Channel]sleep.SendRecord{},
	}
}

func TestSaveAndGetSleepDay_RoundTrip(t *testing.T) {
	db := openTestDB(t)

	day := sampleDay("2025-03-10")
	require.NoError(t, db.SaveSleepDay(day))

	got, err := db.GetSleepDay("2025-03-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, day.Date, got.Date)
	assert.True(t, got.HasData)
	require.NotNil(t, got.Data)
	assert.Equal(t, day.Data.Stats, got.Data.Stats)
	assert.Equal(t, day.Data.Phases, got.Data.Phases)
}

func TestGetSleepDay_Missing(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetSleepDay("2025-03-10")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveSleepDay_Overwrite(t *testing.T) {
	db := openTestDB(t)

	day := sampleDay("2025-03-10")
	require.NoError(t, db.SaveSleepDay(day))

	day.SleepFinished = true
	day.Sends[sleep.ChannelEmail] = sleep.SendRecord{Status: sleep.StatusSuccess, At: time.Now().UTC()}
	require.NoError(t, db.SaveSleepDay(day))

	got, err := db.GetSleepDay("2025-03-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.SleepFinished)
	assert.Equal(t, sleep.StatusSuccess, got.Sends[sleep.ChannelEmail].Status)
}

func TestGetHistory_NewestFirstAndCapped(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 35; i++ {
		day := sleep.Day{Date: base.AddDate(0, 0, i).Format(sleep.DateFormat)}
		require.NoError(t, db.SaveSleepDay(day))
	}

	history, err := db.GetHistory()
	require.NoError(t, err)
	require.Len(t, history, 30)
	assert.Equal(t, "2025-02-04", history[0].Date)
	assert.Equal(t, "2025-01-06", history[len(history)-1].Date)
}

func TestUpdateSendStatus(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveSleepDay(sampleDay("2025-03-10")))
	require.NoError(t, db.UpdateSendStatus("2025-03-10", sleep.ChannelTelegram, sleep.StatusFailed))

	got, err := db.GetSleepDay("2025-03-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sleep.StatusFailed, got.Sends[sleep.ChannelTelegram].Status)
	assert.False(t, got.Sends[sleep.ChannelTelegram].At.IsZero())

	// Missing day is a silent no-op.
	assert.NoError(t, db.UpdateSendStatus("1999-01-01", sleep.ChannelEmail, sleep.StatusSuccess))
}

func TestScan_MalformedDataDegrades(t *testing.T) {
	db := openTestDB(t)

	_, err := db.conn.Exec(
		`INSERT INTO sleep_days (date, has_data, sleep_finished, data, sends, updated_at)
		 VALUES (?, 1, 0, ?, ?, ?)`,
		"2025-03-10", "{corrupt", "also corrupt", time.Now().UTC().Format(time.RFC3339),
	)
	require.NoError(t, err)

	got, err := db.GetSleepDay("2025-03-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.HasData)
	assert.Nil(t, got.Data)
	assert.NotNil(t, got.Sends)
	assert.Empty(t, got.Sends)
}

func TestGetHistory_ManyDaysStable(t *testing.T) {
	db := openTestDB(t)
	for i := 1; i <= 9; i++ {
		require.NoError(t, db.SaveSleepDay(sampleDay(fmt.Sprintf("2025-03-0%d", i))))
	}
	history, err := db.GetHistory()
	require.NoError(t, err)
	require.Len(t, history, 9)
	assert.Equal(t, "2025-03-09", history[0].Date)
}
