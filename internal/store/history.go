package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/nightpulse/nightpulse/internal/sleep"
)

// maxHistoryDays caps how many days are retained; the oldest rows beyond
// the cap are dropped on every save.
const maxHistoryDays = 30

// SaveSleepDay inserts or replaces the record for a date and trims history
// to the retention cap.
func (db *DB) SaveSleepDay(day sleep.Day) error {
	var dataJSON sql.NullString
	if day.Data != nil {
		b, err := json.Marshal(day.Data)
		if err != nil {
			return err
		}
		dataJSON = sql.NullString{String: string(b), Valid: true}
	}

	sends := day.Sends
	if sends == nil {
		sends = make(map[sleep.Channel]sleep.SendRecord)
	}
	sendsJSON, err := json.Marshal(sends)
	if err != nil {
		return err
	}

	_, err = db.conn.Exec(
		`INSERT INTO sleep_days (date, has_data, sleep_finished, data, sends, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			has_data = excluded.has_data,
			sleep_finished = excluded.sleep_finished,
			data = excluded.data,
			sends = excluded.sends,
			updated_at = excluded.updated_at`,
		day.Date, day.HasData, day.SleepFinished, dataJSON, string(sendsJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	_, err = db.conn.Exec(
		`DELETE FROM sleep_days WHERE date NOT IN (
			SELECT date FROM sleep_days ORDER BY date DESC LIMIT ?
		)`, maxHistoryDays,
	)
	return err
}

// GetSleepDay returns the record for a date, or nil if none is stored.
func (db *DB) GetSleepDay(date string) (*sleep.Day, error) {
	row := db.conn.QueryRow(
		"SELECT date, has_data, sleep_finished, data, sends FROM sleep_days WHERE date = ?",
		date,
	)
	day, err := scanSleepDay(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return day, nil
}

// GetHistory returns all stored days, newest first.
func (db *DB) GetHistory() ([]sleep.Day, error) {
	rows, err := db.conn.Query(
		"SELECT date, has_data, sleep_finished, data, sends FROM sleep_days ORDER BY date DESC",
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var history []sleep.Day
	for rows.Next() {
		day, err := scanSleepDay(rows.Scan)
		if err != nil {
			return nil, err
		}
		history = append(history, *day)
	}
	return history, rows.Err()
}

// UpdateSendStatus records the outcome of a send attempt on the stored day.
// Missing days are a no-op.
func (db *DB) UpdateSendStatus(date string, channel sleep.Channel, status sleep.SendStatus) error {
	day, err := db.GetSleepDay(date)
	if err != nil || day == nil {
		return err
	}

	if day.Sends == nil {
		day.Sends = make(map[sleep.Channel]sleep.SendRecord)
	}
	day.Sends[channel] = sleep.SendRecord{Status: status, At: time.Now().UTC()}
	return db.SaveSleepDay(*day)
}

// scanSleepDay decodes one sleep_days row. Malformed JSON blobs degrade to
// defaults instead of failing the read.
func scanSleepDay(scan func(dest ...any) error) (*sleep.Day, error) {
	var day sleep.Day
	var dataJSON sql.NullString
	var sendsJSON string

	if err := scan(&day.Date, &day.HasData, &day.SleepFinished, &dataJSON, &sendsJSON); err != nil {
		return nil, err
	}

	if dataJSON.Valid {
		var data sleep.Data
		if err := json.Unmarshal([]byte(dataJSON.String), &data); err == nil {
			day.Data = &data
		} else {
			day.HasData = false
		}
	}

	day.Sends = make(map[sleep.Channel]sleep.SendRecord)
	_ = json.Unmarshal([]byte(sendsJSON), &day.Sends)

	return &day, nil
}
