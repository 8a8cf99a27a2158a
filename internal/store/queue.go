package store

import (
	"database/sql"
	"time"

	"github.com/nightpulse/nightpulse/internal/sleep"
)

// QueueItem is one failed (date, channel) delivery awaiting retry.
// At most one item exists per pair.
type QueueItem struct {
	Date        string
	Channel     sleep.Channel
	Attempts    int
	LastAttempt time.Time
	CreatedAt   time.Time
}

// Enqueue adds a retry item for (date, channel). Idempotent: an existing
// item for the pair is left untouched, attempt count included.
func (db *DB) Enqueue(date string, channel sleep.Channel) error {
	_, err := db.conn.Exec(
		`INSERT INTO queue_items (date, channel, attempts, created_at)
		 VALUES (?, ?, 0, ?)
		 ON CONFLICT(date, channel) DO NOTHING`,
		date, string(channel), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Dequeue removes the item for (date, channel) if present. Idempotent.
func (db *DB) Dequeue(date string, channel sleep.Channel) error {
	_, err := db.conn.Exec(
		"DELETE FROM queue_items WHERE date = ? AND channel = ?",
		date, string(channel),
	)
	return err
}

// RecordAttempt increments the attempt counter and stamps the last attempt
// time. A missing item is a no-op and performs no write.
func (db *DB) RecordAttempt(date string, channel sleep.Channel) error {
	_, err := db.conn.Exec(
		`UPDATE queue_items SET attempts = attempts + 1, last_attempt = ?
		 WHERE date = ? AND channel = ?`,
		time.Now().UTC().Format(time.RFC3339), date, string(channel),
	)
	return err
}

// EvictOlderThan removes items whose report date is older than the cutoff.
func (db *DB) EvictOlderThan(cutoff time.Time) error {
	_, err := db.conn.Exec(
		"DELETE FROM queue_items WHERE date < ?",
		cutoff.Format(sleep.DateFormat),
	)
	return err
}

// OldestPending returns up to limit items ordered by ascending report date,
// so the longest-undelivered report is retried first. A non-positive limit
// returns everything.
func (db *DB) OldestPending(limit int) ([]QueueItem, error) {
	if limit <= 0 {
		limit = -1 // sqlite treats a negative LIMIT as unbounded
	}
	rows, err := db.conn.Query(
		`SELECT date, channel, attempts, last_attempt, created_at
		 FROM queue_items ORDER BY date ASC, channel ASC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanQueueItems(rows)
}

// PendingForDate returns all items queued for the exact date.
func (db *DB) PendingForDate(date string) ([]QueueItem, error) {
	rows, err := db.conn.Query(
		`SELECT date, channel, attempts, last_attempt, created_at
		 FROM queue_items WHERE date = ?`, date,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanQueueItems(rows)
}

func scanQueueItems(rows *sql.Rows) ([]QueueItem, error) {
	var items []QueueItem
	for rows.Next() {
		var item QueueItem
		var channel string
		var lastAttempt sql.NullString
		var createdAt string

		if err := rows.Scan(&item.Date, &channel, &item.Attempts, &lastAttempt, &createdAt); err != nil {
			return nil, err
		}
		item.Channel = sleep.Channel(channel)
		if lastAttempt.Valid {
			item.LastAttempt, _ = time.Parse(time.RFC3339, lastAttempt.String)
		}
		item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

// Attempts returns the stored attempt count for (date, channel), or -1 when
// no item exists.
func (db *DB) Attempts(date string, channel sleep.Channel) (int, error) {
	row := db.conn.QueryRow(
		"SELECT attempts FROM queue_items WHERE date = ? AND channel = ?",
		date, string(channel),
	)
	var attempts int
	err := row.Scan(&attempts)
	if err == sql.ErrNoRows {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return attempts, nil
}
