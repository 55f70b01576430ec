package db

import (
	"database/sql"
	"time"
)

// Settings operations

func (d *DB) GetSetting(key string) (string, error) {
	var value string
	err := d.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (d *DB) SetSetting(key, value string) error {
	_, err := d.conn.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (d *DB) ListSettings() (map[string]string, error) {
	rows, err := d.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// Usage counter operations

// IncrementCounter bumps the persistent usage counter for name.
func (d *DB) IncrementCounter(name string) error {
	_, err := d.conn.Exec(`
		INSERT INTO usage_counters (name, count, updated_at) VALUES (?, 1, ?)
		ON CONFLICT(name) DO UPDATE SET count = count + 1, updated_at = excluded.updated_at`,
		name, time.Now())
	return err
}

func (d *DB) Counters() (map[string]int64, error) {
	rows, err := d.conn.Query("SELECT name, count FROM usage_counters")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[string]int64)
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		counters[name] = count
	}
	return counters, rows.Err()
}

// Pending event operations

// Event is one telemetry event queued for the next flush.
type Event struct {
	ID        string
	Name      string
	Payload   string
	CreatedAt time.Time
}

func (d *DB) EnqueueEvent(e Event) error {
	_, err := d.conn.Exec(
		"INSERT INTO pending_events (id, name, payload, created_at) VALUES (?, ?, ?, ?)",
		e.ID, e.Name, e.Payload, e.CreatedAt)
	return err
}

func (d *DB) PendingEvents() ([]Event, error) {
	rows, err := d.conn.Query(
		"SELECT id, name, payload, created_at FROM pending_events ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteEvents removes flushed events from the queue.
func (d *DB) DeleteEvents(ids []string) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.Exec("DELETE FROM pending_events WHERE id = ?", id); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
