package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
)

// SnapshotKey is the settings key holding the exported task list blob.
const SnapshotKey = "tasks.snapshot"

// SnapshotTask is one record of the exported task list. The blob is an
// ordered JSON array of these records.
type SnapshotTask struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Position    [3]float64 `json:"position"`
	IsCompleted bool       `json:"isCompleted"`
}

// Setting reads a settings value by key.
func (s *Store) Setting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// SetSetting writes a settings value, replacing any previous value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// SaveSnapshot serializes the current task list into the snapshot blob.
func (s *Store) SaveSnapshot() error {
	tasks, err := s.Tasks().List()
	if err != nil {
		return err
	}

	records := make([]SnapshotTask, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, SnapshotTask{
			ID:          t.ID,
			Text:        t.Text,
			Position:    [3]float64{t.X, t.Y, t.Z},
			IsCompleted: t.IsCompleted,
		})
	}

	blob, err := json.Marshal(records)
	if err != nil {
		return err
	}

	return s.SetSetting(SnapshotKey, string(blob))
}

// LoadSnapshot reads the snapshot blob back into task records. A
// missing or malformed blob yields an empty list, never an error: a
// corrupt snapshot must not take the session down.
func (s *Store) LoadSnapshot() []SnapshotTask {
	blob, err := s.Setting(SnapshotKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("read snapshot: %v", err)
		}
		return []SnapshotTask{}
	}

	var records []SnapshotTask
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		log.Printf("malformed snapshot, starting empty: %v", err)
		return []SnapshotTask{}
	}
	if records == nil {
		return []SnapshotTask{}
	}

	return records
}

// ImportSnapshot replaces the stored tasks with the given records,
// preserving their order.
func (s *Store) ImportSnapshot(records []SnapshotTask) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return err
	}

	for i, rec := range records {
		// Spread created_at so List() keeps the snapshot order
		_, err := tx.Exec(
			`INSERT INTO tasks (id, text, x, y, z, is_completed, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, datetime('now', ? || ' seconds'), CURRENT_TIMESTAMP)`,
			rec.ID, rec.Text, rec.Position[0], rec.Position[1], rec.Position[2],
			rec.IsCompleted, i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
