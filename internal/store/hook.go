package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Hook represents an event-to-plugin binding stored in the database.
// When the named task lifecycle event fires, the plugin action runs.
type Hook struct {
	ID         string
	Event      string
	PluginName string
	ActionName string
	Config     json.RawMessage
	Enabled    bool
	CreatedAt  time.Time
}

// HookRepository provides CRUD operations for hooks.
type HookRepository struct {
	db *sql.DB
}

// Hooks returns the hook repository for this store.
func (s *Store) Hooks() *HookRepository {
	return &HookRepository{db: s.db}
}

// Create inserts a new hook into the database.
func (r *HookRepository) Create(h *Hook) error {
	h.CreatedAt = time.Now()

	config := h.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO hooks (id, event, plugin_name, action_name, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Event, h.PluginName, h.ActionName, string(config), h.Enabled, h.CreatedAt,
	)
	return err
}

// GetByID retrieves a hook by its ID.
func (r *HookRepository) GetByID(id string) (*Hook, error) {
	h := &Hook{}
	var config string
	var enabled int

	err := r.db.QueryRow(
		`SELECT id, event, plugin_name, action_name, config, enabled, created_at
		 FROM hooks WHERE id = ?`,
		id,
	).Scan(&h.ID, &h.Event, &h.PluginName, &h.ActionName, &config, &enabled, &h.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	h.Config = json.RawMessage(config)
	h.Enabled = enabled != 0
	return h, nil
}

// ListByEvent retrieves the enabled hooks bound to an event.
func (r *HookRepository) ListByEvent(event string) ([]*Hook, error) {
	rows, err := r.db.Query(
		`SELECT id, event, plugin_name, action_name, config, enabled, created_at
		 FROM hooks WHERE event = ? AND enabled = 1 ORDER BY created_at ASC`,
		event,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHooks(rows)
}

// List retrieves all hooks from the database.
func (r *HookRepository) List() ([]*Hook, error) {
	rows, err := r.db.Query(
		`SELECT id, event, plugin_name, action_name, config, enabled, created_at
		 FROM hooks ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHooks(rows)
}

// Delete removes a hook from the database by its ID.
func (r *HookRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM hooks WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanHooks(rows *sql.Rows) ([]*Hook, error) {
	var hooks []*Hook
	for rows.Next() {
		h := &Hook{}
		var config string
		var enabled int

		err := rows.Scan(&h.ID, &h.Event, &h.PluginName, &h.ActionName, &config, &enabled, &h.CreatedAt)
		if err != nil {
			return nil, err
		}

		h.Config = json.RawMessage(config)
		h.Enabled = enabled != 0
		hooks = append(hooks, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hooks, nil
}
