package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Task represents an anchored task marker stored in the database.
type Task struct {
	ID          string
	Text        string
	X, Y, Z     float64
	IsCompleted bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskRepository provides CRUD operations for tasks.
type TaskRepository struct {
	db *sql.DB
}

// Tasks returns the task repository for this store.
func (s *Store) Tasks() *TaskRepository {
	return &TaskRepository{db: s.db}
}

// Create inserts a new task into the database.
func (r *TaskRepository) Create(t *Task) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO tasks (id, text, x, y, z, is_completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Text, t.X, t.Y, t.Z, t.IsCompleted, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(id string) (*Task, error) {
	t := &Task{}
	var completed int

	err := r.db.QueryRow(
		`SELECT id, text, x, y, z, is_completed, created_at, updated_at
		 FROM tasks WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Text, &t.X, &t.Y, &t.Z, &completed, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	t.IsCompleted = completed != 0
	return t, nil
}

// List retrieves all tasks from the database, oldest first. The order
// is stable so the exported snapshot stays an ordered sequence.
func (r *TaskRepository) List() ([]*Task, error) {
	rows, err := r.db.Query(
		`SELECT id, text, x, y, z, is_completed, created_at, updated_at
		 FROM tasks ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t := &Task{}
		var completed int

		err := rows.Scan(&t.ID, &t.Text, &t.X, &t.Y, &t.Z, &completed, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}

		t.IsCompleted = completed != 0
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates an existing task in the database.
func (r *TaskRepository) Update(t *Task) error {
	t.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE tasks SET text = ?, x = ?, y = ?, z = ?, is_completed = ?, updated_at = ?
		 WHERE id = ?`,
		t.Text, t.X, t.Y, t.Z, t.IsCompleted, t.UpdatedAt, t.ID,
	)
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

// UpdatePosition updates only a task's world position. Used by the
// gesture paths, which move markers without touching text or state.
func (r *TaskRepository) UpdatePosition(id string, x, y, z float64) error {
	result, err := r.db.Exec(
		`UPDATE tasks SET x = ?, y = ?, z = ?, updated_at = ? WHERE id = ?`,
		x, y, z, time.Now(), id,
	)
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

// SetCompleted updates only a task's completion flag.
func (r *TaskRepository) SetCompleted(id string, completed bool) error {
	result, err := r.db.Exec(
		`UPDATE tasks SET is_completed = ?, updated_at = ? WHERE id = ?`,
		completed, time.Now(), id,
	)
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

// Delete removes a task from the database by its ID.
func (r *TaskRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
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
