// Package api provides HTTP API handlers for the Mudra interaction engine.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/store"
)

// SceneSync receives notifications after task mutations so the live
// scene can stay in step with the database. A nil SceneSync is valid;
// handlers then only touch the store.
type SceneSync interface {
	TaskAdded(t *store.Task)
	TaskRemoved(id string)
	TaskMoved(id string, x, y, z float64)
	TaskCompleted(id string, completed bool)
}

// TaskHandler handles HTTP requests for task resources.
type TaskHandler struct {
	store *store.Store
	scene SceneSync
}

// NewTaskHandler creates a new TaskHandler with the given store and
// optional scene sync target.
func NewTaskHandler(s *store.Store, scene SceneSync) *TaskHandler {
	return &TaskHandler{store: s, scene: scene}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/tasks or /api/tasks/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/tasks")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createTaskRequest struct {
	Text     string      `json:"text"`
	Position *[3]float64 `json:"position"`
}

type updateTaskRequest struct {
	Text      string      `json:"text"`
	Position  *[3]float64 `json:"position"`
	Completed *bool       `json:"isCompleted"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Position    [3]float64 `json:"position"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

type listTasksResponse struct {
	Tasks []taskResponse `json:"tasks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Task to a taskResponse.
func toResponse(t *store.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Text:        t.Text,
		Position:    [3]float64{t.X, t.Y, t.Z},
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/tasks and returns all tasks.
func (h *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.Tasks().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	response := listTasksResponse{
		Tasks: make([]taskResponse, 0, len(tasks)),
	}

	for _, t := range tasks {
		response.Tasks = append(response.Tasks, toResponse(t))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/tasks/{id} and returns a single task.
func (h *TaskHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	task, err := h.store.Tasks().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get task")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(task))
}

// create handles POST /api/tasks and creates a new task.
func (h *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	// New tasks spawn on the plane in front of the viewer unless a
	// position is given.
	pos := [3]float64{0, 0, -1.0}
	if req.Position != nil {
		pos = *req.Position
	}

	task := &store.Task{
		ID:   uuid.New().String(),
		Text: req.Text,
		X:    pos[0],
		Y:    pos[1],
		Z:    pos[2],
	}

	if err := h.store.Tasks().Create(task); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	if h.scene != nil {
		h.scene.TaskAdded(task)
	}
	h.snapshot()

	writeJSON(w, http.StatusCreated, toResponse(task))
}

// update handles PUT /api/tasks/{id} and updates an existing task.
func (h *TaskHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	task, err := h.store.Tasks().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get task")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Text != "" {
		task.Text = req.Text
	}
	if req.Position != nil {
		task.X = req.Position[0]
		task.Y = req.Position[1]
		task.Z = req.Position[2]
	}
	completionChanged := req.Completed != nil && *req.Completed != task.IsCompleted
	if req.Completed != nil {
		task.IsCompleted = *req.Completed
	}

	if err := h.store.Tasks().Update(task); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}

	if h.scene != nil {
		if req.Position != nil {
			h.scene.TaskMoved(task.ID, task.X, task.Y, task.Z)
		}
		if completionChanged {
			h.scene.TaskCompleted(task.ID, task.IsCompleted)
		}
	}
	h.snapshot()

	writeJSON(w, http.StatusOK, toResponse(task))
}

// delete handles DELETE /api/tasks/{id} and removes a task.
func (h *TaskHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Tasks().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	if h.scene != nil {
		h.scene.TaskRemoved(id)
	}
	h.snapshot()

	w.WriteHeader(http.StatusNoContent)
}

// snapshot refreshes the persisted task snapshot after a mutation.
// Failures are non-fatal; the row data is already committed.
func (h *TaskHandler) snapshot() {
	if err := h.store.SaveSnapshot(); err != nil {
		log.Printf("failed to save snapshot: %v", err)
	}
}
