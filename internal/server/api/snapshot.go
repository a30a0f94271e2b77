package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ayusman/mudra/internal/store"
)

// SceneReloader rebuilds the live scene from the store after a bulk
// import. A nil SceneReloader is valid.
type SceneReloader interface {
	ReloadTasks()
}

// SnapshotHandler exports and imports the persisted task snapshot.
type SnapshotHandler struct {
	store *store.Store
	scene SceneReloader
}

// NewSnapshotHandler creates a new SnapshotHandler with the given store
// and optional scene reload target.
func NewSnapshotHandler(s *store.Store, scene SceneReloader) *SnapshotHandler {
	return &SnapshotHandler{store: s, scene: scene}
}

type snapshotPayload struct {
	Tasks []store.SnapshotTask `json:"tasks"`
}

// ServeHTTP implements the http.Handler interface.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.export(w, r)
	case http.MethodPut:
		h.importSnapshot(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// export handles GET /api/snapshot and returns the stored snapshot.
// A missing or unreadable snapshot exports as an empty task list.
func (h *SnapshotHandler) export(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, snapshotPayload{Tasks: h.store.LoadSnapshot()})
}

// importSnapshot handles PUT /api/snapshot and replaces all tasks with
// the snapshot contents.
func (h *SnapshotHandler) importSnapshot(w http.ResponseWriter, r *http.Request) {
	var payload snapshotPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.ImportSnapshot(payload.Tasks); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to import snapshot")
		return
	}

	// Refresh the blob so the next export matches the imported rows.
	if err := h.store.SaveSnapshot(); err != nil {
		log.Printf("failed to save snapshot: %v", err)
	}

	if h.scene != nil {
		h.scene.ReloadTasks()
	}

	writeJSON(w, http.StatusOK, map[string]int{"imported": len(payload.Tasks)})
}
