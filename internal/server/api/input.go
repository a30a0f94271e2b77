package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Interactor receives discrete touch input from the host UI. Taps and
// pans land on the same selection the pinch pipeline drives.
type Interactor interface {
	Tap(x, y float64)
	Pan(dx, dy float64)
}

// InputHandler forwards tap and pan events to the interaction
// coordinator.
type InputHandler struct {
	interactor Interactor
}

// NewInputHandler creates a new InputHandler with the given interactor.
func NewInputHandler(interactor Interactor) *InputHandler {
	return &InputHandler{interactor: interactor}
}

type tapRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/input/tap and /api/input/pan, POST only.
func (h *InputHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind := strings.TrimPrefix(r.URL.Path, "/api/input/")
	switch kind {
	case "tap":
		var req tapRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.X < 0 || req.X > 1 || req.Y < 0 || req.Y > 1 {
			writeError(w, http.StatusBadRequest, "Tap coordinates must be normalized to [0,1]")
			return
		}
		h.interactor.Tap(req.X, req.Y)
	case "pan":
		var req panRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		h.interactor.Pan(req.DX, req.DY)
	default:
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
