package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/interaction"
	"github.com/ayusman/mudra/internal/store"
	"github.com/gorilla/websocket"
)

func TestAPI_TaskWorkflow(t *testing.T) {
	// Setup
	tmpDir := t.TempDir()
	s, _ := store.New(filepath.Join(tmpDir, "test.db"))
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Create a task
	createBody := `{"text": "water the plants", "position": [0.1, 0, -1.0]}`
	resp, err := client.Post(ts.URL+"/api/tasks", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/tasks error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID       string     `json:"id"`
		Text     string     `json:"text"`
		Position [3]float64 `json:"position"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Text != "water the plants" {
		t.Errorf("created text = %s, want 'water the plants'", created.Text)
	}
	if created.Position != [3]float64{0.1, 0, -1.0} {
		t.Errorf("created position = %v, want [0.1 0 -1]", created.Position)
	}

	// 2. List tasks
	resp, _ = client.Get(ts.URL + "/api/tasks")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/tasks status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Tasks []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"tasks"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(listed.Tasks))
	}

	// 3. Complete the task
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/tasks/"+created.ID,
		strings.NewReader(`{"isCompleted": true}`))
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var updated struct {
		IsCompleted bool `json:"isCompleted"`
	}
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()

	if !updated.IsCompleted {
		t.Error("task should be completed after PUT")
	}

	// 4. The snapshot reflects the task
	resp, _ = client.Get(ts.URL + "/api/snapshot")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/snapshot status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var snap struct {
		Tasks []store.SnapshotTask `json:"tasks"`
	}
	json.NewDecoder(resp.Body).Decode(&snap)
	resp.Body.Close()

	if len(snap.Tasks) != 1 || !snap.Tasks[0].IsCompleted {
		t.Errorf("snapshot = %+v, want one completed task", snap.Tasks)
	}

	// 5. Delete task
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/tasks/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	// 6. Verify deleted
	resp, _ = client.Get(ts.URL + "/api/tasks/" + created.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}

// staticTrackingSource serves a fixed tracking state.
type staticTrackingSource struct {
	state interaction.TrackingState
}

func (s *staticTrackingSource) TrackingState() interaction.TrackingState {
	return s.state
}

func TestAPI_TrackingSocket(t *testing.T) {
	source := &staticTrackingSource{
		state: interaction.TrackingState{
			Pinching:  true,
			Selection: "task-1",
		},
	}

	srv := New(Config{Tracking: source})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/tracking"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error = %v", err)
	}

	var payload struct {
		Pinching  bool   `json:"pinching"`
		Selection string `json:"selection"`
		Timestamp int64  `json:"timestamp"`
	}
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("failed to decode broadcast: %v", err)
	}

	if !payload.Pinching {
		t.Error("expected pinching=true in broadcast")
	}
	if payload.Selection != "task-1" {
		t.Errorf("selection = %q, want task-1", payload.Selection)
	}
	if payload.Timestamp == 0 {
		t.Error("expected non-zero timestamp")
	}
}
