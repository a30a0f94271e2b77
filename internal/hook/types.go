// Package hook runs out-of-process plugins in response to task
// lifecycle events.
package hook

import "encoding/json"

// Task lifecycle events that hooks can bind to.
const (
	EventTaskSelected  = "task.selected"
	EventTaskMoved     = "task.moved"
	EventTaskCompleted = "task.completed"
	EventTaskReopened  = "task.reopened"
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// TaskInfo is the task payload delivered to a hook.
type TaskInfo struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Position    [3]float64 `json:"position"`
	IsCompleted bool       `json:"isCompleted"`
}

// Request represents a request sent to a plugin for execution.
type Request struct {
	Action string          `json:"action"`
	Event  string          `json:"event"`
	Task   TaskInfo        `json:"task"`
	Config json.RawMessage `json:"config"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
