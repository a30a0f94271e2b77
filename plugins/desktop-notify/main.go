// Package main provides a desktop notification plugin.
// It shows a notification for task lifecycle events via notify-send
// on Linux or osascript on macOS.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the hook runner.
type Request struct {
	Action string          `json:"action"`
	Event  string          `json:"event"`
	Task   TaskInfo        `json:"task"`
	Config json.RawMessage `json:"config"`
}

// TaskInfo is the task payload attached to the event.
type TaskInfo struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Position    [3]float64 `json:"position"`
	IsCompleted bool       `json:"isCompleted"`
}

// Response represents the output to the hook runner.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NotifyConfig defines optional configuration for the notify action.
type NotifyConfig struct {
	Title string `json:"title"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	switch req.Action {
	case "notify":
		if err := handleNotify(&req); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	writeSuccessResponse()
}

// handleNotify shows a desktop notification describing the event.
func handleNotify(req *Request) error {
	title := "Mudra"
	if len(req.Config) > 0 {
		var cfg NotifyConfig
		if err := json.Unmarshal(req.Config, &cfg); err == nil && cfg.Title != "" {
			title = cfg.Title
		}
	}

	body := messageFor(req.Event, req.Task)
	return showNotification(title, body)
}

// messageFor builds a human-readable message for the event.
func messageFor(event string, task TaskInfo) string {
	text := task.Text
	if text == "" {
		text = task.ID
	}

	switch event {
	case "task.selected":
		return fmt.Sprintf("Selected: %s", text)
	case "task.moved":
		return fmt.Sprintf("Moved: %s", text)
	case "task.completed":
		return fmt.Sprintf("Completed: %s", text)
	case "task.reopened":
		return fmt.Sprintf("Reopened: %s", text)
	default:
		return fmt.Sprintf("%s: %s", event, text)
	}
}

// showNotification invokes the platform notification command.
func showNotification(title, body string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, body, title)
		return exec.Command("osascript", "-e", script).Run()
	case "linux":
		return exec.Command("notify-send", title, body).Run()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
