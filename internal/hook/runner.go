package hook

import (
	"errors"
	"log"

	"github.com/ayusman/mudra/internal/store"
)

// Runner connects stored hook bindings to discovered plugins: when a
// task lifecycle event fires, every enabled hook bound to it executes.
type Runner struct {
	store    *store.Store
	manager  *Manager
	executor *Executor
}

// NewRunner creates a Runner over the given store, plugin manager and
// executor.
func NewRunner(s *store.Store, manager *Manager, executor *Executor) *Runner {
	return &Runner{
		store:    s,
		manager:  manager,
		executor: executor,
	}
}

// Dispatch runs every enabled hook bound to the event. Hook failures
// are logged and skipped; a broken plugin never disturbs the session.
func (r *Runner) Dispatch(event string, task TaskInfo) {
	if r.store == nil {
		return
	}

	hooks, err := r.store.Hooks().ListByEvent(event)
	if err != nil {
		log.Printf("list hooks for %s: %v", event, err)
		return
	}

	for _, h := range hooks {
		plugin, err := r.manager.Get(h.PluginName)
		if err != nil {
			if errors.Is(err, ErrPluginNotFound) {
				log.Printf("hook %s: plugin %q not installed", h.ID, h.PluginName)
			} else {
				log.Printf("hook %s: %v", h.ID, err)
			}
			continue
		}

		req := &Request{
			Action: h.ActionName,
			Event:  event,
			Task:   task,
			Config: h.Config,
		}

		resp, err := r.executor.Execute(plugin, req)
		if err != nil {
			log.Printf("hook %s (%s): %v", h.ID, h.PluginName, err)
			continue
		}
		if !resp.Success {
			log.Printf("hook %s (%s): plugin reported: %s", h.ID, h.PluginName, resp.Error)
		}
	}
}
