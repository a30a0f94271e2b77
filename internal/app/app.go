// Package app provides the main application logic for the Mudra
// interaction engine: it owns the scene, the capture pipeline and the
// hook runner, and keeps them in step with the task store.
package app

import (
	"log"
	"sync"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hook"
	"github.com/ayusman/mudra/internal/interaction"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active tracking.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
	// PathBufferSize is the maximum number of index-tip points buffered for swipe matching.
	PathBufferSize = 60
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
	PlaneHeight  float64
}

// App orchestrates hand tracking, scene interaction and hook execution.
type App struct {
	config      Config
	camera      capture.FrameSource
	motion      *capture.MotionDetector
	estimator   detector.Estimator
	machine     *gesture.Machine
	swipes      *gesture.SwipeMatcher
	raycaster   *scene.PlaneRaycaster
	picker      *scene.RadiusPicker
	registry    *scene.Registry
	coordinator *interaction.Coordinator
	pluginMgr   *hook.Manager
	hooks       *hook.Runner

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}

	// Latest pipeline state, exported over the tracking socket.
	lastObs      *detector.HandObservation
	lastPinching bool

	// Object moved by the current grab, pending a task.moved hook.
	pendingMove scene.ObjectID
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	raycaster := scene.NewPlaneRaycaster(config.PlaneHeight)
	picker := scene.NewRadiusPicker(raycaster)
	registry := scene.NewRegistry(picker)

	pluginMgr := hook.NewManager(config.PluginDir)
	executor := hook.NewExecutor(5000) // 5 second timeout for hook execution

	a := &App{
		config:      config,
		camera:      capture.NewCamera(config.CameraID),
		motion:      capture.NewMotionDetector(motionThreshold),
		machine:     gesture.NewMachine(),
		swipes:      gesture.NewSwipeMatcher(),
		raycaster:   raycaster,
		picker:      picker,
		registry:    registry,
		coordinator: interaction.NewCoordinator(registry, raycaster),
		pluginMgr:   pluginMgr,
		hooks:       hook.NewRunner(config.Store, pluginMgr, executor),
		enabled:     false,
		stopCh:      nil,
	}

	a.coordinator.SetMoveCallback(a.objectMoved)
	a.registry.SetDisplayCallback(a.displayChanged)

	// Try MediaPipe first, fall back to the mock estimator
	if mp, err := detector.NewMediaPipeEstimator(detector.DefaultConfig()); err == nil {
		a.estimator = mp
		log.Println("Using MediaPipe hand tracking")
	} else {
		log.Printf("MediaPipe not available (%v), using mock estimator", err)
		a.estimator = detector.NewMockEstimator()
	}

	return a
}

// SetEnabled enables or disables hand tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether hand tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetEstimator sets the hand pose estimator implementation to use.
func (a *App) SetEstimator(e detector.Estimator) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.estimator = e
}

// LoadTasks loads persisted tasks from the database into the scene.
func (a *App) LoadTasks() error {
	if a.config.Store == nil {
		return nil
	}

	tasks, err := a.config.Store.Tasks().List()
	if err != nil {
		return err
	}

	for _, t := range tasks {
		a.addToScene(t)
	}

	log.Printf("Loaded %d tasks from database", len(tasks))
	return nil
}

// ReloadTasks rebuilds the scene from the store, discarding any
// in-memory state. Used after a snapshot import.
func (a *App) ReloadTasks() {
	for _, obj := range a.registry.List() {
		a.registry.Remove(obj.ID)
		a.picker.Forget(obj.ID)
	}

	if err := a.LoadTasks(); err != nil {
		log.Printf("failed to reload tasks: %v", err)
	}
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// addToScene places a stored task into the registry and picker.
func (a *App) addToScene(t *store.Task) {
	a.registry.Add(scene.Object{
		ID:        scene.ObjectID(t.ID),
		Position:  scene.Vector3{X: t.X, Y: t.Y, Z: t.Z},
		Completed: t.IsCompleted,
	})
	a.picker.Update(scene.ObjectID(t.ID), scene.Vector3{X: t.X, Y: t.Y, Z: t.Z})
}

// TaskAdded implements api.SceneSync.
func (a *App) TaskAdded(t *store.Task) {
	a.addToScene(t)
}

// TaskRemoved implements api.SceneSync.
func (a *App) TaskRemoved(id string) {
	a.registry.Remove(scene.ObjectID(id))
	a.picker.Forget(scene.ObjectID(id))
}

// TaskMoved implements api.SceneSync. The store row is already
// updated; this syncs the scene and fires the moved hook.
func (a *App) TaskMoved(id string, x, y, z float64) {
	pos := scene.Vector3{X: x, Y: y, Z: z}
	a.registry.SetPosition(scene.ObjectID(id), pos)
	a.picker.Update(scene.ObjectID(id), pos)
	a.dispatchTaskEvent(hook.EventTaskMoved, id)
}

// TaskCompleted implements api.SceneSync.
func (a *App) TaskCompleted(id string, completed bool) {
	a.registry.SetCompleted(scene.ObjectID(id), completed)
	if completed {
		a.dispatchTaskEvent(hook.EventTaskCompleted, id)
	} else {
		a.dispatchTaskEvent(hook.EventTaskReopened, id)
	}
}

// Tap implements api.Interactor.
func (a *App) Tap(x, y float64) {
	a.coordinator.OnTap(detector.Point2D{X: x, Y: y})
}

// Pan implements api.Interactor. A pan request is a settled movement,
// so the moved hook fires immediately.
func (a *App) Pan(dx, dy float64) {
	a.coordinator.OnPan(dx, dy)
	a.flushPendingMove()
}

// TrackingState implements server.TrackingSource.
func (a *App) TrackingState() interaction.TrackingState {
	a.mu.RLock()
	obs := a.lastObs
	pinching := a.lastPinching
	a.mu.RUnlock()

	state := interaction.TrackingState{
		Observation: obs,
		Pinching:    pinching,
	}
	if id, ok := a.registry.Selection(); ok {
		state.Selection = string(id)
	}
	return state
}

// objectMoved is the coordinator move callback. It persists the new
// position and remembers the object so the moved hook can fire once
// the grab settles.
func (a *App) objectMoved(id scene.ObjectID, pos scene.Vector3) {
	a.picker.Update(id, pos)

	if a.config.Store != nil {
		if err := a.config.Store.Tasks().UpdatePosition(string(id), pos.X, pos.Y, pos.Z); err != nil {
			log.Printf("failed to persist position for %s: %v", id, err)
		}
	}

	a.mu.Lock()
	a.pendingMove = id
	a.mu.Unlock()
}

// flushPendingMove snapshots and fires the moved hook for the object
// the last grab displaced, if any.
func (a *App) flushPendingMove() {
	a.mu.Lock()
	id := a.pendingMove
	a.pendingMove = ""
	a.mu.Unlock()

	if id == "" {
		return
	}

	if a.config.Store != nil {
		if err := a.config.Store.SaveSnapshot(); err != nil {
			log.Printf("failed to save snapshot: %v", err)
		}
	}
	a.dispatchTaskEvent(hook.EventTaskMoved, string(id))
}

// displayChanged is the registry display callback. It runs with the
// registry lock held, so hook dispatch moves off to a goroutine.
func (a *App) displayChanged(id scene.ObjectID, state scene.DisplayState) {
	if state == scene.StateSelected {
		go a.dispatchTaskEvent(hook.EventTaskSelected, string(id))
	}
}

// dispatchTaskEvent fires hooks for the event asynchronously. Plugins
// can take seconds; the interaction path never waits on them.
func (a *App) dispatchTaskEvent(event, id string) {
	if a.config.Store == nil {
		return
	}

	task, err := a.config.Store.Tasks().GetByID(id)
	if err != nil {
		log.Printf("failed to load task %s for %s hook: %v", id, event, err)
		return
	}

	info := hook.TaskInfo{
		ID:          task.ID,
		Text:        task.Text,
		Position:    [3]float64{task.X, task.Y, task.Z},
		IsCompleted: task.IsCompleted,
	}

	go a.hooks.Dispatch(event, info)
}

// Start begins the tracking pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the tracking pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the pose estimator if set
	if a.estimator != nil {
		if err := a.estimator.Close(); err != nil {
			log.Printf("Error closing estimator: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}

// Camera returns the frame source.
func (a *App) Camera() capture.FrameSource {
	return a.camera
}

// SetCamera replaces the frame source. Only valid before Start.
func (a *App) SetCamera(source capture.FrameSource) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = source
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Registry returns the scene registry.
func (a *App) Registry() *scene.Registry {
	return a.registry
}

// Coordinator returns the interaction coordinator.
func (a *App) Coordinator() *interaction.Coordinator {
	return a.coordinator
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *hook.Manager {
	return a.pluginMgr
}

// Estimator returns the hand pose estimator.
func (a *App) Estimator() detector.Estimator {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.estimator
}
