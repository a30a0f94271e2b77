package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hook"
)

// runPipeline is the main tracking loop that processes frames from the
// camera. It manages the state transitions between idle and active
// modes based on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (idleFPS=5)
// 2. On motion detected, switch to active mode (activeFPS=15)
// 3. Estimate the hand pose
// 4. Feed the observation to the pinch state machine and forward
//    transitions to the coordinator
// 5. While a task is selected and no pinch is held, buffer the index
//    tip path (last 60 frames) for swipe-to-complete matching
// 6. After 2s no motion, switch back to idle mode
// 7. Clear the path buffer on a match, a pinch start or a lost hand
func (a *App) runPipeline() {
	// Index-tip path buffer for swipe matching
	pathBuffer := make([]gesture.PathPoint, 0, PathBufferSize)

	// Track whether we're in active mode
	activeMode := false

	// Track the last motion detection time
	lastMotionTime := time.Now()

	// Frame interval based on current FPS
	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			// Skip processing if tracking is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				// Check if we should switch back to idle mode
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					pathBuffer = pathBuffer[:0]
					log.Println("Switched to idle mode")
				}
			}

			// Skip further processing if not in active mode
			if !activeMode {
				frame.Close()
				continue
			}

			// Step 2: Hand pose estimation. An estimator error reads as
			// a lost hand so an in-progress pinch is cancelled rather
			// than left dangling.
			obs, err := a.Estimator().Estimate(frame.Mat)
			frame.Close()
			if err != nil {
				log.Printf("Error estimating hand pose: %v", err)
				obs = nil
			}

			// Step 3: Pinch state machine
			ev := a.machine.Update(obs)

			a.mu.Lock()
			a.lastObs = obs
			a.lastPinching = a.machine.Pinching()
			a.mu.Unlock()

			if ev.Kind != gesture.EventNone {
				a.coordinator.OnPinch(ev)
			}

			switch ev.Kind {
			case gesture.EventStart:
				// A grab is not a stroke
				pathBuffer = pathBuffer[:0]
			case gesture.EventEnd, gesture.EventLost:
				a.flushPendingMove()
			}

			if obs == nil {
				pathBuffer = pathBuffer[:0]
				continue
			}

			// Step 4: Swipe-to-complete. Only tracked while a task is
			// selected and no pinch is held.
			_, selected := a.registry.Selection()
			if !selected || a.machine.Pinching() {
				continue
			}

			indexTip, ok := obs.Landmark(detector.IndexTip)
			if !ok {
				continue
			}

			if len(pathBuffer) >= PathBufferSize {
				// Shift buffer left by 1, removing oldest point
				copy(pathBuffer, pathBuffer[1:])
				pathBuffer = pathBuffer[:PathBufferSize-1]
			}
			pathBuffer = append(pathBuffer, gesture.PathPoint{
				X:         indexTip.Position.X,
				Y:         indexTip.Position.Y,
				Timestamp: time.Now().UnixMilli(),
			})

			if len(pathBuffer) >= 10 {
				matches := a.swipes.Match(pathBuffer)
				if len(matches) > 0 {
					best := matches[0]
					log.Printf("Stroke matched: %s (score: %.3f)", best.Template.Name, best.Score)
					a.completeSelected()

					// Clear the buffer to prevent repeated triggers
					pathBuffer = pathBuffer[:0]
				}
			}
		}
	}
}

// completeSelected marks the currently selected task as completed,
// persists it and fires the completed hook. A task that is already
// completed is left alone.
func (a *App) completeSelected() {
	id, ok := a.registry.Selection()
	if !ok || a.config.Store == nil {
		return
	}

	task, err := a.config.Store.Tasks().GetByID(string(id))
	if err != nil {
		log.Printf("failed to load task %s: %v", id, err)
		return
	}
	if task.IsCompleted {
		return
	}

	if err := a.config.Store.Tasks().SetCompleted(string(id), true); err != nil {
		log.Printf("failed to complete task %s: %v", id, err)
		return
	}
	if err := a.config.Store.SaveSnapshot(); err != nil {
		log.Printf("failed to save snapshot: %v", err)
	}

	a.registry.SetCompleted(id, true)
	a.dispatchTaskEvent(hook.EventTaskCompleted, string(id))
}
