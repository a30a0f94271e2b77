// Package gesture reduces raw hand observations into discrete gesture events.
package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
)

// Pinch detection constants.
const (
	// PinchThreshold is the maximum normalized thumb-index distance
	// that still reads as a pinch.
	PinchThreshold = 0.05
	// MinLandmarkConfidence is the per-landmark confidence cutoff.
	// A tip at or below this value is treated as not tracked at all.
	MinLandmarkConfidence = 0.5
)

// EventKind identifies a pinch state transition.
type EventKind string

const (
	// EventNone means nothing changed this frame (idle, no pinch).
	EventNone EventKind = "none"
	// EventStart means a pinch began this frame.
	EventStart EventKind = "pinch_start"
	// EventMove means an in-progress pinch produced a new midpoint.
	EventMove EventKind = "pinch_move"
	// EventEnd means the fingers separated past the threshold.
	EventEnd EventKind = "pinch_end"
	// EventLost means hand tracking dropped out mid-pinch.
	EventLost EventKind = "pinch_lost"
)

// Event is the result of feeding one frame's observation to the Machine.
// Midpoint is only meaningful for EventStart and EventMove; it is the
// thumb-index midpoint in normalized screen space with Y flipped
// (y' = 1 - y) to match the world's up axis.
type Event struct {
	Kind     EventKind
	Midpoint detector.Point2D
	Distance float64
}

// Machine is the pinch state machine. It consumes one observation per
// frame and reports the transition, if any. Not safe for concurrent
// use; the pipeline calls it from a single goroutine.
type Machine struct {
	threshold     float64
	minConfidence float64
	pinching      bool
}

// NewMachine creates a Machine with the default threshold and
// confidence cutoff.
func NewMachine() *Machine {
	return &Machine{
		threshold:     PinchThreshold,
		minConfidence: MinLandmarkConfidence,
	}
}

// Pinching reports whether the machine is currently in the pinching state.
func (m *Machine) Pinching() bool {
	return m.pinching
}

// Reset forces the machine back to idle without emitting an event.
func (m *Machine) Reset() {
	m.pinching = false
}

// Update advances the state machine by one frame.
//
// A nil observation, or a thumb/index tip at or below the confidence
// cutoff, counts as a lost hand: an in-progress pinch is cancelled
// immediately, with no debounce. A single bad frame ending the pinch is
// the intended trade-off of latency over smoothing.
func (m *Machine) Update(obs *detector.HandObservation) Event {
	thumb, index, ok := pinchTips(obs, m.minConfidence)
	if !ok {
		if m.pinching {
			m.pinching = false
			return Event{Kind: EventLost}
		}
		return Event{Kind: EventNone}
	}

	dist := detector.Distance(thumb.Position, index.Position)

	if dist < m.threshold {
		mid := detector.Midpoint(thumb.Position, index.Position)
		mid.Y = 1 - mid.Y

		kind := EventMove
		if !m.pinching {
			m.pinching = true
			kind = EventStart
		}
		return Event{Kind: kind, Midpoint: mid, Distance: dist}
	}

	if m.pinching {
		m.pinching = false
		return Event{Kind: EventEnd, Distance: dist}
	}
	return Event{Kind: EventNone, Distance: dist}
}

// pinchTips extracts the thumb and index tips from an observation,
// reporting false when either is absent or under-confident.
func pinchTips(obs *detector.HandObservation, minConfidence float64) (thumb, index detector.Landmark, ok bool) {
	if obs == nil {
		return detector.Landmark{}, detector.Landmark{}, false
	}

	thumb, thumbOK := obs.Landmark(detector.ThumbTip)
	index, indexOK := obs.Landmark(detector.IndexTip)
	if !thumbOK || !indexOK {
		return detector.Landmark{}, detector.Landmark{}, false
	}

	if thumb.Confidence <= minConfidence || index.Confidence <= minConfidence {
		return detector.Landmark{}, detector.Landmark{}, false
	}

	return thumb, index, true
}
