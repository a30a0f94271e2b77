package interaction

import "github.com/ayusman/mudra/internal/detector"

// TrackingState is a point-in-time view of the interaction pipeline:
// the latest hand observation, whether a pinch is held, and the
// currently selected object.
type TrackingState struct {
	Observation *detector.HandObservation `json:"observation"`
	Pinching    bool                      `json:"pinching"`
	Selection   string                    `json:"selection,omitempty"`
}
