// Package detector provides hand pose estimation interfaces and types.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point2D represents a point in normalized image space, with x and y
// each in the range [0,1].
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmark is a single tracked hand landmark: a normalized 2D position
// plus the detector's confidence in it.
type Landmark struct {
	Position   Point2D `json:"position"`
	Confidence float64 `json:"confidence"`
}

// HandObservation represents the 21 hand landmarks tracked in one frame.
// At most one hand is observed at a time.
type HandObservation struct {
	Landmarks   [NumLandmarks]Landmark `json:"landmarks"`
	Handedness  string                 `json:"handedness"` // "Left" or "Right"
	Score       float64                `json:"score"`
	TimestampMs int64                  `json:"timestamp_ms"`
}

// Distance calculates the Euclidean distance between two normalized points.
func Distance(a, b Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint returns the point halfway between two normalized points.
func Midpoint(a, b Point2D) Point2D {
	return Point2D{
		X: (a.X + b.X) / 2,
		Y: (a.Y + b.Y) / 2,
	}
}

// Landmark returns the landmark at the given index, or false when the
// index is out of range.
func (h *HandObservation) Landmark(index int) (Landmark, bool) {
	if h == nil || index < 0 || index >= NumLandmarks {
		return Landmark{}, false
	}
	return h.Landmarks[index], true
}
