package detector

import (
	"gocv.io/x/gocv"
)

// MockEstimator is a test implementation of the Estimator interface.
// It allows tests to control the estimation results.
type MockEstimator struct {
	observation *HandObservation
	err         error
}

// NewMockEstimator creates a new MockEstimator instance.
func NewMockEstimator() *MockEstimator {
	return &MockEstimator{}
}

// SetObservation sets the observation that will be returned by Estimate.
// Passing nil simulates "no hand detected".
func (m *MockEstimator) SetObservation(obs *HandObservation) {
	m.observation = obs
}

// SetError sets the error that will be returned by Estimate.
func (m *MockEstimator) SetError(err error) {
	m.err = err
}

// Estimate returns the pre-configured observation or error.
func (m *MockEstimator) Estimate(frame *gocv.Mat) (*HandObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.observation, nil
}

// Close is a no-op for the mock estimator.
func (m *MockEstimator) Close() error {
	return nil
}

// PinchObservation returns a preset HandObservation with the thumb and
// index tips close enough together to read as a pinch. The midpoint of
// the two tips sits at the given normalized position.
func PinchObservation(x, y float64) *HandObservation {
	obs := openHandAround(x, y)

	// Bring thumb and index tips together, 0.02 apart around (x, y)
	obs.Landmarks[ThumbTip] = Landmark{
		Position:   Point2D{X: x - 0.01, Y: y},
		Confidence: 0.9,
	}
	obs.Landmarks[IndexTip] = Landmark{
		Position:   Point2D{X: x + 0.01, Y: y},
		Confidence: 0.9,
	}

	return obs
}

// OpenHandObservation returns a preset HandObservation with all fingers
// spread, thumb and index tips well apart.
func OpenHandObservation() *HandObservation {
	obs := openHandAround(0.5, 0.5)

	obs.Landmarks[ThumbTip] = Landmark{
		Position:   Point2D{X: 0.73, Y: 0.60},
		Confidence: 0.9,
	}
	obs.Landmarks[IndexTip] = Landmark{
		Position:   Point2D{X: 0.58, Y: 0.35},
		Confidence: 0.9,
	}

	return obs
}

// LowConfidenceObservation returns a pinch-shaped observation whose
// thumb and index tips fall below the usual confidence cutoff.
func LowConfidenceObservation() *HandObservation {
	obs := PinchObservation(0.5, 0.5)
	obs.Landmarks[ThumbTip].Confidence = 0.3
	obs.Landmarks[IndexTip].Confidence = 0.3
	return obs
}

// openHandAround builds a plausible full-hand observation with every
// landmark present at 0.9 confidence, loosely centered on (x, y).
func openHandAround(x, y float64) *HandObservation {
	obs := &HandObservation{
		Handedness: "Right",
		Score:      0.95,
	}

	// Spread the remaining landmarks in a rough fan below the tips so
	// every index is populated.
	for i := 0; i < NumLandmarks; i++ {
		obs.Landmarks[i] = Landmark{
			Position: Point2D{
				X: x + float64(i%5)*0.02 - 0.04,
				Y: y + float64(i/5)*0.03 + 0.05,
			},
			Confidence: 0.9,
		}
	}

	obs.Landmarks[Wrist] = Landmark{
		Position:   Point2D{X: x, Y: y + 0.25},
		Confidence: 0.9,
	}

	return obs
}
