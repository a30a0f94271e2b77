package detector

import "gocv.io/x/gocv"

// Estimator defines the interface for hand pose estimation implementations.
type Estimator interface {
	// Estimate analyzes a video frame and returns the tracked hand, if any.
	// Returns nil (and no error) when no hand is detected. When the
	// underlying detector reports multiple hands, only the highest-score
	// hand is kept.
	Estimate(frame *gocv.Mat) (*HandObservation, error)

	// Close releases any resources held by the estimator.
	Close() error
}

// Config holds configuration options for hand pose estimation.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
