package capture

import (
	"testing"

	"github.com/ayusman/mudra/internal/testutil"
)

func TestNewMotionDetector(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
	}{
		{name: "default threshold", threshold: 1.0},
		{name: "high threshold", threshold: 5.0},
		{name: "low threshold", threshold: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.threshold)
			if md == nil {
				t.Fatal("NewMotionDetector returned nil")
			}
			defer md.Close()

			if md.threshold != tt.threshold {
				t.Errorf("threshold = %f, want %f", md.threshold, tt.threshold)
			}

			if md.initialized {
				t.Error("motion detector should not be initialized initially")
			}
		})
	}
}

func TestMotionDetector_FirstFrameIsBaseline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	mat := testutil.BlockFrame(100, 100)
	defer mat.Close()

	frame := &Frame{Mat: mat}
	detected, percent := md.Detect(frame)
	if detected {
		t.Error("first frame should never report motion")
	}
	if percent != 0 {
		t.Errorf("first frame change percent = %f, want 0", percent)
	}
}

func TestMotionDetector_NoMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0) // 1% threshold
	defer md.Close()

	// Two identical frames: no change
	m1 := testutil.BlockFrame(100, 100)
	defer m1.Close()
	m2 := testutil.BlockFrame(100, 100)
	defer m2.Close()

	md.Detect(&Frame{Mat: m1})
	detected, percent := md.Detect(&Frame{Mat: m2})

	if detected {
		t.Errorf("identical frames reported motion (%.2f%% change)", percent)
	}
}

func TestMotionDetector_DetectsMovingBlock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frames := testutil.MovingSequence(2)
	defer testutil.CloseFrames(frames)

	md.Detect(&Frame{Mat: frames[0]})
	detected, percent := md.Detect(&Frame{Mat: frames[1]})

	if !detected {
		t.Errorf("moving block not detected (%.2f%% change)", percent)
	}
}

func TestMotionDetector_NilFrame(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if detected, _ := md.Detect(nil); detected {
		t.Error("nil frame should not report motion")
	}
	if detected, _ := md.Detect(&Frame{}); detected {
		t.Error("frame without a Mat should not report motion")
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frames := testutil.MovingSequence(2)
	defer testutil.CloseFrames(frames)

	md.Detect(&Frame{Mat: frames[0]})
	md.Reset()

	// After reset the next frame is a fresh baseline
	detected, _ := md.Detect(&Frame{Mat: frames[1]})
	if detected {
		t.Error("first frame after Reset should be baseline, not motion")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.SetThreshold(3.0)
	if md.threshold != 3.0 {
		t.Errorf("threshold = %f, want 3.0", md.threshold)
	}

	// Non-positive values are ignored
	md.SetThreshold(0)
	md.SetThreshold(-1)
	if md.threshold != 3.0 {
		t.Errorf("threshold = %f, want 3.0 after ignored updates", md.threshold)
	}
}
