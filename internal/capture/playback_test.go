package capture

import (
	"testing"

	"github.com/ayusman/mudra/internal/testutil"
)

func TestPlaybackSource_Playback(t *testing.T) {
	frames := testutil.MovingSequence(2)
	defer testutil.CloseFrames(frames)

	src := NewPlaybackSource(frames, false)

	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	// Read both frames
	f1, err := src.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if f1.TimestampMs == 0 {
		t.Error("frame should carry a timestamp")
	}
	f1.Close()

	f2, err := src.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	f2.Close()

	// Third read should fail (no loop)
	if _, err := src.ReadFrame(); err == nil {
		t.Error("expected error after all frames consumed")
	}
}

func TestPlaybackSource_Loop(t *testing.T) {
	frames := testutil.MovingSequence(1)
	defer testutil.CloseFrames(frames)

	src := NewPlaybackSource(frames, true)
	src.Open()
	defer src.Close()

	// Looping playback never runs out
	for i := 0; i < 5; i++ {
		f, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestPlaybackSource_NotOpen(t *testing.T) {
	frames := testutil.MovingSequence(1)
	defer testutil.CloseFrames(frames)

	src := NewPlaybackSource(frames, false)

	if _, err := src.ReadFrame(); err != ErrSourceNotOpen {
		t.Errorf("ReadFrame() before Open error = %v, want ErrSourceNotOpen", err)
	}
}

func TestPlaybackSource_Reset(t *testing.T) {
	frames := testutil.MovingSequence(1)
	defer testutil.CloseFrames(frames)

	src := NewPlaybackSource(frames, false)
	src.Open()
	defer src.Close()

	f, err := src.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	f.Close()

	src.Reset()

	f, err = src.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after Reset error = %v", err)
	}
	f.Close()
}
