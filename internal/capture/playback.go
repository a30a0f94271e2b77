package capture

import (
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// PlaybackSource replays pre-recorded frames, for tests and demos.
type PlaybackSource struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
}

// NewPlaybackSource creates a FrameSource over a fixed frame sequence.
// With loop set, playback restarts after the last frame.
func NewPlaybackSource(frames []*gocv.Mat, loop bool) *PlaybackSource {
	return &PlaybackSource{
		frames: frames,
		loop:   loop,
	}
}

func (c *PlaybackSource) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *PlaybackSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *PlaybackSource) ReadFrame() (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrSourceNotOpen
	}

	if len(c.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return nil, fmt.Errorf("no more frames")
		}
	}

	// Clone the frame so the original isn't modified
	mat := c.frames[c.index].Clone()
	c.index++

	return &Frame{Mat: &mat, TimestampMs: time.Now().UnixMilli()}, nil
}

func (c *PlaybackSource) SetFPS(fps int) {}
func (c *PlaybackSource) FPS() int       { return 15 }
func (c *PlaybackSource) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetFrames replaces the frame sequence
func (c *PlaybackSource) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
}

// Reset restarts playback from the beginning
func (c *PlaybackSource) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}
