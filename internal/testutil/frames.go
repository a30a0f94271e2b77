// Package testutil builds synthetic video frames for tests, so no
// binary fixtures need to live in the repository.
package testutil

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// SolidFrame creates a 640x480 single-color BGR frame.
// The caller owns the returned Mat.
func SolidFrame(b, g, r uint8) *gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(b), float64(g), float64(r), 0),
		480, 640, gocv.MatTypeCV8UC3,
	)
	return &mat
}

// BlockFrame creates a black frame with a white square at the given
// top-left corner. Moving the square between frames triggers the
// motion detector.
func BlockFrame(x, y int) *gocv.Mat {
	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	rect := image.Rect(x, y, x+120, y+120)
	gocv.Rectangle(&mat, rect, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	return &mat
}

// MovingSequence creates n frames of a square sliding to the right.
// The caller owns the returned Mats.
func MovingSequence(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, BlockFrame(40*i, 100))
	}
	return frames
}

// CloseFrames closes every Mat in the slice.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
