package scene

import (
	"math"
	"sync"

	"github.com/ayusman/mudra/internal/detector"
)

// Raycaster maps a normalized screen point (Y up) to a world position
// on the detected horizontal plane. Implemented by the host AR runtime;
// PlaneRaycaster is the built-in reference implementation.
type Raycaster interface {
	Raycast(pt detector.Point2D) (Vector3, bool)
}

// Camera and plane defaults for the reference projection model.
const (
	// DefaultCameraHeight is the camera's height above the plane, in meters.
	DefaultCameraHeight = 1.4
	// DefaultFOVDegrees is the horizontal field of view.
	DefaultFOVDegrees = 60.0
	// DefaultAspect is the frame aspect ratio (width / height).
	DefaultAspect = 4.0 / 3.0
	// DefaultPickRadius is the screen-space radius within which a
	// projected object counts as hit, in normalized units.
	DefaultPickRadius = 0.06
)

// PlaneRaycaster casts screen points against a single horizontal plane
// using a pinhole camera at (0, CameraHeight, 0) looking down -Z.
type PlaneRaycaster struct {
	CameraHeight float64
	PlaneHeight  float64
	tanH         float64
	tanV         float64
}

// NewPlaneRaycaster creates a PlaneRaycaster with the default camera
// model and the plane at the given height.
func NewPlaneRaycaster(planeHeight float64) *PlaneRaycaster {
	tanH := math.Tan(DefaultFOVDegrees / 2 * math.Pi / 180)
	return &PlaneRaycaster{
		CameraHeight: DefaultCameraHeight,
		PlaneHeight:  planeHeight,
		tanH:         tanH,
		tanV:         tanH / DefaultAspect,
	}
}

// Raycast intersects the ray through the screen point with the plane.
// Rays pointing at or above the horizon miss.
func (p *PlaneRaycaster) Raycast(pt detector.Point2D) (Vector3, bool) {
	dir := p.rayDirection(pt)
	if dir.Y >= 0 {
		return Vector3{}, false
	}

	t := (p.PlaneHeight - p.CameraHeight) / dir.Y
	if t <= 0 {
		return Vector3{}, false
	}

	return Vector3{
		X: t * dir.X,
		Y: p.PlaneHeight,
		Z: -t,
	}, true
}

// Project maps a world position back to a normalized screen point.
// Reports false for positions behind the camera.
func (p *PlaneRaycaster) Project(pos Vector3) (detector.Point2D, bool) {
	// Camera looks down -Z, so visible points have negative Z.
	depth := -pos.Z
	if depth <= 0 {
		return detector.Point2D{}, false
	}

	sx := (pos.X/(depth*p.tanH) + 1) / 2
	sy := ((pos.Y-p.CameraHeight)/(depth*p.tanV) + 1) / 2
	return detector.Point2D{X: sx, Y: sy}, true
}

// rayDirection builds the view ray for a normalized screen point.
// The ray has Z fixed at -1; X and Y scale with the field of view.
func (p *PlaneRaycaster) rayDirection(pt detector.Point2D) Vector3 {
	return Vector3{
		X: (2*pt.X - 1) * p.tanH,
		Y: (2*pt.Y - 1) * p.tanV,
		Z: -1,
	}
}

// RadiusPicker is the reference Picker: it projects object positions
// through the camera model and picks the nearest object whose screen
// projection falls within the pick radius.
type RadiusPicker struct {
	mu        sync.RWMutex
	projector *PlaneRaycaster
	radius    float64
	positions map[ObjectID]Vector3
}

// NewRadiusPicker creates a RadiusPicker sharing the given projection
// model.
func NewRadiusPicker(projector *PlaneRaycaster) *RadiusPicker {
	return &RadiusPicker{
		projector: projector,
		radius:    DefaultPickRadius,
		positions: make(map[ObjectID]Vector3),
	}
}

// Update records an object's current world position.
func (p *RadiusPicker) Update(id ObjectID, pos Vector3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.positions[id] = pos
}

// Forget drops an object from the picker.
func (p *RadiusPicker) Forget(id ObjectID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.positions, id)
}

// Pick returns the object whose projection is nearest to the screen
// point, within the pick radius.
func (p *RadiusPicker) Pick(pt detector.Point2D) (ObjectID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var bestID ObjectID
	bestDist := math.Inf(1)

	for id, pos := range p.positions {
		projected, ok := p.projector.Project(pos)
		if !ok {
			continue
		}

		dist := detector.Distance(pt, projected)
		if dist <= p.radius && dist < bestDist {
			bestID = id
			bestDist = dist
		}
	}

	if math.IsInf(bestDist, 1) {
		return "", false
	}
	return bestID, true
}
