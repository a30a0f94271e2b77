// Package interaction fuses the discrete touch input stream and the
// per-frame optical pinch stream into selection and movement of scene
// objects.
package interaction

import (
	"sync"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/scene"
)

// PanSensitivity scales raw pan deltas (in screen pixels) to world
// meters.
const PanSensitivity = 0.0001

// Coordinator drives selection and movement of scene objects. The touch
// path (OnTap, OnPan) and the per-frame pinch path (OnPinch) arrive on
// different cadences; a single mutex serializes every write so the two
// streams never race on the same object.
type Coordinator struct {
	mu        sync.Mutex
	registry  *scene.Registry
	raycaster scene.Raycaster

	// Pinch-grab anchor: the last world position the pinch was seen
	// at. Defined only while a pinch is holding an object.
	anchor    scene.Vector3
	hasAnchor bool

	onMove func(id scene.ObjectID, pos scene.Vector3)
}

// NewCoordinator creates a Coordinator over the given registry and
// plane raycaster.
func NewCoordinator(registry *scene.Registry, raycaster scene.Raycaster) *Coordinator {
	return &Coordinator{
		registry:  registry,
		raycaster: raycaster,
	}
}

// SetMoveCallback registers the callback invoked after an object moves,
// whichever input stream moved it.
func (c *Coordinator) SetMoveCallback(fn func(id scene.ObjectID, pos scene.Vector3)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMove = fn
}

// OnTap handles a discrete tap at a normalized screen point (Y down,
// as delivered by the input layer). A hit selects the object; a miss
// deselects whatever is selected.
func (c *Coordinator) OnTap(pt detector.Point2D) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pt.Y = 1 - pt.Y

	if id, ok := c.registry.HitTest(pt); ok {
		c.registry.Select(id)
		return
	}
	c.registry.Deselect()
}

// OnPan handles a discrete pan step. The selected object translates by
// (dx, 0, dy) scaled by PanSensitivity; movement stays on the plane, so
// world Y never changes. Without a selection the pan is a no-op.
func (c *Coordinator) OnPan(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.registry.Selection()
	if !ok {
		return
	}

	obj, ok := c.registry.Get(id)
	if !ok {
		return
	}

	pos := obj.Position
	pos.X += dx * PanSensitivity
	pos.Z += dy * PanSensitivity

	c.registry.SetPosition(id, pos)
	c.notifyMove(id, pos)
}

// OnPinch handles one pinch state-machine event per frame.
//
// Start grabs the object under the pinch midpoint, if the midpoint
// raycasts onto the plane and an object is rendered there. Move drags
// the grabbed object by the world-space delta between successive
// raycasts; a raycast miss skips the frame without ending the grab.
// End and Lost release the grab but keep the selection.
func (c *Coordinator) OnPinch(ev gesture.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Kind {
	case gesture.EventStart:
		world, ok := c.raycaster.Raycast(ev.Midpoint)
		if !ok {
			return
		}
		id, ok := c.registry.HitTest(ev.Midpoint)
		if !ok {
			return
		}
		c.registry.Select(id)
		c.anchor = world
		c.hasAnchor = true

	case gesture.EventMove:
		if !c.hasAnchor {
			return
		}
		id, ok := c.registry.Selection()
		if !ok {
			c.hasAnchor = false
			return
		}
		world, ok := c.raycaster.Raycast(ev.Midpoint)
		if !ok {
			// Miss: the object and the anchor stay where they are
			return
		}

		obj, ok := c.registry.Get(id)
		if !ok {
			c.hasAnchor = false
			return
		}

		pos := obj.Position.Add(world.Sub(c.anchor))
		c.registry.SetPosition(id, pos)
		c.anchor = world
		c.notifyMove(id, pos)

	case gesture.EventEnd, gesture.EventLost:
		// Release the grab; deselection only happens via a tap miss
		c.hasAnchor = false
	}
}

// Grabbing reports whether a pinch currently holds an object, and the
// current anchor when it does.
func (c *Coordinator) Grabbing() (scene.Vector3, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anchor, c.hasAnchor
}

func (c *Coordinator) notifyMove(id scene.ObjectID, pos scene.Vector3) {
	if c.onMove != nil {
		c.onMove(id, pos)
	}
}
