// Package scene holds the virtual objects anchored to the detected
// plane and the selection state shared by all input paths.
package scene

// ObjectID identifies a selectable object in the scene.
type ObjectID string

// DisplayState represents how an object should be rendered.
type DisplayState string

const (
	// StateIdle is the default marker appearance.
	StateIdle DisplayState = "idle"
	// StateSelected highlights the currently selected marker.
	StateSelected DisplayState = "selected"
	// StateCompleted marks a task that has been checked off.
	StateCompleted DisplayState = "completed"
)

// Vector3 is a position in world space, in meters. Y is up.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of two vectors.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the component-wise difference of two vectors.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Object is a selectable marker anchored to the detected plane.
type Object struct {
	ID        ObjectID
	Position  Vector3
	Completed bool
	State     DisplayState
}

// restingState returns the display state an object reverts to when it
// is not selected.
func restingState(completed bool) DisplayState {
	if completed {
		return StateCompleted
	}
	return StateIdle
}
