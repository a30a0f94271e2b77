package scene

import (
	"sync"

	"github.com/ayusman/mudra/internal/detector"
)

// Picker resolves a screen point to the object rendered there, if any.
// Screen points are normalized with Y up. Implemented by the rendering
// layer; RadiusPicker is the built-in reference implementation.
type Picker interface {
	Pick(pt detector.Point2D) (ObjectID, bool)
}

// Registry tracks every selectable object and enforces the selection
// invariant: at most one object is selected at any time, no matter
// which input path asked for it.
type Registry struct {
	mu        sync.RWMutex
	objects   map[ObjectID]*Object
	selected  ObjectID // empty when nothing is selected
	picker    Picker
	onDisplay func(id ObjectID, state DisplayState)
}

// NewRegistry creates an empty Registry that resolves hit tests through
// the given picker.
func NewRegistry(picker Picker) *Registry {
	return &Registry{
		objects: make(map[ObjectID]*Object),
		picker:  picker,
	}
}

// SetDisplayCallback registers the callback invoked whenever an
// object's display state changes. The callback runs with the registry
// lock held; it must not call back into the registry.
func (r *Registry) SetDisplayCallback(fn func(id ObjectID, state DisplayState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDisplay = fn
}

// Add inserts an object into the registry. An object added with an ID
// already present replaces the old one.
func (r *Registry) Add(obj Object) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if obj.State == "" {
		obj.State = restingState(obj.Completed)
	}
	r.objects[obj.ID] = &obj
}

// Remove deletes an object. Removing the selected object clears the
// selection.
func (r *Registry) Remove(id ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.selected == id {
		r.selected = ""
	}
	delete(r.objects, id)
}

// Get returns a copy of the object with the given ID.
func (r *Registry) Get(id ObjectID) (Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[id]
	if !ok {
		return Object{}, false
	}
	return *obj, true
}

// List returns a copy of every object in the registry.
func (r *Registry) List() []Object {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Object, 0, len(r.objects))
	for _, obj := range r.objects {
		list = append(list, *obj)
	}
	return list
}

// HitTest resolves a screen point to an object via the picker.
func (r *Registry) HitTest(pt detector.Point2D) (ObjectID, bool) {
	r.mu.RLock()
	picker := r.picker
	r.mu.RUnlock()

	if picker == nil {
		return "", false
	}
	return picker.Pick(pt)
}

// Select marks the given object as selected, implicitly deselecting any
// previous selection. Selecting an unknown ID is a no-op and reports
// false.
func (r *Registry) Select(id ObjectID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[id]
	if !ok {
		return false
	}

	if r.selected == id {
		return true
	}

	r.deselectLocked()

	r.selected = id
	obj.State = StateSelected
	r.notifyLocked(id, StateSelected)
	return true
}

// Deselect clears the current selection, reverting the object's display
// state to idle or completed per its completion flag.
func (r *Registry) Deselect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deselectLocked()
}

// Selection returns the currently selected object ID, if any.
func (r *Registry) Selection() (ObjectID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.selected == "" {
		return "", false
	}
	return r.selected, true
}

// SetPosition updates an object's world position.
func (r *Registry) SetPosition(id ObjectID, pos Vector3) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[id]
	if !ok {
		return false
	}
	obj.Position = pos
	return true
}

// SetCompleted updates an object's completion flag. A selected object
// keeps its selected appearance; the new resting state shows once it is
// deselected.
func (r *Registry) SetCompleted(id ObjectID, completed bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.objects[id]
	if !ok {
		return false
	}

	obj.Completed = completed
	if r.selected != id {
		obj.State = restingState(completed)
		r.notifyLocked(id, obj.State)
	}
	return true
}

func (r *Registry) deselectLocked() {
	if r.selected == "" {
		return
	}

	if obj, ok := r.objects[r.selected]; ok {
		obj.State = restingState(obj.Completed)
		r.notifyLocked(obj.ID, obj.State)
	}
	r.selected = ""
}

func (r *Registry) notifyLocked(id ObjectID, state DisplayState) {
	if r.onDisplay != nil {
		r.onDisplay(id, state)
	}
}
