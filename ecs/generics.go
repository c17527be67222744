package ecs

import (
	"github.com/milk9111/layerdraw/ecs/component"
)

var renderLayerID = component.RenderLayerComponent.Kind().ID()

// Add stores v on e, replacing any previous value of the same kind.
// RenderLayer is rejected; use World.AttachRenderable.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], v *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if kind.ID() == renderLayerID {
		return component.ErrManagedComponent
	}
	if v == nil {
		return component.ErrNilComponent
	}
	if !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	w.store(kind.ID(), true).Set(e, v)
	return nil
}

// Remove drops the component of kind from e. Removing RenderLayer detaches
// e from the draw order.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if kind.ID() == renderLayerID {
		return w.DetachRenderable(e)
	}
	s := w.store(kind.ID(), false)
	if s == nil {
		return false
	}
	return s.Remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := w.store(kind.ID(), false)
	return s != nil && s.Has(e)
}

// Get returns a pointer to e's component of kind. Mutating a RenderLayer
// through it bypasses the draw order.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	s := w.store(kind.ID(), false)
	if s == nil {
		return nil, false
	}
	v, ok := s.Get(e).(*T)
	return v, ok && v != nil
}
