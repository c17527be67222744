package ecs

import "github.com/milk9111/layerdraw/ecs/component"

// ForEach calls fn for every live entity holding a component of kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := w.store(kind.ID(), false)
	if s == nil {
		return
	}
	ents := append([]Entity(nil), s.Entities()...)
	for _, e := range ents {
		if !w.entities.isAlive(e) {
			continue
		}
		if v, ok := s.Get(e).(*T); ok {
			fn(e, v)
		}
	}
}

// ForEach2 calls fn for every live entity holding both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := w.store(ka.ID(), false)
	sb := w.store(kb.ID(), false)
	for _, e := range IntersectEntities(sa, sb) {
		if !w.entities.isAlive(e) {
			continue
		}
		a, okA := sa.Get(e).(*A)
		b, okB := sb.Get(e).(*B)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// IntersectEntities returns entities present in both sets.
func IntersectEntities(a, b *SparseSet) []Entity {
	if a == nil || b == nil {
		return nil
	}
	// iterate smaller set
	if len(a.denseEntities) > len(b.denseEntities) {
		a, b = b, a
	}
	out := make([]Entity, 0, len(a.denseEntities))
	for _, e := range a.denseEntities {
		if b.Has(e) {
			out = append(out, e)
		}
	}
	return out
}
