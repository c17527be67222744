package ecs

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/layerdraw/ecs/component"
	"github.com/milk9111/layerdraw/renderset"
	"go.uber.org/zap"
)

// Drawer is a system that also draws.
type Drawer interface {
	Draw(w *World, screen *ebiten.Image)
}

// Draw calls all draw-capable systems in update order.
func (w *World) Draw(screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	for _, s := range w.systems {
		if d, ok := s.(Drawer); ok {
			d.Draw(w, screen)
		}
	}
}

// DrawOrder returns the draw order of every renderable entity. Callers
// refresh it once per frame before reading.
func (w *World) DrawOrder() *renderset.Set[Entity] {
	return w.order
}

// AttachRenderable gives e a render layer and registers it in the draw order.
// Attaching an entity that is already renderable reports a duplicate.
func (w *World) AttachRenderable(e Entity, rl component.RenderLayer) error {
	if !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	s := w.store(renderLayerID, true)
	if !s.Has(e) {
		v := rl
		s.Set(e, &v)
	}
	if err := w.order.Add(e); err != nil {
		return fmt.Errorf("ecs: attach %s: %w", e, err)
	}
	return nil
}

// DetachRenderable removes e from the draw order and drops its render layer.
func (w *World) DetachRenderable(e Entity) bool {
	s := w.store(renderLayerID, false)
	if s == nil || !s.Has(e) {
		return false
	}
	w.order.Remove(e)
	return s.Remove(e)
}

// SetRenderLayer moves e to layer.
func (w *World) SetRenderLayer(e Entity, layer int) error {
	rl, ok := w.renderLayer(e)
	if !ok {
		return fmt.Errorf("set layer of %s: %w", e, component.ErrNotRenderable)
	}
	from := rl.Index
	if from == layer {
		return nil
	}
	if err := w.order.ChangeLayer(e, from, layer); err != nil {
		return fmt.Errorf("ecs: set layer of %s: %w", e, err)
	}
	rl.Index = layer
	w.events.Push(Event{
		Type: EventLayerChanged,
		Data: LayerChangedEvent{Entity: e, From: from, To: layer},
	})
	w.log.Debug("layer changed", zap.Stringer("entity", e), zap.Int("from", from), zap.Int("to", layer))
	return nil
}

// SetLayerDepth changes e's depth and invalidates its layer order.
func (w *World) SetLayerDepth(e Entity, depth float64) error {
	rl, ok := w.renderLayer(e)
	if !ok {
		return fmt.Errorf("set depth of %s: %w", e, component.ErrNotRenderable)
	}
	if rl.Depth == depth {
		return nil
	}
	rl.Depth = depth
	w.order.InvalidateLayer(rl.Index)
	return nil
}

// RenderLayer returns e's render layer.
func (w *World) RenderLayer(e Entity) (component.RenderLayer, bool) {
	rl, ok := w.renderLayer(e)
	if !ok {
		return component.RenderLayer{}, false
	}
	return *rl, true
}

func (w *World) renderLayer(e Entity) (*component.RenderLayer, bool) {
	s := w.store(renderLayerID, false)
	if s == nil {
		return nil, false
	}
	rl, ok := s.Get(e).(*component.RenderLayer)
	return rl, ok && rl != nil
}

// renderKeys reads draw order keys from the RenderLayer store.
type renderKeys struct {
	w *World
}

func (k renderKeys) Layer(e Entity) int {
	if rl, ok := k.w.renderLayer(e); ok {
		return rl.Index
	}
	return 0
}

func (k renderKeys) Depth(e Entity) float64 {
	if rl, ok := k.w.renderLayer(e); ok {
		return rl.Depth
	}
	return 0
}
