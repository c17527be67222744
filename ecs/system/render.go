package system

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/layerdraw/ecs"
	"github.com/milk9111/layerdraw/ecs/component"
)

// RenderSystem draws sprites in the world's draw order. It refreshes the
// order once per frame; nothing else in the frame sorts.
type RenderSystem struct {
	camEntity ecs.Entity
	list      []ecs.Entity
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

// Update is a no-op (render occurs in Draw).
func (r *RenderSystem) Update(w *ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	list := r.DrawList(w)

	camX, camY, zoom := 0.0, 0.0, 1.0
	if t, ok := ecs.Get(w, r.camEntity, component.TransformComponent.Kind()); ok {
		camX, camY = t.X, t.Y
	}
	if c, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind()); ok && c.Zoom > 0 {
		zoom = c.Zoom
	}

	for _, e := range list {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		s, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
		drawSprite(screen, s, t, camX, camY, zoom)
	}
}

// DrawList refreshes the draw order and returns the visible entities in the
// order they are drawn. With an active camera that lists layers, only those
// layers are drawn, one layer at a time.
func (r *RenderSystem) DrawList(w *ecs.World) []ecs.Entity {
	if !ecs.IsAlive(w, r.camEntity) {
		r.camEntity = 0
		ecs.ForEach(w, component.CameraComponent.Kind(), func(e ecs.Entity, _ *component.Camera) {
			if r.camEntity == 0 {
				r.camEntity = e
			}
		})
	}

	order := w.DrawOrder()
	order.Refresh()

	r.list = r.list[:0]
	cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind())
	if ok && len(cam.Layers) > 0 {
		for _, layer := range cam.Layers {
			for _, e := range order.Layer(layer) {
				r.appendVisible(w, e)
			}
		}
		return r.list
	}

	for _, e := range order.All() {
		r.appendVisible(w, e)
	}
	return r.list
}

func (r *RenderSystem) appendVisible(w *ecs.World, e ecs.Entity) {
	if e == r.camEntity {
		return
	}
	if !ecs.Has(w, e, component.TransformComponent.Kind()) {
		return
	}
	s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
	if !ok || s.Hidden {
		return
	}
	r.list = append(r.list, e)
}

func drawSprite(screen *ebiten.Image, s *component.Sprite, t *component.Transform, camX, camY, zoom float64) {
	if s == nil || t == nil {
		return
	}
	img := spriteImage(s)
	if img == nil {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-s.OriginX, -s.OriginY)

	sx := t.ScaleX
	if sx == 0 {
		sx = 1
	}
	sy := t.ScaleY
	if sy == 0 {
		sy = 1
	}

	op.GeoM.Scale(sx, sy)
	op.GeoM.Rotate(t.Rotation)
	op.GeoM.Scale(zoom, zoom)
	op.GeoM.Translate(math.Round((t.X-camX)*zoom), math.Round((t.Y-camY)*zoom))
	op.Filter = ebiten.FilterNearest

	screen.DrawImage(img, op)
}

// spriteImage lazily fills a solid image for colour-only sprites.
func spriteImage(s *component.Sprite) *ebiten.Image {
	if s.Image != nil {
		return s.Image
	}
	w, h := int(s.Width), int(s.Height)
	if w <= 0 || h <= 0 {
		return nil
	}
	c := s.Color
	if c == nil {
		c = color.White
	}
	s.Image = ebiten.NewImage(w, h)
	s.Image.Fill(c)
	return s.Image
}
