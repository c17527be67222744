package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerdraw/ecs"
	"github.com/milk9111/layerdraw/ecs/component"
	"go.uber.org/zap"
)

const physicsStep = 1.0 / 60.0

// PhysicsSystem steps a chipmunk space and copies body positions back into
// transforms. Y-sorted bodies push their Y into the layer depth, which is the
// only per-frame depth change the draw order has to re-sort for.
type PhysicsSystem struct {
	space   *cp.Space
	bodies  map[ecs.Entity]*cp.Body
	shapes  map[ecs.Entity]*cp.Shape
	tracked []ecs.Entity
}

// NewPhysicsSystem creates a space with downward gravity. A positive floorY
// adds a static floor segment at that height.
func NewPhysicsSystem(gravity, floorY float64) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	if floorY > 0 {
		floor := cp.NewSegment(space.StaticBody, cp.Vector{X: -1e5, Y: floorY}, cp.Vector{X: 1e5, Y: floorY}, 0)
		floor.SetFriction(1)
		space.AddShape(floor)
	}

	return &PhysicsSystem{
		space:  space,
		bodies: make(map[ecs.Entity]*cp.Body),
		shapes: make(map[ecs.Entity]*cp.Shape),
	}
}

// Space returns the underlying Chipmunk space.
func (p *PhysicsSystem) Space() *cp.Space {
	if p == nil {
		return nil
	}
	return p.space
}

func (p *PhysicsSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}

	seen := make(map[ecs.Entity]struct{}, len(p.bodies))
	p.tracked = p.tracked[:0]
	ecs.ForEach2(w, component.BodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.Body, t *component.Transform) {
		p.ensureBody(e, b, t)
		seen[e] = struct{}{}
		if !b.Static {
			p.tracked = append(p.tracked, e)
		}
	})
	for e := range p.bodies {
		if _, ok := seen[e]; !ok {
			p.removeBody(e)
		}
	}

	p.space.Step(physicsStep)

	for _, e := range p.tracked {
		body := p.bodies[e]
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || body == nil {
			continue
		}
		pos := body.Position()
		t.X, t.Y = pos.X, pos.Y

		b, _ := ecs.Get(w, e, component.BodyComponent.Kind())
		if b == nil || !b.YSort {
			continue
		}
		if err := w.SetLayerDepth(e, pos.Y); err != nil {
			w.Logger().Warn("physics: y-sort depth", zap.Stringer("entity", e), zap.Error(err))
		}
	}
}

func (p *PhysicsSystem) ensureBody(e ecs.Entity, b *component.Body, t *component.Transform) {
	if _, ok := p.bodies[e]; ok {
		return
	}
	width, height := b.Width, b.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	var body *cp.Body
	if b.Static {
		body = cp.NewStaticBody()
	} else {
		mass := b.Mass
		if mass <= 0 {
			mass = 1
		}
		body = cp.NewBody(mass, cp.MomentForBox(mass, width, height))
	}
	body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0.7)

	p.space.AddBody(body)
	p.space.AddShape(shape)
	p.bodies[e] = body
	p.shapes[e] = shape
}

func (p *PhysicsSystem) removeBody(e ecs.Entity) {
	if shape := p.shapes[e]; shape != nil {
		p.space.RemoveShape(shape)
	}
	if body := p.bodies[e]; body != nil {
		p.space.RemoveBody(body)
	}
	delete(p.shapes, e)
	delete(p.bodies, e)
}
