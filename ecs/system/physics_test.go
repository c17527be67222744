package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/layerdraw/ecs"
	"github.com/milk9111/layerdraw/ecs/component"
)

func TestPhysicsYSortDrivesDepth(t *testing.T) {
	w := ecs.NewWorld()
	p := NewPhysicsSystem(500, 0)
	w.AddSystem(p)

	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: 10, Y: 0}))
	require.NoError(t, ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Mass: 1, Width: 8, Height: 8, YSort: true}))
	require.NoError(t, w.AttachRenderable(e, component.RenderLayer{Index: 1}))

	other := ecs.CreateEntity(w)
	require.NoError(t, w.AttachRenderable(other, component.RenderLayer{Index: 1, Depth: 0.01}))

	for range 30 {
		w.Update()
	}

	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	require.Greater(t, tr.Y, 0.0)

	rl, ok := w.RenderLayer(e)
	require.True(t, ok)
	require.Equal(t, tr.Y, rl.Depth)

	order := w.DrawOrder()
	order.Refresh()
	require.Equal(t, []ecs.Entity{other, e}, order.Layer(1))
}

func TestPhysicsDropsRemovedBodies(t *testing.T) {
	w := ecs.NewWorld()
	p := NewPhysicsSystem(100, 50)
	w.AddSystem(p)

	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{}))
	require.NoError(t, ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Width: 4, Height: 4}))

	w.Update()
	require.Len(t, p.bodies, 1)

	require.True(t, ecs.Remove(w, e, component.BodyComponent.Kind()))
	w.Update()
	require.Empty(t, p.bodies)
	require.Empty(t, p.shapes)
}
