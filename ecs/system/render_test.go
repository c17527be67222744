package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/layerdraw/ecs"
	"github.com/milk9111/layerdraw/ecs/component"
)

func spawnSprite(t *testing.T, w *ecs.World, layer int, depth float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{}))
	require.NoError(t, ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{Width: 4, Height: 4}))
	require.NoError(t, w.AttachRenderable(e, component.RenderLayer{Index: layer, Depth: depth}))
	return e
}

func TestDrawListFollowsDrawOrder(t *testing.T) {
	w := ecs.NewWorld()
	back := spawnSprite(t, w, 0, 3)
	front := spawnSprite(t, w, 2, 0)
	mid := spawnSprite(t, w, 0, 1)

	r := NewRenderSystem()
	require.Equal(t, []ecs.Entity{mid, back, front}, r.DrawList(w))

	stats := w.DrawOrder().Stats()
	r.DrawList(w)
	require.Equal(t, stats, w.DrawOrder().Stats(), "an unchanged frame must not sort")

	require.NoError(t, w.SetRenderLayer(front, -1))
	require.Equal(t, []ecs.Entity{front, mid, back}, r.DrawList(w))
}

func TestDrawListSkipsHiddenAndBare(t *testing.T) {
	w := ecs.NewWorld()
	shown := spawnSprite(t, w, 0, 0)
	hidden := spawnSprite(t, w, 0, 1)
	s, ok := ecs.Get(w, hidden, component.SpriteComponent.Kind())
	require.True(t, ok)
	s.Hidden = true

	bare := ecs.CreateEntity(w)
	require.NoError(t, w.AttachRenderable(bare, component.RenderLayer{}))

	require.Equal(t, []ecs.Entity{shown}, NewRenderSystem().DrawList(w))
}

func TestDrawListCameraLayers(t *testing.T) {
	w := ecs.NewWorld()
	ui := spawnSprite(t, w, 10, 0)
	ground := spawnSprite(t, w, 0, 0)
	spawnSprite(t, w, 5, 0)

	cam := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, cam, component.TransformComponent.Kind(), &component.Transform{}))
	require.NoError(t, ecs.Add(w, cam, component.CameraComponent.Kind(), &component.Camera{Zoom: 2, Layers: []int{10, 0}}))

	require.Equal(t, []ecs.Entity{ui, ground}, NewRenderSystem().DrawList(w))
}
