package scene

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/layerdraw/ecs"
	"github.com/milk9111/layerdraw/ecs/component"
)

func TestBuildCourtyard(t *testing.T) {
	spec, err := LoadSpec[Spec]("", "courtyard")
	require.NoError(t, err)

	w := ecs.NewWorld()
	s, err := Build(w, "", spec)
	require.NoError(t, err)
	require.Len(t, s.Entities, len(spec.Entities))

	order := w.DrawOrder()
	require.Equal(t, len(spec.Entities), order.Len())
	order.Refresh()

	first, err := order.At(0)
	require.NoError(t, err)
	require.Equal(t, s.Entities["sky"], first)
	last, err := order.At(order.Len() - 1)
	require.NoError(t, err)
	require.Equal(t, s.Entities["hud_bar"], last)
	require.Equal(t, []ecs.Entity{s.Entities["moon"], s.Entities["far_hills"]}, order.Layer(-5))

	lantern := s.Entities["lantern"]
	sc, ok := ecs.Get(w, lantern, component.ScriptComponent.Kind())
	require.True(t, ok)
	require.Contains(t, string(sc.Source), "set_depth")

	body, ok := ecs.Get(w, s.Entities["crate_a"], component.BodyComponent.Kind())
	require.True(t, ok)
	require.True(t, body.YSort)
	require.Equal(t, 64.0, body.Width)

	cam, ok := ecs.Get(w, s.Camera, component.CameraComponent.Kind())
	require.True(t, ok)
	require.Equal(t, 1.0, cam.Zoom)

	s.Clear(w)
	require.Zero(t, order.Len())
	require.Empty(t, ecs.Entities(w))
}

func TestBuildFailureLeavesWorldEmpty(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
		err  string
	}{
		{
			name: "duplicate_name",
			spec: Spec{Name: "dup", Entities: []EntitySpec{{Name: "a"}, {Name: "a", Layer: 1}}},
			err:  `duplicate entity name "a"`,
		},
		{
			name: "missing_script",
			spec: Spec{Name: "noscript", Entities: []EntitySpec{{Name: "a"}, {Name: "b", Script: "nope.tengo"}}},
			err:  "load script nope.tengo",
		},
		{
			name: "image_without_dir",
			spec: Spec{Name: "noimage", Entities: []EntitySpec{{Name: "a", Sprite: SpriteSpec{Image: "images/a.png"}}}},
			err:  "scene has no directory",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, err := Build(w, "", c.spec)
			require.ErrorContains(t, err, c.err)
			require.Empty(t, ecs.Entities(w))
			require.Zero(t, w.DrawOrder().Len())
		})
	}
}

func TestBuildNamesUnnamedEntities(t *testing.T) {
	w := ecs.NewWorld()
	s, err := Build(w, "", Spec{Entities: []EntitySpec{{}, {Layer: 3}}})
	require.NoError(t, err)
	require.Contains(t, s.Entities, "entity_0")
	require.Contains(t, s.Entities, "entity_1")

	name, ok := ecs.Get(w, s.Entities["entity_1"], component.NameComponent.Kind())
	require.True(t, ok)
	require.Equal(t, "entity_1", name.Value)
}

func TestBuildMissingImage(t *testing.T) {
	w := ecs.NewWorld()
	spec := Spec{Name: "img", Entities: []EntitySpec{{Name: "crate", Sprite: SpriteSpec{Image: "images/crate.png"}}}}
	_, err := Build(w, t.TempDir(), spec)
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.Empty(t, ecs.Entities(w))
}
