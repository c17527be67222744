package system

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/layerdraw/ecs"
	"github.com/milk9111/layerdraw/ecs/component"
)

func scripted(t *testing.T, w *ecs.World, src string) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, w.AttachRenderable(e, component.RenderLayer{Index: 1, Depth: 4}))
	require.NoError(t, ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: "test.tengo", Source: []byte(src)}))
	return e
}

func TestScriptMovesEntity(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewScriptSystem())
	e := scripted(t, w, `
if frame == 1 {
	set_layer(layer + 2)
}
set_depth(depth - 1.5)
`)

	w.Update()
	rl, ok := w.RenderLayer(e)
	require.True(t, ok)
	require.Equal(t, component.RenderLayer{Index: 3, Depth: 2.5}, rl)
	require.Equal(t, 1, w.Events().Len())

	w.Update()
	rl, _ = w.RenderLayer(e)
	require.Equal(t, component.RenderLayer{Index: 3, Depth: 1}, rl)

	w.DrawOrder().Refresh()
	require.Equal(t, []ecs.Entity{e}, w.DrawOrder().Layer(3))
	require.Empty(t, w.DrawOrder().Layer(1))
}

func TestScriptErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := ecs.NewWorld(ecs.WithLogger(zap.New(core)))
	s := NewScriptSystem()
	w.AddSystem(s)

	bad := scripted(t, w, `set_layer([])`)
	broken := scripted(t, w, `set_layer(`)

	w.Update()
	w.Update()

	rl, _ := w.RenderLayer(bad)
	require.Equal(t, 1, rl.Index)
	require.Equal(t, 2, logs.FilterMessage("script: run").Len())
	require.Equal(t, 1, logs.FilterMessage("script: compile").Len(), "a broken script compiles once")

	sc, ok := ecs.Get(w, broken, component.ScriptComponent.Kind())
	require.True(t, ok)
	sc.Source = []byte(`set_layer(7)`)
	w.Update()
	rl, _ = w.RenderLayer(broken)
	require.Equal(t, 7, rl.Index)

	require.True(t, ecs.DestroyEntity(w, bad))
	w.Update()
	require.Len(t, s.runtimes, 1)
}
