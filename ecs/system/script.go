package system

import (
	"bytes"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/layerdraw/ecs"
	"github.com/milk9111/layerdraw/ecs/component"
	"go.uber.org/zap"
)

// ScriptSystem runs each entity's tengo script once per update. Scripts read
// the globals frame, layer and depth and move their entity with
// set_layer(n) and set_depth(x).
type ScriptSystem struct {
	runtimes map[ecs.Entity]*scriptRuntime
}

type scriptRuntime struct {
	src      []byte
	compiled *tengo.Compiled
	broken   bool

	layer *int
	depth *float64
}

func NewScriptSystem() *ScriptSystem {
	return &ScriptSystem{runtimes: map[ecs.Entity]*scriptRuntime{}}
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	log := w.Logger()

	for e := range s.runtimes {
		if !ecs.Has(w, e, component.ScriptComponent.Kind()) {
			delete(s.runtimes, e)
		}
	}

	ecs.ForEach(w, component.ScriptComponent.Kind(), func(e ecs.Entity, sc *component.Script) {
		rt, err := s.runtime(e, sc)
		if err != nil {
			log.Warn("script: compile", zap.Stringer("entity", e), zap.String("path", sc.Path), zap.Error(err))
			return
		}
		if rt == nil {
			return
		}
		if err := rt.run(w, e); err != nil {
			log.Warn("script: run", zap.Stringer("entity", e), zap.String("path", sc.Path), zap.Error(err))
		}
	})
}

// runtime returns the compiled script for e, recompiling when the source
// changed. A script that failed to compile stays disabled until it changes.
func (s *ScriptSystem) runtime(e ecs.Entity, sc *component.Script) (*scriptRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && bytes.Equal(rt.src, sc.Source) {
		if rt.broken {
			return nil, nil
		}
		return rt, nil
	}

	rt := &scriptRuntime{src: append([]byte(nil), sc.Source...)}
	s.runtimes[e] = rt

	script := tengo.NewScript(rt.src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	_ = script.Add("frame", 0)
	_ = script.Add("entity", "")
	_ = script.Add("layer", 0)
	_ = script.Add("depth", 0.0)
	_ = script.Add("set_layer", &tengo.UserFunction{Name: "set_layer", Value: rt.setLayer})
	_ = script.Add("set_depth", &tengo.UserFunction{Name: "set_depth", Value: rt.setDepth})

	compiled, err := script.Compile()
	if err != nil {
		rt.broken = true
		return nil, err
	}
	rt.compiled = compiled
	return rt, nil
}

func (rt *scriptRuntime) run(w *ecs.World, e ecs.Entity) error {
	rl, ok := w.RenderLayer(e)
	if !ok {
		return fmt.Errorf("entity %s: %w", e, component.ErrNotRenderable)
	}
	if err := rt.compiled.Set("frame", int64(w.Frame())); err != nil {
		return err
	}
	if err := rt.compiled.Set("entity", e.String()); err != nil {
		return err
	}
	if err := rt.compiled.Set("layer", rl.Index); err != nil {
		return err
	}
	if err := rt.compiled.Set("depth", rl.Depth); err != nil {
		return err
	}

	rt.layer, rt.depth = nil, nil
	if err := rt.compiled.Run(); err != nil {
		return err
	}

	if rt.layer != nil {
		if err := w.SetRenderLayer(e, *rt.layer); err != nil {
			return err
		}
	}
	if rt.depth != nil {
		if err := w.SetLayerDepth(e, *rt.depth); err != nil {
			return err
		}
	}
	return nil
}

func (rt *scriptRuntime) setLayer(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	v, ok := tengo.ToInt(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "layer", Expected: "int", Found: args[0].TypeName()}
	}
	rt.layer = &v
	return tengo.UndefinedValue, nil
}

func (rt *scriptRuntime) setDepth(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	v, ok := tengo.ToFloat64(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "depth", Expected: "float", Found: args[0].TypeName()}
	}
	rt.depth = &v
	return tengo.UndefinedValue, nil
}
