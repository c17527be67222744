package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerdraw/config"
	"github.com/milk9111/layerdraw/ecs"
	"github.com/milk9111/layerdraw/ecs/system"
	"github.com/milk9111/layerdraw/renderset"
	"github.com/milk9111/layerdraw/scene"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

var background = color.RGBA{0x10, 0x10, 0x18, 0xff}

type game struct {
	cfg *config.Config
	log *zap.Logger

	world   *ecs.World
	physics *system.PhysicsSystem
	render  *system.RenderSystem
	scene   *scene.Scene
	watcher *scene.Watcher

	debug bool
	face  *text.GoXFace
}

func newGame(cfg *config.Config, log *zap.Logger) (*game, error) {
	spec, err := scene.LoadSpec[scene.Spec](cfg.Scene.Dir, cfg.Scene.Name)
	if err != nil {
		return nil, err
	}

	var orderOpts []renderset.Option
	if !cfg.Order.Strict {
		orderOpts = append(orderOpts, renderset.WithRelaxedDuplicates())
	}
	world := ecs.NewWorld(ecs.WithLogger(log), ecs.WithOrderOptions(orderOpts...))

	g := &game{
		cfg:     cfg,
		log:     log,
		world:   world,
		physics: system.NewPhysicsSystem(spec.Gravity, spec.FloorY),
		render:  system.NewRenderSystem(),
		debug:   cfg.Debug,
		face:    text.NewGoXFace(basicfont.Face7x13),
	}
	// Scripts run before physics; y-sorted depths are written last.
	world.AddSystem(ecs.NewScheduler(system.NewScriptSystem(), g.physics))
	world.AddSystem(g.render)

	g.scene, err = scene.Build(world, cfg.Scene.Dir, spec)
	if err != nil {
		return nil, err
	}
	log.Info("scene loaded", zap.String("scene", spec.Name), zap.Int("renderables", world.DrawOrder().Len()))

	if cfg.Scene.Watch {
		g.watcher, err = scene.NewWatcher(
			filepath.Join(cfg.Scene.Dir, "scenes"),
			filepath.Join(cfg.Scene.Dir, "scripts"),
		)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", cfg.Scene.Dir, err)
		}
	}
	return g, nil
}

func (g *game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	g.pollWatcher()

	g.world.Update()

	for _, evt := range g.world.Events().Drain() {
		if lc, ok := evt.Data.(ecs.LayerChangedEvent); ok {
			g.log.Debug("entity changed layer",
				zap.Stringer("entity", lc.Entity),
				zap.Int("from", lc.From),
				zap.Int("to", lc.To))
		}
	}
	return nil
}

func (g *game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Debug("scene file changed", zap.String("path", path))
			changed = true
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("scene watcher", zap.Error(err))
		default:
			if changed {
				g.reload()
			}
			return
		}
	}
}

// reload builds the scene again from disk. The running scene is only
// replaced once the new one built cleanly.
func (g *game) reload() {
	spec, err := scene.LoadSpec[scene.Spec](g.cfg.Scene.Dir, g.cfg.Scene.Name)
	if err != nil {
		g.log.Error("reload scene", zap.Error(err))
		return
	}
	next, err := scene.Build(g.world, g.cfg.Scene.Dir, spec)
	if err != nil {
		g.log.Error("reload scene", zap.Error(err))
		return
	}
	g.scene.Clear(g.world)
	g.scene = next
	g.physics.Space().SetGravity(cp.Vector{X: 0, Y: spec.Gravity})
	g.log.Info("scene reloaded", zap.String("scene", spec.Name), zap.Int("renderables", g.world.DrawOrder().Len()))
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.world.Draw(screen)

	if g.debug {
		g.drawOverlay(screen)
	}
}

func (g *game) drawOverlay(screen *ebiten.Image) {
	order := g.world.DrawOrder()
	stats := order.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "FPS %.1f  TPS %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	fmt.Fprintf(&b, "renderables %d  drawn %d\n", order.Len(), len(g.render.DrawList(g.world)))
	fmt.Fprintf(&b, "sorts global %d  layer %d\n", stats.GlobalSorts, stats.LayerSorts)
	for _, layer := range order.Layers() {
		fmt.Fprintf(&b, "layer %4d: %d\n", layer, len(order.Layer(layer)))
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.LineSpacing = 14
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, b.String(), g.face, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
