package ecs

import (
	"github.com/milk9111/layerdraw/ecs/component"
	"github.com/milk9111/layerdraw/renderset"
	"go.uber.org/zap"
)

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// World owns entities, component stores, systems and the draw order of every
// renderable entity.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	systems  []System
	events   EventQueue
	order    *renderset.Set[Entity]
	log      *zap.Logger
	frame    uint64
}

// Option configures a World.
type Option func(*worldOptions)

type worldOptions struct {
	log   *zap.Logger
	order []renderset.Option
}

// WithLogger sets the world logger. Systems log through World.Logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *worldOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithOrderOptions forwards options to the world's draw order.
func WithOrderOptions(opts ...renderset.Option) Option {
	return func(o *worldOptions) {
		o.order = append(o.order, opts...)
	}
}

// NewWorld creates an empty ECS world.
func NewWorld(opts ...Option) *World {
	o := worldOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	w := &World{
		stores: make(map[component.ComponentID]*SparseSet),
		log:    o.log,
	}
	orderOpts := append([]renderset.Option{renderset.WithLogger(o.log.Named("renderset"))}, o.order...)
	w.order = renderset.New[Entity](renderKeys{w: w}, orderOpts...)
	return w
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes e from the draw order, drops its components and
// frees its slot. It reports whether e was alive.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	w.DetachRenderable(e)
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	return w.entities.all()
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs all systems once. Events pushed during the previous update are
// dropped first, so they stay readable between updates.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.events.flush()
	w.frame++
	for _, s := range w.systems {
		s.Update(w)
	}
}

// Frame returns the number of completed updates.
func (w *World) Frame() uint64 {
	return w.frame
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Logger returns the world logger.
func (w *World) Logger() *zap.Logger {
	return w.log
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
