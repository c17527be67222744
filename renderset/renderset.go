// Package renderset keeps renderables in draw order: globally by render layer
// then depth, and per layer by depth.
package renderset

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"go.uber.org/zap"
)

var (
	ErrDuplicateEntry  = errors.New("renderset: renderable already in layer")
	ErrNotFound        = errors.New("renderset: renderable not in layer")
	ErrIndexOutOfRange = errors.New("renderset: index out of range")
)

// Keys reads the ordering keys of a renderable handle. The set never caches
// them; they are read again on every mutation and refresh.
type Keys[T any] interface {
	Layer(r T) int
	Depth(r T) float64
}

// KeyFuncs adapts a pair of functions to Keys.
type KeyFuncs[T any] struct {
	LayerOf func(T) int
	DepthOf func(T) float64
}

func (k KeyFuncs[T]) Layer(r T) int     { return k.LayerOf(r) }
func (k KeyFuncs[T]) Depth(r T) float64 { return k.DepthOf(r) }

// Renderable is implemented by values that carry their own ordering keys.
type Renderable interface {
	RenderLayer() int
	LayerDepth() float64
}

type selfKeys[T Renderable] struct{}

func (selfKeys[T]) Layer(r T) int     { return r.RenderLayer() }
func (selfKeys[T]) Depth(r T) float64 { return r.LayerDepth() }

// Stats counts sort invocations performed by Refresh.
type Stats struct {
	GlobalSorts int
	LayerSorts  int
}

// Set keeps renderables in global draw order (layer, then depth) and in
// per-layer depth order. Sorting is deferred until Refresh.
//
// A Set is not safe for concurrent use; see Locked.
type Set[T comparable] struct {
	keys Keys[T]

	all         []T
	byLayer     map[int][]T
	dirtyGlobal bool
	dirtyLayers map[int]struct{}

	relaxed bool
	log     *zap.Logger
	stats   Stats
}

// Option configures a Set.
type Option func(*options)

type options struct {
	log     *zap.Logger
	relaxed bool
}

// WithLogger sets the logger used for relaxed duplicate warnings and refresh
// diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithRelaxedDuplicates turns a duplicate Add into a logged no-op instead of
// an ErrDuplicateEntry.
func WithRelaxedDuplicates() Option {
	return func(o *options) {
		o.relaxed = true
	}
}

// New creates an empty set reading ordering keys through keys.
func New[T comparable](keys Keys[T], opts ...Option) *Set[T] {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Set[T]{
		keys:        keys,
		byLayer:     make(map[int][]T),
		dirtyLayers: make(map[int]struct{}),
		relaxed:     o.relaxed,
		log:         o.log,
	}
}

// NewRenderables creates a set for values that report their own keys.
func NewRenderables[T interface {
	comparable
	Renderable
}](opts ...Option) *Set[T] {
	return New[T](selfKeys[T]{}, opts...)
}

// Add registers r under its current layer. Nothing is sorted until Refresh.
func (s *Set[T]) Add(r T) error {
	layer := s.keys.Layer(r)
	seq := s.layer(layer)
	if slices.Contains(seq, r) {
		if s.relaxed {
			s.log.Warn("renderset: duplicate add ignored", zap.Int("layer", layer))
			return nil
		}
		return fmt.Errorf("add to layer %d: %w", layer, ErrDuplicateEntry)
	}

	s.all = append(s.all, r)
	s.byLayer[layer] = append(seq, r)
	s.markLayer(layer)
	return nil
}

// Remove drops r from the global sequence and from the sequence of its
// current layer. Removing an absent renderable is a no-op. Relative order of
// the remaining renderables is preserved, so no dirty flag is raised.
func (s *Set[T]) Remove(r T) bool {
	removed := false
	if i := slices.Index(s.all, r); i >= 0 {
		s.all = slices.Delete(s.all, i, i+1)
		removed = true
	}

	layer := s.keys.Layer(r)
	if seq, ok := s.byLayer[layer]; ok {
		if i := slices.Index(seq, r); i >= 0 {
			s.byLayer[layer] = slices.Delete(seq, i, i+1)
			removed = true
		}
	}
	return removed
}

// ChangeLayer moves r from oldLayer's sequence to newLayer's sequence.
// Global order depends on the layer, so both views become dirty.
func (s *Set[T]) ChangeLayer(r T, oldLayer, newLayer int) error {
	if oldLayer == newLayer {
		return nil
	}

	src := s.byLayer[oldLayer]
	i := slices.Index(src, r)
	if i < 0 {
		return fmt.Errorf("change layer %d -> %d: %w", oldLayer, newLayer, ErrNotFound)
	}
	dst := s.layer(newLayer)
	if slices.Contains(dst, r) {
		return fmt.Errorf("change layer %d -> %d: %w", oldLayer, newLayer, ErrDuplicateEntry)
	}

	s.byLayer[oldLayer] = slices.Delete(src, i, i+1)
	s.byLayer[newLayer] = append(dst, r)
	s.markLayer(newLayer)
	return nil
}

// Layer returns the renderables registered under layer in their current,
// possibly stale, order. An unseen layer is registered and comes back empty.
// The returned slice is a view: callers must not modify it, and it is only
// valid until the next mutation.
func (s *Set[T]) Layer(layer int) []T {
	return s.layer(layer)
}

// Layers returns every registered layer key in ascending order, including
// layers that are currently empty.
func (s *Set[T]) Layers() []int {
	return slices.Sorted(maps.Keys(s.byLayer))
}

// Contains reports whether r is registered under its current layer.
func (s *Set[T]) Contains(r T) bool {
	return slices.Contains(s.byLayer[s.keys.Layer(r)], r)
}

// InvalidateOrder marks the global sequence for re-sorting.
func (s *Set[T]) InvalidateOrder() {
	s.dirtyGlobal = true
}

// InvalidateLayer must be called after a depth-only change of a renderable in
// layer; the set does not observe renderable mutation on its own.
func (s *Set[T]) InvalidateLayer(layer int) {
	s.layer(layer)
	s.markLayer(layer)
}

// Dirty reports whether the next Refresh has sorting to do.
func (s *Set[T]) Dirty() bool {
	return s.dirtyGlobal || len(s.dirtyLayers) > 0
}

// Refresh re-sorts the views that were invalidated since the last call. It
// is the only operation that sorts; a refresh with nothing dirty is O(1).
func (s *Set[T]) Refresh() {
	if s.dirtyGlobal {
		slices.SortStableFunc(s.all, s.compare)
		s.dirtyGlobal = false
		s.stats.GlobalSorts++
	}

	if len(s.dirtyLayers) == 0 {
		return
	}
	for layer := range s.dirtyLayers {
		slices.SortStableFunc(s.byLayer[layer], s.compareDepth)
		s.stats.LayerSorts++
	}
	s.log.Debug("renderset: refreshed",
		zap.Int("renderables", len(s.all)),
		zap.Int("layers", len(s.dirtyLayers)))
	clear(s.dirtyLayers)
}

// Len returns the number of registered renderables.
func (s *Set[T]) Len() int {
	return len(s.all)
}

// At returns the i-th renderable of the global sequence in its current order.
func (s *Set[T]) At(i int) (T, error) {
	if i < 0 || i >= len(s.all) {
		var zero T
		return zero, fmt.Errorf("at %d of %d: %w", i, len(s.all), ErrIndexOutOfRange)
	}
	return s.all[i], nil
}

// All iterates the global sequence in its current order. It never refreshes;
// call Refresh first when fresh order is required.
func (s *Set[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, r := range s.all {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Stats returns the sort counters.
func (s *Set[T]) Stats() Stats {
	return s.stats
}

// Reset drops every renderable and layer.
func (s *Set[T]) Reset() {
	clear(s.all)
	s.all = s.all[:0]
	clear(s.byLayer)
	clear(s.dirtyLayers)
	s.dirtyGlobal = false
}

func (s *Set[T]) layer(layer int) []T {
	seq, ok := s.byLayer[layer]
	if !ok {
		seq = []T{}
		s.byLayer[layer] = seq
	}
	return seq
}

func (s *Set[T]) markLayer(layer int) {
	s.dirtyLayers[layer] = struct{}{}
	s.dirtyGlobal = true
}

func (s *Set[T]) compare(a, b T) int {
	if c := cmp.Compare(s.keys.Layer(a), s.keys.Layer(b)); c != 0 {
		return c
	}
	return cmp.Compare(s.keys.Depth(a), s.keys.Depth(b))
}

func (s *Set[T]) compareDepth(a, b T) int {
	return cmp.Compare(s.keys.Depth(a), s.keys.Depth(b))
}
