package renderset

import "sync"

// Locked serializes every call on a Set behind one mutex. The dirty-flag
// protocol assumes a single writer, so mutations and Refresh share the lock.
// Read accessors return copies instead of views.
type Locked[T comparable] struct {
	mu  sync.Mutex
	set *Set[T]
}

// NewLocked wraps set. The caller must stop using set directly.
func NewLocked[T comparable](set *Set[T]) *Locked[T] {
	return &Locked[T]{set: set}
}

func (l *Locked[T]) Add(r T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Add(r)
}

func (l *Locked[T]) Remove(r T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Remove(r)
}

func (l *Locked[T]) ChangeLayer(r T, oldLayer, newLayer int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.ChangeLayer(r, oldLayer, newLayer)
}

func (l *Locked[T]) InvalidateLayer(layer int) {
	l.mu.Lock()
	l.set.InvalidateLayer(layer)
	l.mu.Unlock()
}

func (l *Locked[T]) Refresh() {
	l.mu.Lock()
	l.set.Refresh()
	l.mu.Unlock()
}

func (l *Locked[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Len()
}

func (l *Locked[T]) At(i int) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.At(i)
}

// Layer returns a copy of the layer's current sequence.
func (l *Locked[T]) Layer(layer int) []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.set.Layer(layer)...)
}

// Snapshot returns a copy of the global sequence in its current order.
func (l *Locked[T]) Snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, 0, l.set.Len())
	for _, r := range l.set.All() {
		out = append(out, r)
	}
	return out
}

// Do runs fn with exclusive access to the wrapped set.
func (l *Locked[T]) Do(fn func(s *Set[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.set)
}
