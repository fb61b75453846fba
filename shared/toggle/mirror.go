package toggle

import "sync/atomic"

// Mirror is an observer's copy of a replicated value. The transport feeds it
// through Apply; readers on any goroutine see the latest accepted snapshot.
type Mirror[T any] struct {
	cur atomic.Pointer[snapshot[T]]
}

// Apply accepts v only if rev is newer than what the mirror already holds, so
// a reordered or duplicated delivery can never make the value go backwards.
func (m *Mirror[T]) Apply(rev uint64, v T) bool {
	next := &snapshot[T]{value: v, rev: rev}
	for {
		old := m.cur.Load()
		if old != nil && rev <= old.rev {
			return false
		}
		if m.cur.CompareAndSwap(old, next) {
			return true
		}
	}
}

// Ready reports whether at least one value has been applied.
func (m *Mirror[T]) Ready() bool {
	return m.cur.Load() != nil
}

func (m *Mirror[T]) Read() T {
	if s := m.cur.Load(); s != nil {
		return s.value
	}
	var zero T
	return zero
}

func (m *Mirror[T]) Revision() uint64 {
	if s := m.cur.Load(); s != nil {
		return s.rev
	}
	return 0
}
