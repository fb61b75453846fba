// Package toggle holds the replicated boolean state shared by the server and
// every observer: a single-writer cell, the StateAuthority that guards it and
// the observer-side Mirror fed by the transport.
package toggle

import (
	"sync/atomic"

	"github.com/automoto/togglesync/shared/netconfig"
)

// ReplicatedCell is the read side of a replicated value.
type ReplicatedCell[T any] interface {
	Read() T
	Revision() uint64
}

// Source is what a visual follows.
type Source interface {
	IsActive() bool
}

type snapshot[T any] struct {
	value T
	rev   uint64
}

// AtomicCell is a single-writer, multi-reader cell. Readers load an immutable
// snapshot so they never observe a value without its revision.
type AtomicCell[T comparable] struct {
	cur atomic.Pointer[snapshot[T]]
}

func NewAtomicCell[T comparable](initial T) *AtomicCell[T] {
	c := &AtomicCell[T]{}
	c.cur.Store(&snapshot[T]{value: initial})
	return c
}

// Load returns the committed value together with its revision.
func (c *AtomicCell[T]) Load() (T, uint64) {
	s := c.cur.Load()
	if s == nil {
		var zero T
		return zero, 0
	}
	return s.value, s.rev
}

func (c *AtomicCell[T]) Read() T {
	v, _ := c.Load()
	return v
}

func (c *AtomicCell[T]) Revision() uint64 {
	_, rev := c.Load()
	return rev
}

// Write commits v if role is the authority. Writing the current value is a
// no-op and does not bump the revision. Only one goroutine may write.
func (c *AtomicCell[T]) Write(role netconfig.Role, v T) (changed bool, err error) {
	if role != netconfig.RoleAuthority {
		return false, ErrPermissionDenied
	}
	old, rev := c.Load()
	if old == v {
		return false, nil
	}
	c.cur.Store(&snapshot[T]{value: v, rev: rev + 1})
	return true, nil
}

// BoolSource adapts any boolean cell to a Source.
func BoolSource(c ReplicatedCell[bool]) Source {
	return cellSource{c}
}

type cellSource struct {
	ReplicatedCell[bool]
}

func (s cellSource) IsActive() bool { return s.Read() }
