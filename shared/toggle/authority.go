package toggle

import (
	"fmt"
	"sync"

	"github.com/automoto/togglesync/shared/netconfig"
)

// Change describes one committed mutation.
type Change struct {
	ID       string
	On       bool
	Revision uint64
}

// StateAuthority holds the single source of truth for one toggle. Only an
// instance created with netconfig.RoleAuthority can mutate it; other roles get
// ErrPermissionDenied and leave the value untouched.
type StateAuthority struct {
	id   string
	role netconfig.Role
	cell *AtomicCell[bool]

	mu        sync.RWMutex
	listeners []func(Change)
}

func NewStateAuthority(id string, role netconfig.Role, initial bool) *StateAuthority {
	return &StateAuthority{
		id:   id,
		role: role,
		cell: NewAtomicCell(initial),
	}
}

func (a *StateAuthority) ID() string { return a.id }

func (a *StateAuthority) Role() netconfig.Role { return a.role }

// Toggle flips the value.
func (a *StateAuthority) Toggle() error {
	if a.role != netconfig.RoleAuthority {
		return fmt.Errorf("toggle %q as %s: %w", a.id, a.role, ErrPermissionDenied)
	}
	return a.SetState(!a.cell.Read())
}

// SetState assigns v. Setting the current value is a no-op.
func (a *StateAuthority) SetState(v bool) error {
	changed, err := a.cell.Write(a.role, v)
	if err != nil {
		return fmt.Errorf("set %q as %s: %w", a.id, a.role, err)
	}
	if changed {
		on, rev := a.cell.Load()
		a.notify(Change{ID: a.id, On: on, Revision: rev})
	}
	return nil
}

// Read returns the last committed value. It never blocks.
func (a *StateAuthority) Read() bool { return a.cell.Read() }

func (a *StateAuthority) Revision() uint64 { return a.cell.Revision() }

// Snapshot returns value and revision from the same commit.
func (a *StateAuthority) Snapshot() (bool, uint64) { return a.cell.Load() }

func (a *StateAuthority) IsActive() bool { return a.Read() }

// Cell exposes the read side for observers living in the same process.
func (a *StateAuthority) Cell() ReplicatedCell[bool] { return a.cell }

// OnChange registers fn to run synchronously after every committed mutation.
func (a *StateAuthority) OnChange(fn func(Change)) {
	a.mu.Lock()
	a.listeners = append(a.listeners, fn)
	a.mu.Unlock()
}

func (a *StateAuthority) notify(c Change) {
	a.mu.RLock()
	listeners := a.listeners
	a.mu.RUnlock()
	for _, fn := range listeners {
		fn(c)
	}
}
