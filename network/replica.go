package network

import (
	"fmt"
	"sort"
	"sync"

	"github.com/automoto/togglesync/shared/netcomponents"
	"github.com/automoto/togglesync/shared/toggle"
	"github.com/leap-fish/necs/esync"
)

// Replica is an observer's view of every toggle the server replicates. Each
// toggle is held in a Mirror so stale snapshots never roll a value back.
type Replica struct {
	mu      sync.RWMutex
	mirrors map[string]*toggle.Mirror[bool]
	synced  bool
}

func NewReplica() *Replica {
	return &Replica{mirrors: make(map[string]*toggle.Mirror[bool])}
}

// ApplySnapshot decodes the toggle components in snapshot and applies them.
// It returns the toggles whose value was accepted as new.
func (r *Replica) ApplySnapshot(snapshot esync.WorldSnapshot) []netcomponents.NetToggleData {
	var states []netcomponents.NetToggleData
	for _, ent := range snapshot {
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				continue
			}
			if data, ok := instance.(netcomponents.NetToggleData); ok {
				states = append(states, data)
			}
		}
	}
	return r.Apply(states...)
}

// Apply feeds decoded states into their mirrors, creating mirrors for toggles
// seen for the first time. Calling Apply marks the replica as synced.
func (r *Replica) Apply(states ...netcomponents.NetToggleData) []netcomponents.NetToggleData {
	r.mu.Lock()
	r.synced = true
	var changed []netcomponents.NetToggleData
	for _, s := range states {
		m, ok := r.mirrors[s.ID]
		if !ok {
			m = &toggle.Mirror[bool]{}
			r.mirrors[s.ID] = m
		}
		before := m.Read()
		if m.Apply(s.Revision, s.On) && (!ok || before != s.On) {
			changed = append(changed, s)
		}
	}
	r.mu.Unlock()
	return changed
}

// Synced reports whether at least one snapshot has been applied.
func (r *Replica) Synced() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.synced
}

// Source returns the mirror of id as a visual source. It fails with
// toggle.ErrMissingDependency while no snapshot has carried id.
func (r *Replica) Source(id string) (toggle.Source, error) {
	r.mu.RLock()
	m, ok := r.mirrors[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("toggle %q: %w", id, toggle.ErrMissingDependency)
	}
	return toggle.BoolSource(m), nil
}

// Value returns the last accepted value of id.
func (r *Replica) Value(id string) (on bool, ok bool) {
	r.mu.RLock()
	m, ok := r.mirrors[id]
	r.mu.RUnlock()
	if !ok {
		return false, false
	}
	return m.Read(), true
}

// IDs lists known toggles in lexical order.
func (r *Replica) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.mirrors))
	for id := range r.mirrors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
