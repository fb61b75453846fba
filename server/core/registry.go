package core

import (
	"fmt"
	"sync"

	"github.com/automoto/togglesync/shared/messages"
	"github.com/automoto/togglesync/shared/toggle"
	"github.com/yohamta/donburi"
)

type registryEntry struct {
	info      messages.ToggleInfo
	authority *toggle.StateAuthority
	entity    donburi.Entity
}

// Registry is the set of toggles hosted by this server, keyed by ID and kept
// in configuration order.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

func (r *Registry) Add(info messages.ToggleInfo, a *toggle.StateAuthority, entity donburi.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[info.ID]; ok {
		return fmt.Errorf("toggle %q already registered", info.ID)
	}
	r.entries[info.ID] = &registryEntry{info: info, authority: a, entity: entity}
	r.order = append(r.order, info.ID)
	return nil
}

func (r *Registry) Authority(id string) (*toggle.StateAuthority, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.authority, true
}

// Catalogue lists every toggle's static description.
func (r *Registry) Catalogue() []messages.ToggleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]messages.ToggleInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].info)
	}
	return out
}

// States returns the committed value of every toggle.
func (r *Registry) States() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.entries))
	for id, e := range r.entries {
		out[id] = e.authority.Read()
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) each(fn func(*registryEntry)) {
	r.mu.RLock()
	entries := make([]*registryEntry, 0, len(r.order))
	for _, id := range r.order {
		entries = append(entries, r.entries[id])
	}
	r.mu.RUnlock()
	for _, e := range entries {
		fn(e)
	}
}
