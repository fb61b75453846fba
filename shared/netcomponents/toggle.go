package netcomponents

import "github.com/yohamta/donburi"

// NetToggleData is the replicated form of one toggle. Revision increases by
// one on every committed change so observers can drop stale snapshots.
type NetToggleData struct {
	ID       string
	On       bool
	Revision uint64
}

var NetToggle = donburi.NewComponentType[NetToggleData]()
