package protocol

import (
	"github.com/automoto/togglesync/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetToggle uint = 20
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	// Toggle: no interpolation (discrete state, clients animate it themselves)
	if err := esync.RegisterComponent(
		SyncIDNetToggle,
		netcomponents.NetToggleData{},
		netcomponents.NetToggle,
	); err != nil {
		return err
	}

	return nil
}
