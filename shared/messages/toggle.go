package messages

import "github.com/automoto/togglesync/shared/netconfig"

// ToggleRequest asks the state authority to change a toggle. Value is only
// read for ToggleOpSet.
type ToggleRequest struct {
	ToggleID string
	Op       netconfig.ToggleOp
	Value    bool
}

// ToggleRejected is sent back to the requester when the authority refuses a
// request. Accepted requests get no reply; the change arrives by snapshot.
type ToggleRejected struct {
	ToggleID string
	Reason   string
}
