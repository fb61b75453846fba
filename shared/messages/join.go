package messages

import "github.com/automoto/togglesync/shared/netconfig"

// JoinRequest is sent by a client after connecting to request joining the session.
type JoinRequest struct {
	Version    string
	ClientName string
}

// JoinAccepted is sent by the server when a client's join request is accepted.
type JoinAccepted struct {
	ServerName string
	TickRate   int
	Toggles    []ToggleInfo // Catalogue of toggles and how to draw them
}

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}

// ToggleInfo is the static, non-replicated description of a toggle. Clients
// build their local visual from it.
type ToggleInfo struct {
	ID         string
	Name       string
	Kind       netconfig.ToggleKind
	DurationMs int64
	Curve      string
	OffAngle   netconfig.Vec3 // Euler degrees, rotate kind
	OnAngle    netconfig.Vec3
	Origin     netconfig.Vec3 // Initial position
	Offset     netconfig.Vec3 // Displacement when on, move kind
}
