// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on ebiten or any
// graphics library so the dedicated server binary stays headless.
package netconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// Role identifies what a participant may do with a replicated value.
type Role int

const (
	RoleObserver  Role = iota // Reads replicated state, never writes it
	RoleAuthority             // The single writer of a replicated value
)

func (r Role) String() string {
	switch r {
	case RoleAuthority:
		return "authority"
	case RoleObserver:
		return "observer"
	}
	return "unknown"
}

// ToggleOp is the operation carried by a toggle request.
type ToggleOp int

const (
	ToggleOpFlip ToggleOp = iota // Negate the current value
	ToggleOpSet                  // Assign the requested value
)

func (o ToggleOp) String() string {
	switch o {
	case ToggleOpFlip:
		return "flip"
	case ToggleOpSet:
		return "set"
	}
	return "unknown"
}

// ToggleKind selects how a toggle is visualised on clients.
type ToggleKind string

const (
	KindRotate ToggleKind = "rotate" // Slerp between an off and an on rotation
	KindMove   ToggleKind = "move"   // Lerp from an initial position by an offset
)

// Vec3 is a wire-friendly three component vector.
type Vec3 [3]float64

// ParseSwitch reads a toggle value. It accepts on/off in addition to the
// strconv boolean spellings.
func ParseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid value %q: want on or off", s)
	}
	return v, nil
}
