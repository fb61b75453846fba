package components

import (
	"fmt"
	"time"

	"github.com/automoto/togglesync/config"
	"github.com/automoto/togglesync/shared/messages"
	"github.com/automoto/togglesync/shared/netconfig"
	"github.com/automoto/togglesync/shared/toggle"
	"github.com/automoto/togglesync/visual"
	"github.com/yohamta/donburi"
)

// ToggleViewData is the client-side visual of one replicated toggle.
type ToggleViewData struct {
	ID        string
	Slot      int // Position in the catalogue, used for layout and key binding
	Info      messages.ToggleInfo
	Interp    *visual.Interpolator
	Transform *visual.Transform
}

var ToggleView = donburi.NewComponentType[ToggleViewData]()

// ViewConfig turns a catalogue entry into an interpolator setup. Missing
// angles, offsets and durations fall back to the package defaults.
func ViewConfig(info messages.ToggleInfo) (visual.Config, error) {
	curve, err := visual.CurveByName(info.Curve)
	if err != nil {
		return visual.Config{}, fmt.Errorf("toggle %q: %w", info.ID, err)
	}

	d := time.Duration(info.DurationMs) * time.Millisecond
	if info.DurationMs == 0 {
		d = config.DefaultDuration
	}

	switch info.Kind {
	case netconfig.KindMove:
		offset := info.Offset
		if offset == (netconfig.Vec3{}) {
			offset = config.DefaultOffset
		}
		return visual.MoveConfig(info.Origin, offset, d, curve), nil
	case netconfig.KindRotate, "":
		on := info.OnAngle
		if on == (netconfig.Vec3{}) && info.OffAngle == (netconfig.Vec3{}) {
			on = config.DefaultOnAngle
		}
		return visual.RotateConfig(info.Origin, info.OffAngle, on, d, curve), nil
	}
	return visual.Config{}, fmt.Errorf("toggle %q: unknown kind %q", info.ID, info.Kind)
}

// NewToggleViewData builds an uninitialized view. headless views never tick.
func NewToggleViewData(slot int, info messages.ToggleInfo, headless bool) (ToggleViewData, error) {
	cfg, err := ViewConfig(info)
	if err != nil {
		return ToggleViewData{}, err
	}
	t := visual.NewTransform()
	return ToggleViewData{
		ID:        info.ID,
		Slot:      slot,
		Info:      info,
		Interp:    visual.NewInterpolator(info.ID, cfg, t, visual.WithHeadless(headless)),
		Transform: t,
	}, nil
}

// SourceLookup resolves replicated toggles by ID.
type SourceLookup interface {
	Source(id string) (toggle.Source, error)
	Synced() bool
}

// Bind initializes an unbound view from sources. A toggle the server has not
// sent by the first snapshot is treated as missing and the view goes inert.
func (v *ToggleViewData) Bind(sources SourceLookup) {
	if v.Interp.State() == visual.Tracking || v.Interp.Inert() {
		return
	}
	src, err := sources.Source(v.ID)
	if err == nil {
		_ = v.Interp.Initialize(src)
		return
	}
	if sources.Synced() {
		_ = v.Interp.Initialize(nil)
	}
}
