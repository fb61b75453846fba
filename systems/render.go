package systems

import (
	"fmt"
	"image/color"

	"github.com/automoto/togglesync/components"
	cfg "github.com/automoto/togglesync/config"
	"github.com/automoto/togglesync/network"
	"github.com/automoto/togglesync/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// Render layers
const (
	LayerToggles ecs.LayerID = iota
	LayerHUD
)

const labelHeight = 16

// DrawToggles renders each toggle view in its own cell. Rotators are drawn
// top-down as a leaf swinging around its hinge; movers as a block seen from
// the side.
func DrawToggles(e *ecs.ECS, screen *ebiten.Image) {
	components.ToggleView.Each(e.World, func(entry *donburi.Entry) {
		view := components.ToggleView.Get(entry)

		cx := float32(cfg.Viewer.CellWidth*float64(view.Slot) + cfg.Viewer.CellWidth/2)
		cy := float32(cfg.Viewer.CellHeight/2 + labelHeight*2)

		rectColor := viewColor(view)
		pose := view.Transform.Pose()
		scale := float32(cfg.Viewer.Scale)

		switch view.Info.Kind {
		case netconfig.KindMove:
			size := float32(cfg.Viewer.BlockSize)
			base := cy + float32(cfg.Viewer.CellHeight)/4
			x := cx + float32(pose.Position.X())*scale - size/2
			y := base - float32(pose.Position.Y())*scale - size
			vector.StrokeLine(screen, cx-size, base, cx+size, base, 1, cfg.Gray, false)
			vector.DrawFilledRect(screen, x, y, size, size, rectColor, false)
		default:
			leaf := pose.Rotation.Rotate(mgl64.Vec3{cfg.Viewer.LeafLength, 0, 0})
			ex := cx + float32(leaf.X())*scale
			ey := cy + float32(leaf.Z())*scale
			vector.StrokeLine(screen, cx, cy, ex, ey, 4, rectColor, true)
			vector.DrawFilledCircle(screen, cx, cy, float32(cfg.Viewer.HingeSize), cfg.White, true)
		}

		label := fmt.Sprintf("[%d] %s %3.0f%%", view.Slot+1, displayName(view), view.Interp.Progress()*100)
		if view.Interp.Inert() {
			label = fmt.Sprintf("[%d] %s missing", view.Slot+1, displayName(view))
		}
		lx := int(cx) - len(label)*3
		ebitenutil.DebugPrintAt(screen, label, lx, int(cy)+int(cfg.Viewer.CellHeight/2))
	})
}

func viewColor(view *components.ToggleViewData) color.RGBA {
	switch {
	case view.Interp.Inert():
		return cfg.Gray
	case view.Interp.Progress() >= 0.5:
		return cfg.LightGreen
	default:
		return cfg.LightRed
	}
}

func displayName(view *components.ToggleViewData) string {
	if view.Info.Name != "" {
		return view.Info.Name
	}
	return view.ID
}

// NewHUDRenderer returns a renderer that prints the connection status.
func NewHUDRenderer(client *network.Client, replica *network.Replica) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		info := fmt.Sprintf("%s - %s - toggles: %d", client.ServerName(), client.State(), len(replica.IDs()))
		ebitenutil.DebugPrintAt(screen, info, 4, 4)
		ebitenutil.DebugPrintAt(screen, "1-9 / space: toggle", 4, cfg.C.Height-labelHeight)
	}
}
