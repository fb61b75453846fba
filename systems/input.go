package systems

import (
	"github.com/automoto/togglesync/components"
	"github.com/automoto/togglesync/shared/logging"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// slotKeys maps number keys to catalogue slots.
var slotKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// NewToggleInputSystem returns an ECS system that asks the server to flip a
// toggle when its number key is pressed. Space flips the first toggle.
func NewToggleInputSystem(request func(id string) error) func(*ecs.ECS) {
	log := logging.For("input")

	return func(e *ecs.ECS) {
		var pressed []int
		for slot, key := range slotKeys {
			if inpututil.IsKeyJustPressed(key) {
				pressed = append(pressed, slot)
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			pressed = append(pressed, 0)
		}
		if len(pressed) == 0 {
			return
		}

		components.ToggleView.Each(e.World, func(entry *donburi.Entry) {
			view := components.ToggleView.Get(entry)
			for _, slot := range pressed {
				if view.Slot != slot {
					continue
				}
				if err := request(view.ID); err != nil {
					log.Warn("toggle request failed", "toggle", view.ID, "err", err)
				}
			}
		})
	}
}
