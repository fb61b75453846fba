package systems

import (
	"time"

	"github.com/automoto/togglesync/components"
	"github.com/automoto/togglesync/network"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// NewToggleViewSystem returns an ECS system that binds every toggle view to
// its replicated value once the replica knows it, then advances the view by
// the frame time reported by dt.
func NewToggleViewSystem(replica *network.Replica, dt func() time.Duration) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		step := dt()
		components.ToggleView.Each(e.World, func(entry *donburi.Entry) {
			view := components.ToggleView.Get(entry)
			view.Bind(replica)
			view.Interp.Tick(step)
		})
	}
}

// FrameClock measures wall time between Update calls.
type FrameClock struct {
	last time.Time
	now  func() time.Time
}

func NewFrameClock() *FrameClock {
	return &FrameClock{now: time.Now}
}

// Delta returns the time since the previous call. The first call reports one
// nominal tick.
func (c *FrameClock) Delta() time.Duration {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return time.Second / time.Duration(ebiten.TPS())
	}
	d := now.Sub(c.last)
	c.last = now
	return d
}
