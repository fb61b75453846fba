package scenes

import (
	"image/color"
	"sync"

	"github.com/automoto/togglesync/components"
	"github.com/automoto/togglesync/network"
	"github.com/automoto/togglesync/shared/logging"
	"github.com/automoto/togglesync/systems"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// ToggleScene shows every replicated toggle of the joined server and lets the
// user request flips.
type ToggleScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	netClient    *network.Client
	replica      *network.Replica
	once         sync.Once
	log          *log.Logger
}

func NewToggleScene(sc SceneChanger, client *network.Client) *ToggleScene {
	return &ToggleScene{
		sceneChanger: sc,
		netClient:    client,
		replica:      network.NewReplica(),
		log:          logging.For("viewer"),
	}
}

func (ts *ToggleScene) Update() {
	ts.once.Do(ts.configure)

	state := ts.netClient.State()
	if state == network.StateDisconnected || state == network.StateError {
		ts.log.Warn("disconnected, reconnecting")
		ts.netClient.Disconnect()
		ts.sceneChanger.ChangeScene(NewConnectScene(ts.sceneChanger))
		return
	}

	if snap := ts.netClient.LatestSnapshot(); snap != nil {
		for _, c := range ts.replica.ApplySnapshot(*snap) {
			ts.log.Debug("toggle changed", "toggle", c.ID, "on", c.On, "rev", c.Revision)
		}
	}
	for _, r := range ts.netClient.DrainRejections() {
		ts.log.Warn("toggle request rejected", "toggle", r.ToggleID, "reason", r.Reason)
	}

	ts.ecsWorld.Update()
}

func (ts *ToggleScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if ts.ecsWorld == nil {
		return
	}

	ts.ecsWorld.Draw(screen)
}

func (ts *ToggleScene) configure() {
	ts.ecsWorld = ecs.NewECS(donburi.NewWorld())

	for slot, info := range ts.netClient.Toggles() {
		view, err := components.NewToggleViewData(slot, info, false)
		if err != nil {
			ts.log.Error("skipping toggle", "toggle", info.ID, "err", err)
			continue
		}
		entry := ts.ecsWorld.World.Entry(ts.ecsWorld.World.Create(components.ToggleView))
		components.ToggleView.SetValue(entry, view)
	}

	request := func(id string) error {
		if ts.netClient.State() != network.StateJoinedGame {
			return nil
		}
		return ts.netClient.RequestToggle(id)
	}
	ts.ecsWorld.AddSystem(systems.NewToggleInputSystem(request))
	ts.ecsWorld.AddSystem(systems.NewToggleViewSystem(ts.replica, systems.NewFrameClock().Delta))
	ts.ecsWorld.AddRenderer(systems.LayerToggles, systems.DrawToggles)
	ts.ecsWorld.AddRenderer(systems.LayerHUD, systems.NewHUDRenderer(ts.netClient, ts.replica))
}
