package scenes

import (
	"image/color"

	cfg "github.com/automoto/togglesync/config"
	"github.com/automoto/togglesync/network"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type SceneChanger interface {
	ChangeScene(scene interface{})
}

// ConnectScene dials the server and hands the joined client to a ToggleScene.
// On failure it shows the error and retries when Enter is pressed.
type ConnectScene struct {
	sceneChanger SceneChanger
	netClient    *network.Client
	status       string
}

func NewConnectScene(sc SceneChanger) *ConnectScene {
	s := &ConnectScene{sceneChanger: sc}
	s.connect()
	return s
}

func (s *ConnectScene) Update() {
	if s.netClient == nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			s.connect()
		}
		return
	}

	switch s.netClient.State() {
	case network.StateJoinedGame:
		client := s.netClient
		s.netClient = nil
		s.sceneChanger.ChangeScene(NewToggleScene(s.sceneChanger, client))

	case network.StateError:
		s.status = "Connection failed"
		if err := s.netClient.LastError(); err != nil {
			s.status = err.Error()
		}
		s.status += " - press Enter to retry"
		s.netClient.Disconnect()
		s.netClient = nil

	case network.StateConnecting:
		s.status = "Connecting to " + cfg.Client.Address + "..."

	case network.StateConnected:
		s.status = "Connected, joining..."

	case network.StateDisconnected:
		s.status = "Disconnected - press Enter to retry"
		s.netClient = nil
	}
}

func (s *ConnectScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})
	ebitenutil.DebugPrintAt(screen, s.status, 8, cfg.C.Height/2)
}

func (s *ConnectScene) connect() {
	s.netClient = network.NewClient()
	s.netClient.Connect(cfg.Client.Address, cfg.Client.Version, cfg.Client.Name)
	s.status = "Connecting..."
}
