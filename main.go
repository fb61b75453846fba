package main

import (
	"image"
	"os"

	"github.com/automoto/togglesync/config"
	"github.com/automoto/togglesync/scenes"
	"github.com/automoto/togglesync/shared/logging"
	"github.com/automoto/togglesync/shared/protocol"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func NewGame() *Game {
	g := &Game{
		bounds: image.Rectangle{},
	}
	g.scene = scenes.NewConnectScene(g)
	return g
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

var logLevel string

var rootCmd = &cobra.Command{
	Use:          "togglesync",
	Short:        "Viewer for replicated toggles",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(logLevel); err != nil {
			return err
		}

		// Register network components for client-side deserialization
		if err := protocol.RegisterComponents(); err != nil {
			return err
		}

		ebiten.SetWindowSize(config.C.Width, config.C.Height)
		ebiten.SetWindowTitle("togglesync - " + config.Client.Address)

		return ebiten.RunGame(NewGame())
	},
}

func init() {
	rootCmd.Flags().StringVar(&config.Client.Address, "addr", config.Client.Address, "server address (host:port)")
	rootCmd.Flags().StringVar(&config.Client.Name, "name", config.Client.Name, "client name sent on join")
	rootCmd.Flags().StringVar(&config.Client.Version, "version", config.Client.Version, "protocol version sent on join")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.For("viewer").Error("fatal", "err", err)
		os.Exit(1)
	}
}
