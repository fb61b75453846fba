package config

import (
	"image/color"
	"time"

	"github.com/automoto/togglesync/shared/netconfig"
)

// Config contains the viewer window configuration
type Config struct {
	Width  int
	Height int
}

// ViewerConfig contains viewer layout and rendering configuration
type ViewerConfig struct {
	CellWidth  float64 // Screen width reserved per toggle
	CellHeight float64
	Scale      float64 // Pixels per world unit
	LeafLength float64 // World units drawn for a rotating leaf
	HingeSize  float64
	BlockSize  float64 // Side of the square drawn for a moving toggle
}

// ClientConfig contains defaults for the viewer and togglectl
type ClientConfig struct {
	Address        string
	Name           string
	Version        string
	JoinTimeout    time.Duration
	SettleDuration time.Duration // How long togglectl waits for a rejection
}

// Global configuration instances
var C *Config
var Viewer ViewerConfig
var Client ClientConfig

// Shared RGBA color constants
var (
	White      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Gray       = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	LightGreen = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	LightRed   = color.RGBA{R: 255, G: 60, B: 60, A: 255}
)

// Toggle visual defaults
var (
	DefaultDuration = time.Second
	DefaultOnAngle  = netconfig.Vec3{0, 90, 0}
	DefaultOffset   = netconfig.Vec3{0, 2, 0}
)

func init() {
	C = &Config{
		Width:  640,
		Height: 360,
	}

	Viewer = ViewerConfig{
		CellWidth:  160,
		CellHeight: 180,
		Scale:      24,
		LeafLength: 2.5,
		HingeSize:  6,
		BlockSize:  28,
	}

	Client = ClientConfig{
		Address:        "localhost:7373",
		Name:           "viewer",
		Version:        "",
		JoinTimeout:    5 * time.Second,
		SettleDuration: 500 * time.Millisecond,
	}
}
