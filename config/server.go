package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/automoto/togglesync/shared/messages"
	"github.com/automoto/togglesync/shared/netconfig"
	"github.com/automoto/togglesync/visual"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TOGGLESYNC_SERVER_PORT.
const EnvPrefix = "TOGGLESYNC"

// ServerConfig is the dedicated server's configuration file.
type ServerConfig struct {
	Server      ServerConf      `mapstructure:"server"`
	Log         LogConf         `mapstructure:"log"`
	Persistence PersistenceConf `mapstructure:"persistence"`
	Metrics     MetricsConf     `mapstructure:"metrics"`
	Toggles     []ToggleConf    `mapstructure:"toggles"`
}

type ServerConf struct {
	Name                string `mapstructure:"name"`
	Port                uint   `mapstructure:"port"`
	TickRate            int    `mapstructure:"tickRate"`
	Version             string `mapstructure:"version"` // Required client version, empty accepts any
	AllowClientRequests bool   `mapstructure:"allowClientRequests"`
	CommandQueue        int    `mapstructure:"commandQueue"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

type PersistenceConf struct {
	Enabled bool   `mapstructure:"enabled"`
	AppName string `mapstructure:"appName"`
}

type MetricsConf struct {
	Port int `mapstructure:"port"` // 0 disables the statsviz page
}

// ToggleConf describes one toggle hosted by the server.
type ToggleConf struct {
	ID       string               `mapstructure:"id"`
	Name     string               `mapstructure:"name"`
	Kind     netconfig.ToggleKind `mapstructure:"kind"`
	Initial  bool                 `mapstructure:"initial"`
	Duration time.Duration        `mapstructure:"duration"`
	Curve    string               `mapstructure:"curve"`
	OffAngle netconfig.Vec3       `mapstructure:"offAngle"`
	OnAngle  netconfig.Vec3       `mapstructure:"onAngle"`
	Origin   netconfig.Vec3       `mapstructure:"origin"`
	Offset   netconfig.Vec3       `mapstructure:"offset"`
}

// DefaultServer returns the configuration used when no file is given.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Server: ServerConf{
			Name:                "Toggle Server",
			Port:                7373,
			TickRate:            20,
			AllowClientRequests: true,
			CommandQueue:        64,
		},
		Log:         LogConf{Level: "info"},
		Persistence: PersistenceConf{AppName: "togglesync"},
		Toggles: []ToggleConf{
			{ID: "door", Name: "Door", Kind: netconfig.KindRotate},
		},
	}
}

// LoadServer reads path (any format viper understands) over the defaults.
// Environment variables override file values. An empty path loads defaults
// and environment only.
func LoadServer(path string) (ServerConfig, error) {
	v := viper.New()
	setDefaults(v, DefaultServer())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return ServerConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Toggles) == 0 {
		cfg.Toggles = DefaultServer().Toggles
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d ServerConfig) {
	v.SetDefault("server.name", d.Server.Name)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.tickRate", d.Server.TickRate)
	v.SetDefault("server.version", d.Server.Version)
	v.SetDefault("server.allowClientRequests", d.Server.AllowClientRequests)
	v.SetDefault("server.commandQueue", d.Server.CommandQueue)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("persistence.enabled", d.Persistence.Enabled)
	v.SetDefault("persistence.appName", d.Persistence.AppName)
	v.SetDefault("metrics.port", d.Metrics.Port)
}

// ApplyDefaults fills in visual defaults for toggles that leave them unset.
func (c *ServerConfig) ApplyDefaults() {
	for i := range c.Toggles {
		t := &c.Toggles[i]
		if t.Name == "" {
			t.Name = t.ID
		}
		if t.Kind == "" {
			t.Kind = netconfig.KindRotate
		}
		if t.Duration == 0 {
			t.Duration = DefaultDuration
		}
		if t.Curve == "" {
			t.Curve = visual.DefaultCurveName
		}
		if t.Kind == netconfig.KindRotate && t.OnAngle == (netconfig.Vec3{}) && t.OffAngle == (netconfig.Vec3{}) {
			t.OnAngle = DefaultOnAngle
		}
		if t.Kind == netconfig.KindMove && t.Offset == (netconfig.Vec3{}) {
			t.Offset = DefaultOffset
		}
	}
}

// Validate rejects configurations the server cannot run with.
func (c ServerConfig) Validate() error {
	var errs []error
	if c.Server.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("server.tickRate must be positive, got %d", c.Server.TickRate))
	}
	if c.Server.CommandQueue <= 0 {
		errs = append(errs, fmt.Errorf("server.commandQueue must be positive, got %d", c.Server.CommandQueue))
	}
	seen := make(map[string]bool, len(c.Toggles))
	for i, t := range c.Toggles {
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("toggles[%d]: id is required", i))
			continue
		}
		if seen[t.ID] {
			errs = append(errs, fmt.Errorf("toggles[%d]: duplicate id %q", i, t.ID))
		}
		seen[t.ID] = true
		if t.Duration < 0 {
			errs = append(errs, fmt.Errorf("toggle %q: negative duration %s", t.ID, t.Duration))
		}
		if t.Kind != netconfig.KindRotate && t.Kind != netconfig.KindMove {
			errs = append(errs, fmt.Errorf("toggle %q: unknown kind %q", t.ID, t.Kind))
		}
		if _, err := visual.CurveByName(t.Curve); err != nil {
			errs = append(errs, fmt.Errorf("toggle %q: %w", t.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Info is the catalogue entry sent to clients on join.
func (t ToggleConf) Info() messages.ToggleInfo {
	return messages.ToggleInfo{
		ID:         t.ID,
		Name:       t.Name,
		Kind:       t.Kind,
		DurationMs: t.Duration.Milliseconds(),
		Curve:      t.Curve,
		OffAngle:   t.OffAngle,
		OnAngle:    t.OnAngle,
		Origin:     t.Origin,
		Offset:     t.Offset,
	}
}
