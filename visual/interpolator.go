package visual

import (
	"fmt"
	"time"

	"github.com/automoto/togglesync/shared/logging"
	"github.com/automoto/togglesync/shared/netconfig"
	"github.com/automoto/togglesync/shared/toggle"
	"github.com/charmbracelet/log"
)

// Config is the static setup of one interpolator.
type Config struct {
	OffPose  Pose
	OnPose   Pose
	Duration time.Duration
	Curve    Curve
}

// RotateConfig swings between two Euler rotations around origin.
func RotateConfig(origin, offAngle, onAngle netconfig.Vec3, d time.Duration, c Curve) Config {
	return Config{
		OffPose:  Pose{Position: Vec(origin), Rotation: EulerDegrees(offAngle)},
		OnPose:   Pose{Position: Vec(origin), Rotation: EulerDegrees(onAngle)},
		Duration: d,
		Curve:    c,
	}
}

// MoveConfig slides from origin to origin+offset.
func MoveConfig(origin, offset netconfig.Vec3, d time.Duration, c Curve) Config {
	start := Vec(origin)
	return Config{
		OffPose:  Pose{Position: start, Rotation: IdentityPose().Rotation},
		OnPose:   Pose{Position: start.Add(Vec(offset)), Rotation: IdentityPose().Rotation},
		Duration: d,
		Curve:    c,
	}
}

// State of an Interpolator. Tracking is terminal.
type State int

const (
	Uninitialized State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "uninitialized"
}

// Interpolator eases a pose toward the pose matching its source's value.
// It is owned by one observer and must only be used from that observer's
// render goroutine.
type Interpolator struct {
	name     string
	cfg      Config
	sink     Sink
	src      toggle.Source
	state    State
	inert    bool
	headless bool
	progress float64
	pose     Pose
	log      *log.Logger
}

type Option func(*Interpolator)

// WithHeadless marks the owner as having no view. Ticks are skipped.
func WithHeadless(headless bool) Option {
	return func(ip *Interpolator) { ip.headless = headless }
}

func WithLogger(l *log.Logger) Option {
	return func(ip *Interpolator) { ip.log = l }
}

func NewInterpolator(name string, cfg Config, sink Sink, opts ...Option) *Interpolator {
	if cfg.Curve == nil {
		cfg.Curve = EaseInOut
	}
	ip := &Interpolator{
		name: name,
		cfg:  cfg,
		sink: sink,
		pose: cfg.OffPose,
	}
	for _, opt := range opts {
		opt(ip)
	}
	if ip.log == nil {
		ip.log = logging.For("visual")
	}
	return ip
}

// Initialize binds the source and snaps progress to the endpoint matching its
// current value, so state established before this observer existed is shown
// without an animated transition. A nil source leaves the interpolator inert
// for good; the failure is logged once.
func (ip *Interpolator) Initialize(src toggle.Source) error {
	if ip.inert {
		return fmt.Errorf("%s: %w", ip.name, toggle.ErrMissingDependency)
	}
	if ip.state == Tracking {
		return nil
	}
	if src == nil {
		ip.inert = true
		err := fmt.Errorf("%s: %w", ip.name, toggle.ErrMissingDependency)
		ip.log.Warn("visual disabled", "toggle", ip.name, "err", err)
		return err
	}

	ip.src = src
	ip.state = Tracking
	ip.progress = target(src)
	ip.apply()
	return nil
}

// Tick advances progress by at most dt/duration toward the source's value
// and writes the resulting pose to the sink.
func (ip *Interpolator) Tick(dt time.Duration) {
	if ip.state != Tracking || ip.headless {
		return
	}
	ip.progress = moveTowards(ip.progress, target(ip.src), ip.step(dt))
	ip.apply()
}

func (ip *Interpolator) step(dt time.Duration) float64 {
	if ip.cfg.Duration <= 0 {
		return 1
	}
	if dt <= 0 {
		return 0
	}
	return dt.Seconds() / ip.cfg.Duration.Seconds()
}

func (ip *Interpolator) apply() {
	ip.pose = LerpPose(ip.cfg.OffPose, ip.cfg.OnPose, ip.cfg.Curve(ip.progress))
	if ip.sink != nil {
		ip.sink.SetPose(ip.pose)
	}
}

func (ip *Interpolator) Name() string { return ip.name }

func (ip *Interpolator) State() State { return ip.state }

// Inert reports whether initialization failed for lack of a source.
func (ip *Interpolator) Inert() bool { return ip.inert }

func (ip *Interpolator) Headless() bool { return ip.headless }

func (ip *Interpolator) Progress() float64 { return ip.progress }

// Pose is the last pose computed, also when there is no sink.
func (ip *Interpolator) Pose() Pose { return ip.pose }

func target(src toggle.Source) float64 {
	if src.IsActive() {
		return 1
	}
	return 0
}

func moveTowards(current, target, maxDelta float64) float64 {
	if target > current {
		return min(current+maxDelta, target)
	}
	return max(current-maxDelta, target)
}
