package visual

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// Curve maps normalized progress in [0,1] to a blend factor.
type Curve func(t float64) float64

// FromEase wraps a gween easing function as a unit Curve.
func FromEase(fn ease.TweenFunc) Curve {
	return func(t float64) float64 {
		return float64(fn(float32(clamp01(t)), 0, 1, 1))
	}
}

var (
	Linear     = FromEase(ease.Linear)
	InQuad     = FromEase(ease.InQuad)
	OutQuad    = FromEase(ease.OutQuad)
	InOutCubic = FromEase(ease.InOutCubic)
	InOutSine  = FromEase(ease.InOutSine)
	OutBounce  = FromEase(ease.OutBounce)
)

// EaseInOut is a cubic Hermite curve with flat tangents at both ends.
func EaseInOut(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

// DefaultCurveName is used when a toggle does not name a curve.
const DefaultCurveName = "easeInOut"

var curves = map[string]Curve{
	"linear":     Linear,
	"easeInOut":  EaseInOut,
	"inQuad":     InQuad,
	"outQuad":    OutQuad,
	"inOutCubic": InOutCubic,
	"inOutSine":  InOutSine,
	"outBounce":  OutBounce,
}

// CurveByName resolves a configured curve name. Matching ignores case; an
// empty name selects the default.
func CurveByName(name string) (Curve, error) {
	if name == "" {
		name = DefaultCurveName
	}
	for k, c := range curves {
		if strings.EqualFold(k, name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown curve %q", name)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
