// Package visual drives per-observer animation of a toggle. It reads the
// replicated boolean and eases a pose between two targets at frame rate,
// independent of the server tick rate.
package visual

import (
	"github.com/automoto/togglesync/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a local position and rotation.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func IdentityPose() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// EulerDegrees converts (x, y, z) degrees to a rotation that turns a vector
// about Z first, then X, then Y. The product is qY*qX*qZ.
func EulerDegrees(v netconfig.Vec3) mgl64.Quat {
	qx := mgl64.QuatRotate(mgl64.DegToRad(v[0]), mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(mgl64.DegToRad(v[1]), mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(mgl64.DegToRad(v[2]), mgl64.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz)
}

func Vec(v netconfig.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

// LerpPose blends position linearly and rotation spherically along the
// shorter arc.
func LerpPose(a, b Pose, t float64) Pose {
	to := b.Rotation
	if a.Rotation.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return Pose{
		Position: a.Position.Add(b.Position.Sub(a.Position).Mul(t)),
		Rotation: mgl64.QuatSlerp(a.Rotation, to, t),
	}
}

// Sink receives the pose computed every visual frame. It is owned by the
// rendering layer.
type Sink interface {
	SetPose(Pose)
}

// Transform is a minimal Sink that remembers the last pose written to it.
type Transform struct {
	pose   Pose
	writes int
}

func NewTransform() *Transform {
	return &Transform{pose: IdentityPose()}
}

func (t *Transform) SetPose(p Pose) {
	t.pose = p
	t.writes++
}

func (t *Transform) Pose() Pose { return t.pose }

// Writes counts SetPose calls.
func (t *Transform) Writes() int { return t.writes }
