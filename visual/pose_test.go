package visual

import (
	"math"
	"testing"

	"github.com/automoto/togglesync/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
)

func TestEulerDegreesAppliesZThenXThenY(t *testing.T) {
	tests := []struct {
		name  string
		angle netconfig.Vec3
		in    mgl64.Vec3
		want  mgl64.Vec3
	}{
		// X by 90 takes +Z to -Y; the following Y turn leaves -Y alone.
		{"x then y", netconfig.Vec3{90, 90, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, -1, 0}},
		// Z by 90 takes +X to +Y; X by 90 then takes +Y to +Z.
		{"z then x", netconfig.Vec3{90, 0, 90}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}},
		{"single y", netconfig.Vec3{0, 90, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EulerDegrees(tt.angle).Rotate(tt.in)
			if !got.ApproxEqualThreshold(tt.want, 1e-9) {
				t.Fatalf("rotate %v by %v = %v, want %v", tt.in, tt.angle, got, tt.want)
			}
		})
	}
}

func TestEulerDegreesMatchesAxisProduct(t *testing.T) {
	angle := netconfig.Vec3{30, 45, 60}
	qx := mgl64.QuatRotate(mgl64.DegToRad(30), mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(mgl64.DegToRad(60), mgl64.Vec3{0, 0, 1})
	want := qy.Mul(qx).Mul(qz)

	v := mgl64.Vec3{0.3, -0.7, 0.2}
	if got := EulerDegrees(angle).Rotate(v); !got.ApproxEqualThreshold(want.Rotate(v), 1e-9) {
		t.Fatalf("got %v, want %v", got, want.Rotate(v))
	}
}

func TestRotateTakesShortestArc(t *testing.T) {
	off := Pose{Rotation: EulerDegrees(netconfig.Vec3{0, -170, 0})}
	on := Pose{Rotation: EulerDegrees(netconfig.Vec3{0, 170, 0})}

	mid := LerpPose(off, on, 0.5).Rotation.Normalize()

	// Halfway along the 20 degree arc is 180 about Y, which maps +X to -X.
	// The long way round would land on 0 and leave +X in place.
	got := mid.Rotate(mgl64.Vec3{1, 0, 0})
	if !got.ApproxEqualThreshold(mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Fatalf("halfway pose maps +X to %v, want -X", got)
	}

	// Angle travelled from the off pose.
	delta := off.Rotation.Inverse().Mul(mid).Normalize()
	swept := 2 * math.Acos(math.Min(1, math.Abs(delta.W)))
	if math.Abs(swept-mgl64.DegToRad(10)) > 1e-9 {
		t.Fatalf("swept %v degrees, want 10", mgl64.RadToDeg(swept))
	}
}

func TestLerpPoseEndpoints(t *testing.T) {
	a := Pose{Position: mgl64.Vec3{0, 0, 0}, Rotation: EulerDegrees(netconfig.Vec3{0, -170, 0})}
	b := Pose{Position: mgl64.Vec3{0, 2, 0}, Rotation: EulerDegrees(netconfig.Vec3{0, 170, 0})}

	end := LerpPose(a, b, 1)
	if !end.Position.ApproxEqual(b.Position) {
		t.Fatalf("position = %v", end.Position)
	}
	v := mgl64.Vec3{1, 0, 0}
	if !end.Rotation.Rotate(v).ApproxEqualThreshold(b.Rotation.Rotate(v), 1e-9) {
		t.Fatalf("end rotation %v does not match %v", end.Rotation, b.Rotation)
	}
}
