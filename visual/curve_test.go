package visual

import (
	"math"
	"testing"
)

func TestCurvesHitEndpoints(t *testing.T) {
	for name, c := range curves {
		if got := c(0); math.Abs(got) > 1e-6 {
			t.Errorf("%s(0) = %v", name, got)
		}
		if got := c(1); math.Abs(got-1) > 1e-6 {
			t.Errorf("%s(1) = %v", name, got)
		}
	}
}

func TestCurvesClampInput(t *testing.T) {
	if Linear(-1) != 0 || Linear(2) != 1 {
		t.Fatalf("linear does not clamp: %v %v", Linear(-1), Linear(2))
	}
	if EaseInOut(-1) != 0 || EaseInOut(2) != 1 {
		t.Fatalf("easeInOut does not clamp")
	}
}

func TestEaseInOutIsSymmetric(t *testing.T) {
	if got := EaseInOut(0.5); got != 0.5 {
		t.Fatalf("EaseInOut(0.5) = %v", got)
	}
	if EaseInOut(0.1) >= 0.1 {
		t.Fatalf("EaseInOut should start slower than linear")
	}
}

func TestCurveByName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "", wantErr: false},
		{name: "linear", wantErr: false},
		{name: "EASEINOUT", wantErr: false},
		{name: "outBounce", wantErr: false},
		{name: "wobble", wantErr: true},
	}
	for _, tt := range tests {
		c, err := CurveByName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: err = %v", tt.name, err)
		}
		if err == nil && c == nil {
			t.Fatalf("%q: nil curve", tt.name)
		}
	}
}
