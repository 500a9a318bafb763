package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero", got)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, 30}
	got := a.Lerp(b, 0.5)
	want := Vec3{5, 10, 15}
	if !got.ApproxEqual(want, 0.001) {
		t.Errorf("Lerp() = %v, want %v", got, want)
	}
}

func TestVec3Horizontal(t *testing.T) {
	got := Vec3{1, 5, -2}.Horizontal()
	if got != (Vec3{1, 0, -2}) {
		t.Errorf("Horizontal() = %v", got)
	}
}

func TestExpDecay(t *testing.T) {
	tests := []struct {
		rate, dt float32
		min, max float32
	}{
		{0, 0.1, 0, 0},
		{10, 0, 0, 0},
		{10, 1.0 / 60, 0.15, 0.16},
		{1000, 1, 0.999, 1},
	}
	for _, tt := range tests {
		got := ExpDecay(tt.rate, tt.dt)
		if got < tt.min || got > tt.max {
			t.Errorf("ExpDecay(%v, %v) = %v, want in [%v, %v]", tt.rate, tt.dt, got, tt.min, tt.max)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestTransformForwardRight(t *testing.T) {
	facingNegZ := Transform{Rotation: QuatLookRotation(Vec3{0, 0, -1})}
	if f := facingNegZ.Forward(); !f.ApproxEqual(Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("Forward() = %v, want (0,0,-1)", f)
	}
	if r := facingNegZ.Right(); !r.ApproxEqual(Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("Right() = %v, want (1,0,0)", r)
	}

	identity := Transform{Rotation: QuatIdentity()}
	if f := identity.Forward(); f != Forward {
		t.Errorf("identity Forward() = %v, want %v", f, Forward)
	}
}
