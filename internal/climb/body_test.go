package climb

import "github.com/Faultbox/midgard-climb/pkg/math"

// nopBody satisfies Body for construction-only tests.
type nopBody struct{}

func (nopBody) Transform() math.Transform   { return math.Transform{Rotation: math.QuatIdentity()} }
func (nopBody) SetTransform(math.Transform) {}
func (nopBody) Velocity() math.Vec3         { return math.Vec3{} }
func (nopBody) SetVelocity(math.Vec3)       {}
func (nopBody) Grounded() bool              { return true }
func (nopBody) SetPhysicsSuspended(bool)    {}
func (nopBody) PhysicsSuspended() bool      { return false }
