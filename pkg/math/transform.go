package math

// Transform is a rigid pose: position of the actor's feet plus facing.
type Transform struct {
	Position Vec3
	Rotation Quat
}

// Forward returns the horizontal unit facing of the transform.
func (t Transform) Forward() Vec3 {
	f := t.Rotation.Rotate(Forward).Horizontal().Normalize()
	if f.IsZero() {
		return Forward
	}
	return f
}

// Right returns the horizontal unit right vector (facing -Z, right is +X).
func (t Transform) Right() Vec3 {
	return Up.Cross(t.Forward()).Neg()
}
