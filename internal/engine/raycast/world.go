package raycast

import (
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// LayerMask selects which collider layers a query considers.
type LayerMask uint32

// Common layers.
const (
	LayerDefault LayerMask = 1 << iota
	LayerClimbable
	LayerProps
	LayerTriggers

	LayerAll LayerMask = 0xFFFFFFFF
)

// Hit describes the closest intersection of a ray query.
type Hit struct {
	Point    math.Vec3
	Normal   math.Vec3
	Distance float32
	Material string
	Layer    LayerMask
}

// Box is a static, material-tagged box collider.
type Box struct {
	Bounds   AABB
	Material string
	Layer    LayerMask
}

// World is a set of static box colliders. It is built once and only read
// afterwards, so queries are safe from any goroutine.
type World struct {
	boxes []Box
}

// NewWorld creates a world from boxes. Boxes with a zero layer go on LayerDefault.
func NewWorld(boxes ...Box) *World {
	w := &World{}
	for _, b := range boxes {
		w.Add(b)
	}
	return w
}

// Add registers another collider.
func (w *World) Add(b Box) {
	if b.Layer == 0 {
		b.Layer = LayerDefault
	}
	b.Bounds = NewAABB(b.Bounds.Min, b.Bounds.Max)
	w.boxes = append(w.boxes, b)
}

// Len returns the number of colliders.
func (w *World) Len() int {
	return len(w.boxes)
}

// Raycast returns the closest hit within maxDist on the masked layers.
func (w *World) Raycast(origin, dir math.Vec3, maxDist float32, mask LayerMask) (Hit, bool) {
	if maxDist <= 0 || dir.IsZero() {
		return Hit{}, false
	}
	ray := NewRay(origin, dir)

	var best Hit
	found := false
	for i := range w.boxes {
		b := &w.boxes[i]
		if b.Layer&mask == 0 {
			continue
		}
		t, n, ok := ray.IntersectAABB(b.Bounds)
		if !ok || t > maxDist {
			continue
		}
		if found && t >= best.Distance {
			continue
		}
		best = Hit{
			Point:    snapToFace(ray.At(t), n, b.Bounds),
			Normal:   n,
			Distance: t,
			Material: b.Material,
			Layer:    b.Layer,
		}
		found = true
	}
	return best, found
}

// snapToFace removes float drift on the hit axis so the point lies exactly
// on the face plane.
func snapToFace(p, n math.Vec3, b AABB) math.Vec3 {
	switch {
	case n.X > 0:
		p.X = b.Max.X
	case n.X < 0:
		p.X = b.Min.X
	case n.Y > 0:
		p.Y = b.Max.Y
	case n.Y < 0:
		p.Y = b.Min.Y
	case n.Z > 0:
		p.Z = b.Max.Z
	case n.Z < 0:
		p.Z = b.Min.Z
	}
	return p
}
