package climb

import (
	"github.com/Faultbox/midgard-climb/internal/engine/raycast"
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// LedgeZone is a level-design volume that overrides automatic detection
// while the actor overlaps it.
type LedgeZone struct {
	Name         string       `yaml:"name"`
	Bounds       raycast.AABB `yaml:"bounds"`
	CanBeClimbed bool         `yaml:"can_be_climbed"`
	CustomSpeed  *float32     `yaml:"custom_speed,omitempty"`
}

// Overlaps reports whether the zone contains the actor's feet or chest.
func (z LedgeZone) Overlaps(feet math.Vec3, chestHeight float32) bool {
	return z.Bounds.Contains(feet) || z.Bounds.Contains(feet.Add(math.Up.Scale(chestHeight)))
}

// surface returns the zone's surface override, if any.
func (z LedgeZone) surface() (SurfaceType, bool) {
	if z.CustomSpeed == nil || *z.CustomSpeed <= 0 {
		return SurfaceType{}, false
	}
	return Custom(*z.CustomSpeed), true
}

func findZone(zones []LedgeZone, feet math.Vec3, chestHeight float32) *LedgeZone {
	for i := range zones {
		if zones[i].Overlaps(feet, chestHeight) {
			return &zones[i]
		}
	}
	return nil
}
