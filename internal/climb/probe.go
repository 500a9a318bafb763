package climb

import (
	"github.com/Faultbox/midgard-climb/internal/engine/raycast"
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// Raycaster is the semantic ray query the engine needs from physics.
type Raycaster interface {
	Raycast(origin, dir math.Vec3, maxDist float32, mask raycast.LayerMask) (raycast.Hit, bool)
}

// LedgeProbeResult is one tick's ledge detection outcome. It is a value and
// is never kept across ticks.
type LedgeProbeResult struct {
	Found        bool
	EdgePosition math.Vec3 // top-surface hit just past the wall face
	WallNormal   math.Vec3 // unit, mostly horizontal
	WallPoint    math.Vec3 // forward ray hit on the wall face
	LedgeHeight  float32   // edge height above the actor's feet
	Surface      SurfaceType
}

var down = math.Vec3{Y: -1}

func isWall(h raycast.Hit, maxNormalY float32) bool {
	return abs32(h.Normal.Y) <= maxNormalY
}

func isTop(h raycast.Hit, minNormalY float32) bool {
	return h.Normal.Y >= minNormalY
}

// ProbeLedge runs the dual-ray test from an actor standing at feet and
// looking along dir. Ray A goes forward from chest height up to reach; ray B
// goes down from just past the wall face. relaxed skips the wall/top normal
// and reach band checks (used inside climbable zones). It only reads rays.
func ProbeLedge(rays Raycaster, feet, dir math.Vec3, reach float32, cfg *Config, relaxed bool) LedgeProbeResult {
	dir = dir.Horizontal().Normalize()
	if dir.IsZero() {
		return LedgeProbeResult{}
	}

	chest := feet.Add(math.Up.Scale(cfg.ChestHeight))
	wall, ok := rays.Raycast(chest, dir, reach, cfg.LayerMask)
	if !ok || (!relaxed && !isWall(wall, cfg.WallMaxNormalY)) {
		return LedgeProbeResult{}
	}

	origin := wall.Point.Add(dir.Scale(cfg.ProbeEpsilon))
	origin.Y = feet.Y + cfg.DownRayHeight
	top, ok := rays.Raycast(origin, down, cfg.DownDistance, cfg.LayerMask)
	if !ok || (!relaxed && !isTop(top, cfg.TopMinNormalY)) {
		return LedgeProbeResult{}
	}

	height := top.Point.Y - feet.Y
	if !relaxed && (height < cfg.ReachMin || height > cfg.ReachMax) {
		return LedgeProbeResult{}
	}

	normal := wall.Normal.Horizontal().Normalize()
	if normal.IsZero() {
		normal = dir.Neg()
	}
	return LedgeProbeResult{
		Found:        true,
		EdgePosition: top.Point,
		WallNormal:   normal,
		WallPoint:    wall.Point,
		LedgeHeight:  height,
		Surface:      Classify(wall.Material),
	}
}

// LedgeDetector runs the per-tick probes for one actor.
type LedgeDetector struct {
	cfg   *Config
	rays  Raycaster
	zones []LedgeZone
}

// NewLedgeDetector builds a detector; zones override detection where they
// overlap the actor.
func NewLedgeDetector(cfg *Config, rays Raycaster, zones []LedgeZone) LedgeDetector {
	return LedgeDetector{cfg: cfg, rays: rays, zones: zones}
}

// ProbeAt is the geometric result at pose with zone overrides, ignoring input.
func (d LedgeDetector) ProbeAt(pose math.Transform) LedgeProbeResult {
	zone := findZone(d.zones, pose.Position, d.cfg.ChestHeight)
	if zone != nil && !zone.CanBeClimbed {
		return LedgeProbeResult{}
	}

	res := ProbeLedge(d.rays, pose.Position, pose.Forward(), d.cfg.ForwardDistance, d.cfg, zone != nil)
	if res.Found && zone != nil {
		if s, ok := zone.surface(); ok {
			res.Surface = s
		}
	}
	return res
}

// Detect is the grab probe: ProbeAt gated by the forward-input rule. AutoClimb
// grabs without forward input.
func (d LedgeDetector) Detect(pose math.Transform, in Input) LedgeProbeResult {
	return d.gate(d.ProbeAt(pose), in)
}

func (d LedgeDetector) gate(res LedgeProbeResult, in Input) LedgeProbeResult {
	if d.cfg.OnlyGrabIfMovingForward && !in.Forward && !d.cfg.AutoClimb {
		return LedgeProbeResult{}
	}
	return res
}

// WallContact casts forward at chest and then foot height and returns the
// first wall-like hit.
func (d LedgeDetector) WallContact(pose math.Transform) (raycast.Hit, bool) {
	for _, h := range [2]float32{d.cfg.ChestHeight, d.cfg.FootProbeHeight} {
		if hit, ok := d.WallAt(pose, h); ok {
			return hit, true
		}
	}
	return raycast.Hit{}, false
}

// WallAt casts forward from the given height above the feet.
func (d LedgeDetector) WallAt(pose math.Transform, height float32) (raycast.Hit, bool) {
	origin := pose.Position.Add(math.Up.Scale(height))
	hit, ok := d.rays.Raycast(origin, pose.Forward(), d.cfg.ForwardDistance, d.cfg.LayerMask)
	if !ok || !isWall(hit, d.cfg.WallMaxNormalY) {
		return raycast.Hit{}, false
	}
	return hit, true
}

// FeetClear reports whether the feet have risen past the lip: no wall in
// front of the feet and a floor just ahead of them. It returns the floor
// point the vault should land on.
func (d LedgeDetector) FeetClear(pose math.Transform) (math.Vec3, bool) {
	if _, blocked := d.WallAt(pose, d.cfg.FootProbeHeight); blocked {
		return math.Vec3{}, false
	}
	origin := pose.Position.
		Add(pose.Forward().Scale(d.cfg.VaultReach)).
		Add(math.Up.Scale(d.cfg.FootProbeHeight))
	floor, ok := d.rays.Raycast(origin, down, d.cfg.FootProbeHeight+d.cfg.VaultDropTolerance, d.cfg.LayerMask)
	if !ok || !isTop(floor, d.cfg.TopMinNormalY) {
		return math.Vec3{}, false
	}
	return floor.Point, true
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
