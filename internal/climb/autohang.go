package climb

import (
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// AutoHangTrigger is the one-shot result of catching a ledge while airborne.
type AutoHangTrigger struct {
	Position math.Vec3 // hang position to interpolate to
	Rotation math.Quat // facing the wall
	Probe    LedgeProbeResult
}

// AutoHangDetector looks for a ledge below and behind a falling actor.
type AutoHangDetector struct {
	cfg    *Config
	rays   Raycaster
	solver WallMotionSolver
}

// NewAutoHangDetector builds the airborne probe.
func NewAutoHangDetector(cfg *Config, rays Raycaster) AutoHangDetector {
	return AutoHangDetector{cfg: cfg, rays: rays, solver: NewWallMotionSolver(cfg)}
}

// Detect predicts where the actor will be shortly, confirms there is a drop
// under that point, then probes backward for a ledge within reach. It only
// fires while descending.
func (d AutoHangDetector) Detect(pose math.Transform, velocity math.Vec3) (AutoHangTrigger, bool) {
	if velocity.Y >= 0 {
		return AutoHangTrigger{}, false
	}
	predicted := pose.Position.Add(velocity.Scale(d.cfg.AutoHangLookahead))

	// Down: floor close under the predicted feet means we are landing, not hanging.
	if d.cfg.AutoHangMinDrop > 0 {
		if floor, ok := d.rays.Raycast(predicted, down, d.cfg.AutoHangMinDrop, d.cfg.LayerMask); ok && isTop(floor, d.cfg.TopMinNormalY) {
			return AutoHangTrigger{}, false
		}
	}

	// Back: against horizontal travel, or behind the actor when dropping straight.
	back := velocity.Horizontal().Neg()
	if back.Length() < 0.1 {
		back = pose.Forward().Neg()
	}

	probe := ProbeLedge(d.rays, predicted, back, d.cfg.AutoHangBackDistance, d.cfg, false)
	if !probe.Found {
		return AutoHangTrigger{}, false
	}
	target := d.solver.HangTarget(probe)
	return AutoHangTrigger{
		Position: target.Position,
		Rotation: target.Rotation,
		Probe:    probe,
	}, true
}
