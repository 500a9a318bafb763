package climb

import (
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// Motion is a per-tick transform delta produced by the solver.
type Motion struct {
	DeltaPosition math.Vec3
	DeltaRotation math.Quat
}

// NoMotion leaves the transform unchanged.
var NoMotion = Motion{DeltaRotation: math.QuatIdentity()}

// Apply returns t moved by the delta.
func (m Motion) Apply(t math.Transform) math.Transform {
	rot := m.DeltaRotation
	if rot == (math.Quat{}) {
		rot = math.QuatIdentity()
	}
	return math.Transform{
		Position: t.Position.Add(m.DeltaPosition),
		Rotation: rot.Mul(t.Rotation).Normalize(),
	}
}

// motionTo is the delta that carries from onto to.
func motionTo(from, to math.Transform) Motion {
	return Motion{
		DeltaPosition: to.Position.Sub(from.Position),
		DeltaRotation: to.Rotation.Mul(from.Rotation.Conjugate()).Normalize(),
	}
}

// WallMotionSolver turns state, wall geometry and input into displacement.
type WallMotionSolver struct {
	cfg *Config
}

// NewWallMotionSolver builds a solver reading cfg.
func NewWallMotionSolver(cfg *Config) WallMotionSolver {
	return WallMotionSolver{cfg: cfg}
}

// HangTarget is where the feet go to hang from the probed edge, facing the wall.
func (s WallMotionSolver) HangTarget(ledge LedgeProbeResult) math.Transform {
	n := ledge.WallNormal
	pos := ledge.WallPoint.Add(n.Scale(s.cfg.HandOffset.Z))
	pos.Y = ledge.EdgePosition.Y - s.cfg.HandOffset.Y
	return math.Transform{Position: pos, Rotation: math.QuatLookRotation(n.Neg())}
}

// Align eases pose toward target without snapping. keepHeight restricts the
// positional correction to the horizontal plane.
func (s WallMotionSolver) Align(pose, target math.Transform, dt float32, keepHeight bool) Motion {
	if keepHeight {
		target.Position.Y = pose.Position.Y
	}
	pa := math.ExpDecay(s.cfg.AlignPositionSpeed, dt)
	ra := math.ExpDecay(s.cfg.AlignRotationSpeed, dt)
	next := math.Transform{
		Position: pose.Position.Lerp(target.Position, pa),
		Rotation: pose.Rotation.Slerp(target.Rotation, ra).Normalize(),
	}
	return motionTo(pose, next)
}

// Converged reports whether pose is within the alignment tolerances of target.
func (s WallMotionSolver) Converged(pose, target math.Transform) bool {
	return pose.Position.Distance(target.Position) < s.cfg.AlignEpsilon &&
		pose.Rotation.AngleTo(target.Rotation) < s.cfg.AlignAngleEpsilon
}

// ShimmyDelta moves along the ledge: cross(normal, up) is the actor's left
// when facing the wall.
func (s WallMotionSolver) ShimmyDelta(normal math.Vec3, surface SurfaceType, dt float32, dir Direction) math.Vec3 {
	along := normal.Cross(math.Up).Normalize()
	step := s.cfg.ShimmySpeed * surface.SpeedMultiplier() * dt
	switch dir {
	case DirLeft:
		return along.Scale(step)
	case DirRight:
		return along.Scale(-step)
	}
	return math.Vec3{}
}

// ClimbDelta moves up or down the wall.
func (s WallMotionSolver) ClimbDelta(surface SurfaceType, dt float32, dir Direction) math.Vec3 {
	step := s.cfg.ClimbSpeed * surface.SpeedMultiplier() * dt
	switch dir {
	case DirUp:
		return math.Up.Scale(step)
	case DirDown:
		return math.Up.Scale(-step)
	}
	return math.Vec3{}
}

// Solve computes the tick's motion for the wall-driven states. ledge is the
// probe to align against (for shimmying, the destination probe).
// Vaulting, Falling and auto-hang approaches run on their own plans.
func (s WallMotionSolver) Solve(state ClimbState, pose math.Transform, ledge LedgeProbeResult, surface SurfaceType, dt float32, dir Direction) Motion {
	switch state {
	case Approaching:
		if !ledge.Found {
			return NoMotion
		}
		return s.Align(pose, s.HangTarget(ledge), dt, false)

	case Hanging:
		if !ledge.Found {
			return NoMotion
		}
		return s.Align(pose, s.HangTarget(ledge), dt, true)

	case ClimbingLeft, ClimbingRight:
		if ledge.Found {
			dir = DirLeft
			if state == ClimbingRight {
				dir = DirRight
			}
		}
		moved := math.Transform{
			Position: pose.Position.Add(s.ShimmyDelta(ledge.WallNormal, surface, dt, dir)),
			Rotation: pose.Rotation,
		}
		if !ledge.Found {
			return motionTo(pose, moved)
		}
		aligned := s.Align(moved, s.HangTarget(ledge), dt, false).Apply(moved)
		return motionTo(pose, aligned)

	case ClimbingUp:
		return Motion{DeltaPosition: s.ClimbDelta(surface, dt, DirUp), DeltaRotation: math.QuatIdentity()}

	case ClimbingDown:
		return Motion{DeltaPosition: s.ClimbDelta(surface, dt, DirDown), DeltaRotation: math.QuatIdentity()}
	}
	return NoMotion
}

// JumpImpulse is the jump-off velocity change. With no input the actor kicks
// up and away from the wall, up input jumps straight up, lateral input hops
// sideways. Magnitude is JumpForce * staminaFraction * surface speed.
func (s WallMotionSolver) JumpImpulse(normal math.Vec3, surface SurfaceType, staminaFraction float32, dir Direction) math.Vec3 {
	mag := s.cfg.JumpForce * math.Clamp(staminaFraction, 0, 1) * surface.SpeedMultiplier()
	n := normal.Horizontal().Normalize()

	var d math.Vec3
	switch dir {
	case DirUp:
		d = math.Up
	case DirLeft, DirRight:
		side := s.ShimmyDelta(n, DefaultSurface, 1, dir).Normalize()
		d = side.Add(math.Up).Normalize()
	default:
		d = math.Up.Add(n).Normalize()
	}
	return d.Scale(mag)
}

// VaultPlan is a precomputed quadratic curve from the hang over the lip.
type VaultPlan struct {
	Start    math.Vec3
	Control  math.Vec3
	End      math.Vec3
	Lip      math.Vec3
	Rotation math.Quat
	Progress float32 // 0..1
}

// PlanVault curves from the current feet position up past the lip and onto
// the floor beyond it.
func (s WallMotionSolver) PlanVault(pose math.Transform, floor math.Vec3) VaultPlan {
	fwd := pose.Forward()
	end := floor.Add(fwd.Scale(s.cfg.VaultForward))
	end.Y = floor.Y

	control := pose.Position
	control.Y = max(pose.Position.Y, end.Y) + s.cfg.VaultArc

	return VaultPlan{
		Start:    pose.Position,
		Control:  control,
		End:      end,
		Lip:      floor,
		Rotation: pose.Rotation,
	}
}

// AdvanceVault steps the plan; surface speed scales playback. It returns the
// new feet position and whether the curve is finished.
func (s WallMotionSolver) AdvanceVault(plan *VaultPlan, surface SurfaceType, dt float32) (math.Vec3, bool) {
	plan.Progress = math.Clamp(plan.Progress+dt*surface.SpeedMultiplier()/s.cfg.VaultDuration, 0, 1)
	if plan.Progress >= 1 {
		return plan.End, true
	}
	t := plan.Progress
	u := 1 - t
	p := plan.Start.Scale(u * u).
		Add(plan.Control.Scale(2 * u * t)).
		Add(plan.End.Scale(t * t))
	return p, false
}

// timedApproach interpolates linearly over a fixed duration (auto-hang).
type timedApproach struct {
	start    math.Transform
	target   math.Transform
	progress float32
}

// advanceTimed steps a timed approach: position lerps, rotation slerps.
func (s WallMotionSolver) advanceTimed(a *timedApproach, dt float32) (math.Transform, bool) {
	a.progress = math.Clamp(a.progress+dt/s.cfg.AutoHangDuration, 0, 1)
	if a.progress >= 1 {
		return a.target, true
	}
	return math.Transform{
		Position: a.start.Position.Lerp(a.target.Position, a.progress),
		Rotation: a.start.Rotation.Slerp(a.target.Rotation, a.progress).Normalize(),
	}, false
}
