package climb

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-climb/internal/buildmode"
	"github.com/Faultbox/midgard-climb/internal/engine/raycast"
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// Body is the base locomotion controller the engine takes over while
// climbing. While suspended the controller must not apply gravity, ground
// friction or its own transform writes.
type Body interface {
	Transform() math.Transform
	SetTransform(math.Transform)
	Velocity() math.Vec3
	SetVelocity(math.Vec3)
	Grounded() bool
	SetPhysicsSuspended(bool)
	PhysicsSuspended() bool
}

// CancelReason says why an external system cut traversal short.
type CancelReason uint8

const (
	CancelDeath CancelReason = iota + 1
	CancelRagdoll
	CancelTeleport
)

func (r CancelReason) String() string {
	switch r {
	case CancelDeath:
		return "death"
	case CancelRagdoll:
		return "ragdoll"
	case CancelTeleport:
		return "teleport"
	}
	return "unknown"
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Transitions log at debug.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithEventSink forwards every event to sink as well as the frame.
func WithEventSink(sink EventSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithZones installs level-design overrides for ledge detection.
func WithZones(zones ...LedgeZone) Option {
	return func(e *Engine) { e.zones = append(e.zones, zones...) }
}

// Engine is the traversal state machine for one actor. It is not safe for
// concurrent use; call Tick once per fixed step before the body integrates.
type Engine struct {
	cfg  Config
	body Body
	rays Raycaster
	log  *zap.Logger
	sink EventSink

	zones    []LedgeZone
	detector LedgeDetector
	autoHang AutoHangDetector
	solver   WallMotionSolver

	tracker Tracker
	stamina *StaminaLedger
	latch   InputLatch

	surface  SurfaceType
	edge     math.Vec3
	target   math.Transform
	timed    bool
	approach timedApproach
	vault    VaultPlan

	gated        bool
	cooldown     float32
	transitioned bool

	events []Event
	match  TargetMatch
}

// tick holds what one Tick learned about the world.
type tick struct {
	dt      float32
	in      Input
	dir     Direction
	pose    math.Transform
	wall    raycast.Hit
	hasWall bool
	probe   LedgeProbeResult
	dest    LedgeProbeResult
}

// NewEngine validates cfg and binds an engine to body. Every invalid field is
// reported in the returned error.
func NewEngine(cfg Config, body Body, rays Raycaster, opts ...Option) (*Engine, error) {
	if body == nil || rays == nil {
		return nil, fmt.Errorf("climb engine needs a body and a raycaster")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("climb engine: %w", err)
	}
	stamina, err := NewStaminaLedger(cfg.Stamina.Max, cfg.Stamina.DrainRate, cfg.Stamina.RegenRate)
	if err != nil {
		return nil, fmt.Errorf("climb engine: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		body:    body,
		rays:    rays,
		log:     zap.NewNop(),
		stamina: stamina,
		events:  make([]Event, 0, 4),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.detector = NewLedgeDetector(&e.cfg, rays, e.zones)
	e.autoHang = NewAutoHangDetector(&e.cfg, rays)
	e.solver = NewWallMotionSolver(&e.cfg)
	return e, nil
}

// State returns the current traversal state.
func (e *Engine) State() ClimbState { return e.tracker.Current() }

// StateTimer returns seconds spent in the current state.
func (e *Engine) StateTimer() float32 { return e.tracker.Timer() }

// Tracker returns a copy of the state record.
func (e *Engine) Tracker() TrackerSnapshot { return e.tracker.Snapshot() }

// Stamina returns a copy of the stamina ledger.
func (e *Engine) Stamina() StaminaSnapshot { return e.stamina.Snapshot() }

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Tick advances the engine by dt seconds: detection, state evaluation,
// motion, then stamina. The returned frame's Events and TargetMatch are
// reused by the next Tick.
func (e *Engine) Tick(dt float32, in Input) Frame {
	e.events = e.events[:0]
	e.transitioned = false

	state := e.tracker.Current()
	if state.OwnsTransform() && !e.body.PhysicsSuspended() {
		buildmode.Violation(e.log, "body physics resumed while climb engine owns it",
			zap.Stringer("state", state))
		e.body.SetPhysicsSuspended(true)
	}

	if e.cooldown > 0 {
		e.cooldown = max(0, e.cooldown-dt)
	}

	t := &tick{dt: dt, in: in, pose: e.body.Transform()}
	t.dir = e.latch.Resolve(in)
	if e.limited() {
		t.dir = DirNone
	}

	e.evaluate(t)
	e.move(t)
	e.spend(t)
	e.tracker.advance(dt)

	return e.frame(t)
}

// Cancel drops traversal immediately and hands the body back to base physics.
// Events raised by a cancel reach the EventSink only; no Frame carries them.
func (e *Engine) Cancel(reason CancelReason) {
	from := e.tracker.Current()
	e.timed = false
	e.vault = VaultPlan{}
	e.latch.Reset()
	if from != None {
		e.log.Info("climb cancelled", zap.Stringer("reason", reason), zap.Stringer("state", from))
		e.setState(None, "cancel: "+reason.String())
		e.events = e.events[:0]
	}
	e.body.SetPhysicsSuspended(false)
}

// limited reports whether directional input is ignored for low stamina.
func (e *Engine) limited() bool {
	return e.cfg.AvoidInputWhileLimited &&
		e.tracker.Current().Attached() &&
		e.stamina.Fraction() <= e.cfg.Stamina.LimitedThreshold
}

// canGrab is false while recovering from depletion or just after a release.
func (e *Engine) canGrab() bool {
	if e.gated && !e.stamina.IsDepleted() && e.stamina.Fraction() >= e.cfg.Stamina.RegrabThreshold {
		e.gated = false
		e.log.Debug("climb regrab allowed", zap.Float32("stamina", e.stamina.Current()))
	}
	return !e.gated && e.cooldown <= 0 && !e.stamina.IsDepleted()
}

func (e *Engine) evaluate(t *tick) {
	switch state := e.tracker.Current(); state {
	case None:
		e.evaluateNone(t)
	case Falling:
		e.evaluateFalling(t)
	case Approaching:
		e.evaluateApproach(t)
	case Hanging, ClimbingUp, ClimbingDown, ClimbingLeft, ClimbingRight:
		e.evaluateAttached(t, state)
	case Vaulting:
		if e.vault.Progress >= 1 {
			e.body.SetVelocity(math.Vec3{})
			e.setState(None, "vault complete")
			e.emit(VaultCompleted, e.body.Transform().Position)
		}
	}
}

func (e *Engine) evaluateNone(t *tick) {
	if !e.canGrab() {
		return
	}
	if e.cfg.AutoHang && !e.body.Grounded() && e.tryAutoHang(t) {
		return
	}
	if !t.in.Forward && !e.cfg.AutoClimb {
		return
	}
	if probe := e.detector.Detect(t.pose, t.in); probe.Found {
		t.probe = probe
		e.grab(probe)
	}
}

func (e *Engine) evaluateFalling(t *tick) {
	if e.body.Grounded() {
		e.body.SetVelocity(math.Vec3{})
		e.setState(None, "landed")
		return
	}
	if e.cfg.AutoHang && e.canGrab() {
		e.tryAutoHang(t)
	}
}

func (e *Engine) tryAutoHang(t *tick) bool {
	trigger, ok := e.autoHang.Detect(t.pose, e.body.Velocity())
	if !ok {
		return false
	}
	t.probe = trigger.Probe
	e.surface = trigger.Probe.Surface
	e.edge = trigger.Probe.EdgePosition
	e.target = e.clearFloor(math.Transform{Position: trigger.Position, Rotation: trigger.Rotation})
	e.timed = true
	e.approach = timedApproach{start: t.pose, target: e.target}
	e.body.SetVelocity(math.Vec3{})
	e.setState(Approaching, "auto-hang")
	return true
}

func (e *Engine) grab(probe LedgeProbeResult) {
	e.surface = probe.Surface
	e.edge = probe.EdgePosition
	e.target = e.clearFloor(e.solver.HangTarget(probe))
	e.timed = false
	e.body.SetVelocity(math.Vec3{})
	e.setState(Approaching, "ledge detected")
}

func (e *Engine) evaluateApproach(t *tick) {
	if e.timed {
		if e.approach.progress >= 1 {
			e.timed = false
			e.setState(Hanging, "auto-hang settled")
		}
		return
	}
	if e.solver.Converged(t.pose, e.target) {
		e.setState(Hanging, "aligned")
	}
}

func (e *Engine) evaluateAttached(t *tick, state ClimbState) {
	t.wall, t.hasWall = e.detector.WallContact(t.pose)
	if t.hasWall {
		e.surface = e.surfaceOf(t.pose, t.wall)
	}
	t.probe = e.detector.ProbeAt(t.pose)
	if t.probe.Found {
		e.surface = t.probe.Surface
		e.edge = t.probe.EdgePosition
	}

	switch {
	case t.in.Jump && e.cfg.CanJumpWhenHanging:
		e.jump(t)
		return
	case t.in.Drop:
		e.release(Falling, "dropped")
		return
	}

	if state == Hanging || state == ClimbingUp {
		if floor, ok := e.detector.FeetClear(t.pose); ok {
			e.startVault(t, floor)
			return
		}
	}
	if !t.hasWall {
		e.release(Falling, "lost wall contact")
		return
	}

	switch state {
	case Hanging:
		e.evaluateHanging(t)
	case ClimbingUp:
		if t.dir != DirUp || !e.canClimbTo(t, DirUp) {
			e.setState(Hanging, "climb up stopped")
		}
	case ClimbingDown:
		switch {
		case e.body.Grounded():
			e.release(None, "reached ground")
		case t.dir != DirDown || !e.canClimbTo(t, DirDown):
			e.setState(Hanging, "climb down stopped")
		}
	case ClimbingLeft, ClimbingRight:
		want := DirLeft
		if state == ClimbingRight {
			want = DirRight
		}
		if t.dir != want || !e.canShimmy(t) {
			e.setState(Hanging, "shimmy stopped")
		}
	}
}

func (e *Engine) evaluateHanging(t *tick) {
	switch t.dir {
	case DirUp:
		if e.canClimbTo(t, DirUp) {
			e.setState(ClimbingUp, "up input")
		}
	case DirDown:
		if e.body.Grounded() {
			e.release(None, "reached ground")
		} else if e.canClimbTo(t, DirDown) {
			e.setState(ClimbingDown, "down input")
		}
	case DirLeft:
		if e.canShimmy(t) {
			e.setState(ClimbingLeft, "left input")
		}
	case DirRight:
		if e.canShimmy(t) {
			e.setState(ClimbingRight, "right input")
		}
	}
}

// canClimbTo probes the pose one step up or down before committing to it.
func (e *Engine) canClimbTo(t *tick, dir Direction) bool {
	dest := t.pose
	dest.Position = dest.Position.Add(e.solver.ClimbDelta(e.surface, t.dt, dir))
	if dir == DirDown {
		_, ok := e.detector.WallAt(dest, e.cfg.FootProbeHeight)
		return ok
	}
	if _, ok := e.detector.WallContact(dest); ok {
		return true
	}
	_, ok := e.detector.FeetClear(dest)
	return ok
}

// canShimmy runs the ledge probe at the lateral destination. The result is
// kept on t so the move aligns to the destination ledge.
func (e *Engine) canShimmy(t *tick) bool {
	normal := t.wall.Normal.Horizontal().Normalize()
	if t.probe.Found {
		normal = t.probe.WallNormal
	}
	dest := t.pose
	dest.Position = dest.Position.Add(e.solver.ShimmyDelta(normal, e.surface, t.dt, t.dir))
	t.dest = e.detector.ProbeAt(dest)
	return t.dest.Found
}

func (e *Engine) surfaceOf(pose math.Transform, wall raycast.Hit) SurfaceType {
	if z := findZone(e.zones, pose.Position, e.cfg.ChestHeight); z != nil {
		if s, ok := z.surface(); ok {
			return s
		}
	}
	return Classify(wall.Material)
}

func (e *Engine) jump(t *tick) {
	normal := t.wall.Normal
	switch {
	case t.probe.Found:
		normal = t.probe.WallNormal
	case !t.hasWall:
		normal = t.pose.Forward().Neg()
	}
	impulse := e.solver.JumpImpulse(normal, e.surface, e.stamina.Fraction(), t.dir)
	e.stamina.DrainOnce(e.cfg.Stamina.JumpCost)
	e.log.Debug("climb jump-off",
		zap.Stringer("direction", t.dir),
		zap.Float32("impulse", impulse.Length()))
	e.body.SetVelocity(impulse)
	e.release(None, "jump")
}

func (e *Engine) release(to ClimbState, reason string) {
	if to == Falling {
		e.body.SetVelocity(math.Vec3{})
	}
	e.setState(to, reason)
}

func (e *Engine) startVault(t *tick, floor math.Vec3) {
	e.vault = e.solver.PlanVault(t.pose, floor)
	e.stamina.DrainOnce(e.cfg.Stamina.VaultCost)
	e.body.SetVelocity(math.Vec3{})
	e.setState(Vaulting, "feet clear")
}

// setState performs a transition and everything tied to it: physics
// suspension, cooldown and events.
func (e *Engine) setState(to ClimbState, reason string) {
	from := e.tracker.Current()
	if !e.tracker.transition(to) {
		return
	}
	e.transitioned = true
	e.body.SetPhysicsSuspended(to.OwnsTransform())

	pos := e.body.Transform().Position
	switch {
	case from == Approaching && to == Hanging:
		e.emit(LedgeGrabbed, pos)
	case to == Vaulting:
		e.emit(VaultStarted, pos)
	}
	if from.engaged() && (to == None || to == Falling) {
		e.cooldown = e.cfg.RegrabCooldown
		e.emit(LedgeReleased, pos)
	}

	e.log.Debug("climb transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.String("reason", reason),
		zap.Stringer("surface", e.surface))
}

func (e *Engine) emit(kind EventKind, pos math.Vec3) {
	ev := Event{Kind: kind, Surface: e.surface, Position: pos, State: e.tracker.Current()}
	e.events = append(e.events, ev)
	if e.sink != nil {
		e.sink.OnClimbEvent(ev)
	}
}

// move writes this tick's transform for every engine-owned state.
func (e *Engine) move(t *tick) {
	pose := e.body.Transform()
	switch state := e.tracker.Current(); state {
	case None:
		return

	case Approaching:
		if e.timed {
			next, _ := e.solver.advanceTimed(&e.approach, t.dt)
			e.body.SetTransform(next)
			return
		}
		e.body.SetTransform(e.solver.Align(pose, e.target, t.dt, false).Apply(pose))

	case Hanging:
		e.body.SetTransform(e.solver.Solve(Hanging, pose, t.probe, e.surface, t.dt, DirNone).Apply(pose))

	case ClimbingLeft, ClimbingRight:
		e.body.SetTransform(e.clearFloor(e.solver.Solve(state, pose, t.dest, e.surface, t.dt, t.dir).Apply(pose)))

	case ClimbingUp:
		e.body.SetTransform(e.solver.Solve(state, pose, t.probe, e.surface, t.dt, DirUp).Apply(pose))

	case ClimbingDown:
		next := e.solver.Solve(state, pose, t.probe, e.surface, t.dt, DirDown).Apply(pose)
		if floor, ok := e.groundBelow(pose.Position, pose.Position.Y-next.Position.Y); ok {
			next.Position.Y = floor
		}
		e.body.SetTransform(next)

	case Vaulting:
		pos, _ := e.solver.AdvanceVault(&e.vault, e.surface, t.dt)
		e.body.SetTransform(math.Transform{Position: pos, Rotation: e.vault.Rotation})

	case Falling:
		e.fall(pose, t.dt)
	}
}

// fall integrates gravity while the engine owns a falling body and clamps to
// the first floor crossed.
func (e *Engine) fall(pose math.Transform, dt float32) {
	vel := e.body.Velocity()
	vel.Y = max(vel.Y-e.cfg.Gravity*dt, -e.cfg.MaxFallSpeed)
	next := pose
	next.Position = pose.Position.Add(vel.Scale(dt))
	if vel.Y < 0 {
		if floor, ok := e.groundBelow(pose.Position, -vel.Y*dt); ok {
			next.Position.Y = floor
			vel.Y = 0
		}
	}
	e.body.SetVelocity(vel)
	e.body.SetTransform(next)
}

// clearFloor lifts a hang pose to HangClearance above the floor under it.
// The floor is sampled just behind the pose, clear of the wall top.
func (e *Engine) clearFloor(pose math.Transform) math.Transform {
	reach := e.cfg.HandOffset.Y
	from := pose.Position.Sub(pose.Forward().Scale(e.cfg.ProbeEpsilon)).Add(math.Up.Scale(reach))
	floor, ok := e.groundBelow(from, reach+e.cfg.HangClearance)
	if ok && pose.Position.Y < floor+e.cfg.HangClearance {
		pose.Position.Y = floor + e.cfg.HangClearance
	}
	return pose
}

// groundBelow finds a floor within dist under feet.
func (e *Engine) groundBelow(feet math.Vec3, dist float32) (float32, bool) {
	if dist <= 0 {
		return 0, false
	}
	lift := e.cfg.FootProbeHeight
	hit, ok := e.rays.Raycast(feet.Add(math.Up.Scale(lift)), down, dist+lift, e.cfg.LayerMask)
	if !ok || !isTop(hit, e.cfg.TopMinNormalY) {
		return 0, false
	}
	return hit.Point.Y, true
}

// spend ticks the stamina ledger and forces a release on depletion.
func (e *Engine) spend(t *tick) {
	state := e.tracker.Current()
	wasDepleted := e.tracker.StaminaDepleted()
	switch {
	case state.engaged():
		e.stamina.Tick(t.dt, true, e.surface)
	case state == None:
		e.stamina.Tick(t.dt, false, DefaultSurface)
	}

	depleted := e.stamina.IsDepleted()
	e.tracker.depleted = depleted
	if !depleted || wasDepleted {
		return
	}

	e.gated = true
	e.log.Info("climb stamina depleted", zap.Stringer("state", state), zap.Stringer("surface", e.surface))
	e.emit(StaminaDepleted, e.body.Transform().Position)
	if state.engaged() {
		e.timed = false
		e.release(Falling, "stamina depleted")
	}
}

func (e *Engine) frame(t *tick) Frame {
	f := Frame{
		State:        e.tracker.Current(),
		Previous:     e.tracker.Previous(),
		StateTimer:   e.tracker.Timer(),
		Transitioned: e.transitioned,
		Direction:    t.dir,
		Surface:      e.surface,
		Events:       e.events,
		Stamina:      e.stamina.Snapshot(),
	}
	switch f.State {
	case Hanging:
		e.match = TargetMatch{
			NormalizedTimeRange: [2]float32{0, 0.35},
			TargetPosition:      e.edge,
			AxisMask:            math.Vec3{X: 1, Y: 1, Z: 1},
		}
		f.TargetMatch = &e.match
	case ClimbingUp:
		e.match = TargetMatch{
			NormalizedTimeRange: [2]float32{0.1, 0.6},
			TargetPosition:      e.edge,
			AxisMask:            math.Vec3{Y: 1},
		}
		f.TargetMatch = &e.match
	case Vaulting:
		e.match = TargetMatch{
			NormalizedTimeRange: [2]float32{0.15, 0.45},
			TargetPosition:      e.vault.Lip,
			AxisMask:            math.Vec3{X: 1, Y: 1, Z: 1},
		}
		f.TargetMatch = &e.match
	}
	return f
}
