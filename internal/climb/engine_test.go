package climb_test

import (
	"testing"

	"github.com/Faultbox/midgard-climb/internal/climb"
	"github.com/Faultbox/midgard-climb/internal/engine/character"
	"github.com/Faultbox/midgard-climb/internal/engine/raycast"
	"github.com/Faultbox/midgard-climb/pkg/math"
)

const dt = float32(1.0 / 60.0)

var (
	forward = climb.Input{Forward: true}
	idle    = climb.Input{}
)

func box(minX, minY, minZ, maxX, maxY, maxZ float32, material string) raycast.Box {
	return raycast.Box{
		Bounds:   raycast.NewAABB(math.Vec3{X: minX, Y: minY, Z: minZ}, math.Vec3{X: maxX, Y: maxY, Z: maxZ}),
		Material: material,
	}
}

// ground is a floor with its top at Y=0.
func ground() raycast.Box { return box(-20, -1, -20, 20, 0, 20, "dirt") }

// rig steps an engine and a base controller the way a game loop would.
type rig struct {
	t      *testing.T
	body   *character.Controller
	eng    *climb.Engine
	events []climb.Event
}

func newRig(t *testing.T, cfg climb.Config, spawn math.Transform, boxes []raycast.Box, opts ...climb.Option) *rig {
	t.Helper()
	world := raycast.NewWorld(boxes...)
	r := &rig{t: t}
	r.body = character.NewController(character.DefaultConfig(), world, spawn, nil)
	opts = append(opts, climb.WithEventSink(climb.EventSinkFunc(func(e climb.Event) {
		r.events = append(r.events, e)
	})))
	eng, err := climb.NewEngine(cfg, r.body, world, opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	r.eng = eng
	return r
}

func (r *rig) step(in climb.Input) climb.Frame {
	r.t.Helper()
	f := r.eng.Tick(dt, in)
	if r.eng.State() == climb.None && in.Forward {
		r.body.Walk(r.body.Transform().Forward(), dt)
	}
	r.body.Integrate(dt)

	if suspended, owns := r.body.PhysicsSuspended(), r.eng.State().OwnsTransform(); suspended != owns {
		r.t.Fatalf("state %v: physics suspended = %v, want %v", r.eng.State(), suspended, owns)
	}
	return f
}

// until steps with in until cond holds or the tick budget runs out.
func (r *rig) until(in climb.Input, ticks int, cond func(climb.Frame) bool) (climb.Frame, bool) {
	r.t.Helper()
	var f climb.Frame
	for i := 0; i < ticks; i++ {
		f = r.step(in)
		if cond(f) {
			return f, true
		}
	}
	return f, false
}

func inState(s climb.ClimbState) func(climb.Frame) bool {
	return func(f climb.Frame) bool { return f.State == s }
}

func facing(dir math.Vec3, x, y, z float32) math.Transform {
	return math.Transform{Position: math.Vec3{X: x, Y: y, Z: z}, Rotation: math.QuatLookRotation(dir)}
}

func (r *rig) sawEvents(kinds ...climb.EventKind) bool {
	i := 0
	for _, e := range r.events {
		if i < len(kinds) && e.Kind == kinds[i] {
			i++
		}
	}
	return i == len(kinds)
}

// grabAndHang walks into the wall until hanging, releasing forward once the
// grab starts so the actor does not climb on.
func (r *rig) grabAndHang() {
	r.t.Helper()
	if _, ok := r.until(forward, 60, inState(climb.Approaching)); !ok {
		r.t.Fatalf("never grabbed, state %v", r.eng.State())
	}
	if _, ok := r.until(idle, 120, inState(climb.Hanging)); !ok {
		r.t.Fatalf("never settled into Hanging, state %v", r.eng.State())
	}
}

func TestClimbUpAndVaultRoundTrip(t *testing.T) {
	r := newRig(t, climb.DefaultConfig(), facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})

	seen := map[climb.ClimbState]bool{}
	prevStamina := r.eng.Stamina().Current
	prevAttached := false
	var f climb.Frame
	done := false
	for i := 0; i < 600 && !done; i++ {
		f = r.step(forward)
		seen[f.State] = true

		attached := f.State.Attached()
		if attached && prevAttached && f.Stamina.Current > prevStamina {
			t.Fatalf("tick %d: stamina rose while attached: %v -> %v", i, prevStamina, f.Stamina.Current)
		}
		prevAttached, prevStamina = attached, f.Stamina.Current

		done = f.State == climb.None && seen[climb.Vaulting]
	}

	if !done {
		t.Fatalf("round trip incomplete, final state %v, seen %v", f.State, seen)
	}
	for _, s := range []climb.ClimbState{climb.Approaching, climb.Hanging, climb.ClimbingUp, climb.Vaulting} {
		if !seen[s] {
			t.Errorf("never passed through %v", s)
		}
	}
	if !r.body.Grounded() {
		t.Error("Grounded() after vault = false, want true")
	}
	if y := r.body.Transform().Position.Y; y < 1.99 || y > 2.01 {
		t.Errorf("Y after vault = %v, want on top of the ledge at 2", y)
	}
	if !r.sawEvents(climb.LedgeGrabbed, climb.VaultStarted, climb.VaultCompleted) {
		t.Errorf("events = %v, want grab, vault start, vault complete in order", r.events)
	}
}

func TestTargetMatchPublished(t *testing.T) {
	r := newRig(t, climb.DefaultConfig(), facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})
	r.grabAndHang()

	f := r.step(idle)
	if f.TargetMatch == nil {
		t.Fatal("TargetMatch = nil while hanging")
	}
	if f.TargetMatch.TargetPosition.Y != 2 {
		t.Errorf("TargetPosition.Y = %v, want the edge at 2", f.TargetMatch.TargetPosition.Y)
	}
	if f.Surface != climb.Stone {
		t.Errorf("Surface = %v, want stone", f.Surface)
	}

	f = r.step(forward)
	if f.State != climb.ClimbingUp {
		t.Fatalf("state = %v, want ClimbingUp", f.State)
	}
	if f.TargetMatch == nil || f.TargetMatch.AxisMask != (math.Vec3{Y: 1}) {
		t.Errorf("ClimbingUp TargetMatch = %+v, want Y-only mask", f.TargetMatch)
	}

	f = r.step(idle)
	if f.State != climb.Hanging {
		t.Errorf("state after releasing up = %v, want Hanging", f.State)
	}
}

func TestAutoHangWhileFalling(t *testing.T) {
	// The actor steps off the top back edge of a platform, facing away from it.
	platform := box(-5, 0, 0, 5, 3, 4, "wood")
	r := newRig(t, climb.DefaultConfig(), facing(math.Vec3{Z: -1}, 0, 3, -0.3), []raycast.Box{platform})

	for i := 0; i < 300; i++ {
		f := r.step(idle)
		if r.body.Grounded() {
			t.Fatalf("tick %d: touched ground at %v in state %v", i, r.body.Transform().Position, f.State)
		}
		if f.State == climb.Hanging {
			pose := r.body.Transform()
			if y := pose.Position.Y; y < 1.15 || y > 1.25 {
				t.Errorf("hang Y = %v, want ~1.2", y)
			}
			if fwd := pose.Forward(); !fwd.ApproxEqual(math.Forward, 1e-3) {
				t.Errorf("facing = %v, want turned to the wall (+Z)", fwd)
			}
			return
		}
	}
	t.Fatalf("never auto-hung, state %v at %v", r.eng.State(), r.body.Transform().Position)
}

func TestAutoHangDisabled(t *testing.T) {
	cfg := climb.DefaultConfig()
	cfg.AutoHang = false
	r := newRig(t, cfg, facing(math.Vec3{Z: -1}, 0, 3, -0.3),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 3, 4, "wood")})

	for i := 0; i < 120; i++ {
		if f := r.step(idle); f.State != climb.None {
			t.Fatalf("tick %d: state %v with auto-hang disabled", i, f.State)
		}
	}
	if !r.body.Grounded() {
		t.Error("did not land")
	}
}

func TestShimmyStopsAtLedgeEnd(t *testing.T) {
	r := newRig(t, climb.DefaultConfig(), facing(math.Forward, 0.85, 0, -0.5),
		[]raycast.Box{ground(), box(-1, 0, 0, 1, 2, 4, "stone")})
	r.grabAndHang()

	left := climb.Input{Left: true}
	movedLeft := false
	for i := 0; i < 30; i++ {
		f := r.step(left)
		if f.State == climb.ClimbingLeft {
			movedLeft = true
		}
	}
	if !movedLeft {
		t.Fatal("never shimmied left")
	}

	// Pinned against the end: further input must not move the actor.
	before := r.body.Transform().Position
	for i := 0; i < 30; i++ {
		r.step(left)
		if x := r.body.Transform().Position.X; x > 1 {
			t.Fatalf("shimmied into open air: x = %v", x)
		}
	}
	after := r.body.Transform().Position
	if d := after.X - before.X; d > 1e-4 || d < -1e-4 {
		t.Errorf("x drifted %v -> %v at the ledge end", before.X, after.X)
	}
	if s := r.eng.State(); s != climb.Hanging {
		t.Errorf("state = %v, want Hanging", s)
	}
}

func TestShimmyAcrossLedge(t *testing.T) {
	r := newRig(t, climb.DefaultConfig(), facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})
	r.grabAndHang()
	start := r.body.Transform().Position

	right := climb.Input{Right: true}
	for i := 0; i < 60; i++ {
		r.step(right)
	}
	if s := r.eng.State(); s != climb.ClimbingRight {
		t.Errorf("state = %v, want ClimbingRight", s)
	}
	end := r.body.Transform().Position
	// Facing +Z, right is -X.
	if end.X >= start.X-0.5 {
		t.Errorf("x = %v -> %v, want at least 0.5 to the right", start.X, end.X)
	}
	if d := end.Y - start.Y; d > 0.01 || d < -0.01 {
		t.Errorf("height changed while shimmying: %v -> %v", start.Y, end.Y)
	}
}

func TestStaminaDepletionForcesFall(t *testing.T) {
	cfg := climb.DefaultConfig()
	cfg.Stamina.Max = 1
	r := newRig(t, cfg, facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})

	f, ok := r.until(forward, 120, func(f climb.Frame) bool {
		for _, e := range f.Events {
			if e.Kind == climb.StaminaDepleted {
				return true
			}
		}
		return false
	})
	if !ok {
		t.Fatalf("stamina never depleted, state %v stamina %+v", f.State, f.Stamina)
	}
	if f.State != climb.Falling {
		t.Errorf("state on depletion tick = %v, want Falling", f.State)
	}
	if !f.Stamina.Depleted || !r.eng.Tracker().StaminaDepleted {
		t.Error("depletion not reflected in snapshots")
	}
	if !r.sawEvents(climb.StaminaDepleted) {
		t.Error("sink did not receive StaminaDepleted")
	}

	if _, ok := r.until(idle, 120, inState(climb.None)); !ok {
		t.Fatalf("never landed, state %v", r.eng.State())
	}
	if !r.body.Grounded() {
		t.Error("Grounded() after landing = false")
	}
}

func TestJumpOffWall(t *testing.T) {
	r := newRig(t, climb.DefaultConfig(), facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})
	r.grabAndHang()
	before := r.eng.Stamina()

	f := r.step(climb.Input{Jump: true})
	if f.State != climb.None {
		t.Fatalf("state after jump = %v, want None", f.State)
	}
	v := r.body.Velocity()
	if v.Y <= 0 || v.Z >= 0 {
		t.Errorf("jump velocity = %v, want up and away from the wall (-Z)", v)
	}
	if f.Stamina.Current >= before.Current {
		t.Errorf("stamina %v -> %v, want jump cost applied", before.Current, f.Stamina.Current)
	}
	if !r.sawEvents(climb.LedgeReleased) {
		t.Error("no LedgeReleased event")
	}

	// Cooldown: no regrab on the next tick even with forward held.
	if f := r.step(forward); f.State != climb.None {
		t.Errorf("state right after jump = %v, want None", f.State)
	}
}

func TestJumpDisabledWhenHanging(t *testing.T) {
	cfg := climb.DefaultConfig()
	cfg.CanJumpWhenHanging = false
	r := newRig(t, cfg, facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})
	r.grabAndHang()

	if f := r.step(climb.Input{Jump: true}); f.State != climb.Hanging {
		t.Errorf("state after jump = %v, want Hanging", f.State)
	}
}

func TestDropToFalling(t *testing.T) {
	r := newRig(t, climb.DefaultConfig(), facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})
	r.grabAndHang()

	f := r.step(climb.Input{Drop: true})
	if f.State != climb.Falling {
		t.Fatalf("state after drop = %v, want Falling", f.State)
	}
	if !r.sawEvents(climb.LedgeReleased) {
		t.Error("no LedgeReleased event on drop")
	}
	if _, ok := r.until(idle, 120, inState(climb.None)); !ok {
		t.Fatalf("never landed from drop, state %v at %v", r.eng.State(), r.body.Transform().Position)
	}
	if !r.body.Grounded() {
		t.Error("Grounded() after landing = false")
	}
}

func TestCancelReleasesBody(t *testing.T) {
	r := newRig(t, climb.DefaultConfig(), facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})
	r.grabAndHang()

	r.eng.Cancel(climb.CancelTeleport)

	if s := r.eng.State(); s != climb.None {
		t.Errorf("state after Cancel = %v, want None", s)
	}
	if r.body.PhysicsSuspended() {
		t.Error("physics still suspended after Cancel")
	}
	if !r.sawEvents(climb.LedgeGrabbed, climb.LedgeReleased) {
		t.Errorf("events = %v, want a release after the grab", r.events)
	}
	// The body must be usable by base physics again.
	r.body.Walk(math.Vec3{Z: -1}, dt)
}

func TestZoneBlocksGrab(t *testing.T) {
	zone := climb.LedgeZone{
		Name:   "facade",
		Bounds: raycast.NewAABB(math.Vec3{X: -2, Y: -1, Z: -2}, math.Vec3{X: 2, Y: 3, Z: 0}),
	}
	r := newRig(t, climb.DefaultConfig(), facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")}, climb.WithZones(zone))

	for i := 0; i < 30; i++ {
		if f := r.step(forward); f.State != climb.None {
			t.Fatalf("tick %d: state %v inside a non-climbable zone", i, f.State)
		}
	}
}

func TestZoneCustomSpeed(t *testing.T) {
	speed := float32(0.5)
	zone := climb.LedgeZone{
		Name:         "rope-wall",
		Bounds:       raycast.NewAABB(math.Vec3{X: -2, Y: -1, Z: -2}, math.Vec3{X: 2, Y: 3, Z: 0}),
		CanBeClimbed: true,
		CustomSpeed:  &speed,
	}
	r := newRig(t, climb.DefaultConfig(), facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")}, climb.WithZones(zone))
	r.grabAndHang()

	if f := r.step(idle); f.Surface != climb.Custom(0.5) {
		t.Errorf("Surface = %v, want custom(0.5)", f.Surface)
	}
}

func TestAvoidInputWhileLimited(t *testing.T) {
	cfg := climb.DefaultConfig()
	cfg.AvoidInputWhileLimited = true
	cfg.Stamina.LimitedThreshold = 1
	r := newRig(t, cfg, facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})
	r.grabAndHang()

	if f := r.step(forward); f.State != climb.Hanging {
		t.Errorf("state with limited stamina and up input = %v, want Hanging", f.State)
	}
	if f := r.step(climb.Input{Jump: true}); f.State != climb.None {
		t.Errorf("jump while limited = %v, want None", f.State)
	}
}

func TestGrabNeedsForwardOrAutoClimb(t *testing.T) {
	tests := []struct {
		name      string
		autoClimb bool
		in        climb.Input
		want      climb.ClimbState
	}{
		{"idle", false, idle, climb.None},
		{"backing away", false, climb.Input{Back: true}, climb.None},
		{"strafing", false, climb.Input{Left: true}, climb.None},
		{"auto climb while idle", true, idle, climb.Approaching},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := climb.DefaultConfig()
			cfg.OnlyGrabIfMovingForward = false
			cfg.AutoClimb = tt.autoClimb
			r := newRig(t, cfg, facing(math.Forward, 0, 0, -0.5),
				[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})

			var f climb.Frame
			for i := 0; i < 30 && f.State == climb.None; i++ {
				f = r.step(tt.in)
			}
			if f.State != tt.want {
				t.Errorf("state = %v, want %v", f.State, tt.want)
			}
		})
	}
}

func TestCancelDuringVaultIsNotACompletion(t *testing.T) {
	r := newRig(t, climb.DefaultConfig(), facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 2, 4, "stone")})
	if _, ok := r.until(forward, 600, inState(climb.Vaulting)); !ok {
		t.Fatalf("never started vaulting, state %v", r.eng.State())
	}

	r.events = nil
	r.eng.Cancel(climb.CancelDeath)
	for _, e := range r.events {
		if e.Kind == climb.VaultCompleted {
			t.Errorf("cancel emitted %v", e.Kind)
		}
	}

	if f := r.step(idle); len(f.Events) != 0 {
		t.Errorf("frame after cancel carries events %v, want none", f.Events)
	}
}

func TestLowLedgeHangStaysOffTheFloor(t *testing.T) {
	cfg := climb.DefaultConfig()
	r := newRig(t, cfg, facing(math.Forward, 0, 0, -0.5),
		[]raycast.Box{ground(), box(-5, 0, 0, 5, 1.6, 4, "stone")})
	r.grabAndHang()

	for i := 0; i < 30; i++ {
		if f := r.step(idle); f.State != climb.Hanging {
			t.Fatalf("tick %d: state = %v, want Hanging", i, f.State)
		}
	}
	if y := r.body.Transform().Position.Y; y < cfg.HangClearance-1e-3 {
		t.Errorf("hanging feet Y = %v, want at least %v above the floor", y, cfg.HangClearance)
	}
	if r.body.Grounded() {
		t.Error("Grounded() while hanging = true, want false")
	}

	// Climbing down from a low hang reaches the floor and hands back control.
	if _, ok := r.until(climb.Input{Back: true}, 60, inState(climb.None)); !ok {
		t.Fatalf("never released to None climbing down, state %v", r.eng.State())
	}
}
