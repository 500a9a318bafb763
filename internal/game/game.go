// Package game runs a scene headlessly: a fixed-step loop feeding scripted
// input to the traversal engine and the base locomotion controller.
package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-climb/internal/climb"
	"github.com/Faultbox/midgard-climb/internal/config"
	"github.com/Faultbox/midgard-climb/internal/engine/character"
	"github.com/Faultbox/midgard-climb/internal/scene"
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// Game is one simulated actor in one scene.
type Game struct {
	cfg   *config.Config
	scene *scene.Scene
	log   *zap.Logger
	dt    float32

	body   *character.Controller
	engine *climb.Engine

	tick        int
	transitions int
	events      map[climb.EventKind]int
}

// Summary describes the end of a run.
type Summary struct {
	Ticks       int
	State       climb.ClimbState
	Position    math.Vec3
	Grounded    bool
	Stamina     climb.StaminaSnapshot
	Transitions int
	Events      map[climb.EventKind]int
}

// New builds the world, the body and the engine for a scene.
func New(cfg *config.Config, sc *scene.Scene, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("initializing simulation",
		zap.String("scene", sc.Name),
		zap.Int("tick_rate", cfg.Sim.TickRate),
		zap.Int("boxes", len(sc.Boxes)),
		zap.Int("zones", len(sc.Zones)),
	)

	world := sc.World()
	g := &Game{
		cfg:    cfg,
		scene:  sc,
		log:    log,
		dt:     cfg.Step(),
		events: make(map[climb.EventKind]int),
	}
	g.body = character.NewController(cfg.Physics, world, sc.SpawnTransform(), log.Named("body"))

	var err error
	g.engine, err = climb.NewEngine(cfg.Climb, g.body, world,
		climb.WithLogger(log.Named("climb")),
		climb.WithZones(sc.Zones...),
		climb.WithEventSink(climb.EventSinkFunc(g.onEvent)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create climb engine: %w", err)
	}

	log.Info("simulation initialized")
	return g, nil
}

func (g *Game) onEvent(e climb.Event) {
	g.events[e.Kind]++
	g.log.Info("climb event",
		zap.Int("tick", g.tick),
		zap.Stringer("kind", e.Kind),
		zap.Stringer("surface", e.Surface),
		zap.Stringer("state", e.State),
		zap.Float32("x", e.Position.X),
		zap.Float32("y", e.Position.Y),
		zap.Float32("z", e.Position.Z),
	)
}

// Step advances one fixed step: traversal first, then base locomotion.
func (g *Game) Step(f scene.Frame) climb.Frame {
	if f.Cancel != 0 {
		g.engine.Cancel(f.Cancel)
	}

	frame := g.engine.Tick(g.dt, f.Input)
	if frame.Transitioned {
		g.transitions++
	}
	if frame.State == climb.None {
		g.walk(f.Input)
	}
	g.body.Integrate(g.dt)
	g.tick++
	return frame
}

// walk maps directional input onto the base controller, relative to facing.
func (g *Game) walk(in climb.Input) {
	pose := g.body.Transform()
	var dir math.Vec3
	if in.Forward {
		dir = dir.Add(pose.Forward())
	}
	if in.Back {
		dir = dir.Sub(pose.Forward())
	}
	if in.Right {
		dir = dir.Add(pose.Right())
	}
	if in.Left {
		dir = dir.Sub(pose.Right())
	}
	if !dir.IsZero() {
		g.body.Walk(dir, g.dt)
	}
}

// Run plays the scene script, or the configured number of ticks when set.
// Ticks past the end of the script have no input.
func (g *Game) Run() (Summary, error) {
	total := g.cfg.Sim.Ticks
	if total == 0 {
		total = g.scene.TotalTicks()
	}
	if total <= 0 {
		return Summary{}, fmt.Errorf("scene %q has no script and no tick count", g.scene.Name)
	}

	for g.tick < total {
		f, _ := g.scene.At(g.tick)
		g.Step(f)
	}

	s := g.Summary()
	g.log.Info("simulation finished",
		zap.Int("ticks", s.Ticks),
		zap.Stringer("state", s.State),
		zap.Bool("grounded", s.Grounded),
		zap.Float32("stamina", s.Stamina.Current),
		zap.Int("transitions", s.Transitions),
	)
	return s, nil
}

// Summary reports the current state of the run.
func (g *Game) Summary() Summary {
	events := make(map[climb.EventKind]int, len(g.events))
	for k, v := range g.events {
		events[k] = v
	}
	return Summary{
		Ticks:       g.tick,
		State:       g.engine.State(),
		Position:    g.body.Transform().Position,
		Grounded:    g.body.Grounded(),
		Stamina:     g.engine.Stamina(),
		Transitions: g.transitions,
		Events:      events,
	}
}
