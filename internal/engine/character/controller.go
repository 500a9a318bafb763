// Package character provides the base locomotion controller: gravity, ground
// contact, friction and walking. A traversal system can suspend it and take
// over the transform.
package character

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-climb/internal/engine/raycast"
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// Raycaster answers the ray queries the controller needs.
type Raycaster interface {
	Raycast(origin, dir math.Vec3, maxDist float32, mask raycast.LayerMask) (raycast.Hit, bool)
}

// Config tunes base locomotion.
type Config struct {
	Gravity      float32           `yaml:"gravity" env:"PHYSICS_GRAVITY"`
	MaxFallSpeed float32           `yaml:"max_fall_speed" env:"PHYSICS_MAX_FALL_SPEED"`
	WalkSpeed    float32           `yaml:"walk_speed" env:"PHYSICS_WALK_SPEED"`
	Friction     float32           `yaml:"friction" env:"PHYSICS_FRICTION"`
	Radius       float32           `yaml:"radius" env:"PHYSICS_RADIUS"`
	StepHeight   float32           `yaml:"step_height" env:"PHYSICS_STEP_HEIGHT"`
	GroundSkin   float32           `yaml:"ground_skin" env:"PHYSICS_GROUND_SKIN"`
	LayerMask    raycast.LayerMask `yaml:"layer_mask" env:"PHYSICS_LAYER_MASK"`
}

// DefaultConfig returns tuning for a human-sized actor.
func DefaultConfig() Config {
	return Config{
		Gravity:      9.81,
		MaxFallSpeed: 30,
		WalkSpeed:    3.5,
		Friction:     8,
		Radius:       0.3,
		StepHeight:   0.3,
		GroundSkin:   0.05,
		LayerMask:    raycast.LayerDefault | raycast.LayerClimbable,
	}
}

// ErrInvalidConfig is wrapped by every locomotion config error.
var ErrInvalidConfig = errors.New("invalid locomotion config")

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error
	for _, f := range []struct {
		name string
		v    float32
	}{
		{"gravity", c.Gravity},
		{"max_fall_speed", c.MaxFallSpeed},
		{"walk_speed", c.WalkSpeed},
		{"radius", c.Radius},
		{"ground_skin", c.GroundSkin},
	} {
		if f.v <= 0 {
			err = multierr.Append(err, fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidConfig, f.name, f.v))
		}
	}
	if c.Friction < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: friction must be >= 0, got %v", ErrInvalidConfig, c.Friction))
	}
	if c.StepHeight < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: step_height must be >= 0, got %v", ErrInvalidConfig, c.StepHeight))
	}
	if c.LayerMask == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: layer_mask selects no layers", ErrInvalidConfig))
	}
	return err
}

// Controller is a kinematic character body. Transform.Position is the feet.
type Controller struct {
	cfg  Config
	rays Raycaster
	log  *zap.Logger

	transform math.Transform
	velocity  math.Vec3
	suspended bool
	walking   bool
}

// NewController places a controller at spawn.
func NewController(cfg Config, rays Raycaster, spawn math.Transform, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if spawn.Rotation == (math.Quat{}) {
		spawn.Rotation = math.QuatIdentity()
	}
	return &Controller{cfg: cfg, rays: rays, log: log, transform: spawn}
}

// Transform returns the current pose.
func (c *Controller) Transform() math.Transform { return c.transform }

// SetTransform overwrites the pose.
func (c *Controller) SetTransform(t math.Transform) { c.transform = t }

// Velocity returns the current velocity.
func (c *Controller) Velocity() math.Vec3 { return c.velocity }

// SetVelocity overwrites the velocity.
func (c *Controller) SetVelocity(v math.Vec3) { c.velocity = v }

// PhysicsSuspended reports whether another system owns the body.
func (c *Controller) PhysicsSuspended() bool { return c.suspended }

// SetPhysicsSuspended hands the body to (true) or back from (false) another
// system. Resuming clears any pending walk.
func (c *Controller) SetPhysicsSuspended(suspended bool) {
	if c.suspended == suspended {
		return
	}
	c.suspended = suspended
	c.walking = false
	c.log.Debug("physics suspended", zap.Bool("suspended", suspended))
}

// Grounded reports live ground contact under the feet.
func (c *Controller) Grounded() bool {
	_, ok := c.groundHeight(c.transform.Position, c.cfg.GroundSkin)
	return ok && c.velocity.Y <= 0
}

// groundHeight casts down from StepHeight above feet for StepHeight+dist.
func (c *Controller) groundHeight(feet math.Vec3, dist float32) (float32, bool) {
	origin := feet.Add(math.Up.Scale(c.cfg.StepHeight))
	hit, ok := c.rays.Raycast(origin, math.Vec3{Y: -1}, c.cfg.StepHeight+dist, c.cfg.LayerMask)
	if !ok || hit.Normal.Y < 0.7 {
		return 0, false
	}
	return hit.Point.Y, true
}

// Integrate applies gravity, friction and ground clamping for dt seconds.
// It does nothing while suspended.
func (c *Controller) Integrate(dt float32) {
	if c.suspended || dt <= 0 {
		return
	}

	grounded := c.Grounded()
	if !grounded {
		c.velocity.Y = max(c.velocity.Y-c.cfg.Gravity*dt, -c.cfg.MaxFallSpeed)
	} else if !c.walking {
		// Ground friction bleeds horizontal speed.
		k := 1 - math.ExpDecay(c.cfg.Friction, dt)
		c.velocity.X *= k
		c.velocity.Z *= k
	}
	c.walking = false

	next := c.transform.Position.Add(c.velocity.Scale(dt))
	if c.velocity.Y <= 0 {
		drop := c.transform.Position.Y - next.Y
		if floor, ok := c.groundHeight(math.Vec3{X: next.X, Y: c.transform.Position.Y, Z: next.Z}, drop+c.cfg.GroundSkin); ok && next.Y <= floor+c.cfg.GroundSkin {
			next.Y = floor
			c.velocity.Y = 0
		}
	}
	c.transform.Position = next
}
