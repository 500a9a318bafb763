package character

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-climb/internal/buildmode"
	"github.com/Faultbox/midgard-climb/internal/engine/raycast"
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// Walk sets horizontal velocity toward dir at WalkSpeed and turns to face it.
// Walking into a wall stops the actor at the wall. Calling Walk while
// suspended is an ownership conflict.
func (c *Controller) Walk(dir math.Vec3, dt float32) {
	if c.suspended {
		buildmode.Violation(c.log, "walk while physics is suspended",
			zap.Float32("x", c.transform.Position.X),
			zap.Float32("z", c.transform.Position.Z))
		return
	}

	dir = dir.Horizontal()
	length := dir.Length()
	if length < 1e-4 {
		return
	}
	dir = dir.Scale(1 / length)

	speed := c.cfg.WalkSpeed
	if hit, ok := c.obstacle(dir, speed*dt+c.cfg.Radius); ok {
		// Stop short of the wall.
		speed = max(0, hit.Distance-c.cfg.Radius) / dt
	}

	c.velocity.X = dir.X * speed
	c.velocity.Z = dir.Z * speed
	c.transform.Rotation = math.QuatLookRotation(dir)
	c.walking = true
}

// Stop clears horizontal velocity.
func (c *Controller) Stop() {
	if c.suspended {
		buildmode.Violation(c.log, "stop while physics is suspended")
		return
	}
	c.velocity.X = 0
	c.velocity.Z = 0
}

// obstacle casts along dir at knee height.
func (c *Controller) obstacle(dir math.Vec3, dist float32) (raycast.Hit, bool) {
	origin := c.transform.Position.Add(math.Up.Scale(c.cfg.StepHeight + c.cfg.GroundSkin))
	hit, ok := c.rays.Raycast(origin, dir, dist, c.cfg.LayerMask)
	if !ok || hit.Normal.Y >= 0.7 {
		return raycast.Hit{}, false
	}
	return hit, true
}
