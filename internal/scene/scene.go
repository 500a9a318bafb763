// Package scene loads headless test levels: static box colliders, ledge
// zones, an actor spawn and a scripted input timeline.
package scene

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-climb/internal/climb"
	"github.com/Faultbox/midgard-climb/internal/engine/raycast"
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// ErrInvalidScene is wrapped by every scene validation error.
var ErrInvalidScene = errors.New("invalid scene")

// Scene is a level description.
type Scene struct {
	Name   string            `yaml:"name"`
	Boxes  []BoxSpec         `yaml:"boxes"`
	Zones  []climb.LedgeZone `yaml:"zones"`
	Spawn  Spawn             `yaml:"spawn"`
	Script []Step            `yaml:"script"`
}

// BoxSpec is one static collider.
type BoxSpec struct {
	Name     string    `yaml:"name"`
	Min      math.Vec3 `yaml:"min"`
	Max      math.Vec3 `yaml:"max"`
	Material string    `yaml:"material"`
	Layer    string    `yaml:"layer"` // default, climbable, props
}

// Spawn places the actor. Facing is a horizontal direction; empty faces +Z.
type Spawn struct {
	Position math.Vec3 `yaml:"position"`
	Facing   math.Vec3 `yaml:"facing"`
}

// Step holds an input for a number of ticks. Cancel, when set, cancels
// traversal on the step's first tick ("death", "ragdoll", "teleport").
type Step struct {
	Ticks  int      `yaml:"ticks"`
	Hold   []string `yaml:"hold"`
	Cancel string   `yaml:"cancel,omitempty"`
}

var layers = map[string]raycast.LayerMask{
	"":          raycast.LayerDefault,
	"default":   raycast.LayerDefault,
	"climbable": raycast.LayerClimbable,
	"props":     raycast.LayerProps,
	"triggers":  raycast.LayerTriggers,
}

var cancelReasons = map[string]climb.CancelReason{
	"death":    climb.CancelDeath,
	"ragdoll":  climb.CancelRagdoll,
	"teleport": climb.CancelTeleport,
}

var inputNames = []string{"forward", "back", "left", "right", "jump", "drop"}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scene document.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	for i := range s.Zones {
		s.Zones[i].Bounds = raycast.NewAABB(s.Zones[i].Bounds.Min, s.Zones[i].Bounds.Max)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports every problem in the scene at once.
func (s *Scene) Validate() error {
	var err error
	if len(s.Boxes) == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: no boxes", ErrInvalidScene))
	}
	for i, b := range s.Boxes {
		if _, ok := layers[b.Layer]; !ok {
			err = multierr.Append(err, fmt.Errorf("%w: box %d (%s): unknown layer %q", ErrInvalidScene, i, b.Name, b.Layer))
		}
		if b.Min.X == b.Max.X || b.Min.Y == b.Max.Y || b.Min.Z == b.Max.Z {
			err = multierr.Append(err, fmt.Errorf("%w: box %d (%s) is flat", ErrInvalidScene, i, b.Name))
		}
	}
	for i, z := range s.Zones {
		if z.CustomSpeed != nil && *z.CustomSpeed <= 0 {
			err = multierr.Append(err, fmt.Errorf("%w: zone %d (%s): custom_speed must be > 0", ErrInvalidScene, i, z.Name))
		}
	}
	for i, st := range s.Script {
		if st.Ticks <= 0 {
			err = multierr.Append(err, fmt.Errorf("%w: step %d: ticks must be > 0", ErrInvalidScene, i))
		}
		if _, perr := parseInput(st.Hold); perr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: step %d: %v", ErrInvalidScene, i, perr))
		}
		if _, ok := cancelReasons[st.Cancel]; st.Cancel != "" && !ok {
			err = multierr.Append(err, fmt.Errorf("%w: step %d: unknown cancel reason %q", ErrInvalidScene, i, st.Cancel))
		}
	}
	return err
}

// World builds the collision world.
func (s *Scene) World() *raycast.World {
	w := raycast.NewWorld()
	for _, b := range s.Boxes {
		w.Add(raycast.Box{
			Bounds:   raycast.NewAABB(b.Min, b.Max),
			Material: b.Material,
			Layer:    layers[b.Layer],
		})
	}
	return w
}

// SpawnTransform is the actor's starting pose.
func (s *Scene) SpawnTransform() math.Transform {
	facing := s.Spawn.Facing
	if facing.Horizontal().IsZero() {
		facing = math.Forward
	}
	return math.Transform{Position: s.Spawn.Position, Rotation: math.QuatLookRotation(facing)}
}

// TotalTicks is the length of the script.
func (s *Scene) TotalTicks() int {
	n := 0
	for _, st := range s.Script {
		n += st.Ticks
	}
	return n
}

// Frame is what the script asks for on one tick.
type Frame struct {
	Input  climb.Input
	Cancel climb.CancelReason // zero when not cancelling
}

// At returns the scripted input for tick n. ok is false past the end.
func (s *Scene) At(n int) (Frame, bool) {
	for _, st := range s.Script {
		if n < st.Ticks {
			in, _ := parseInput(st.Hold)
			f := Frame{Input: in}
			if n == 0 {
				f.Cancel = cancelReasons[st.Cancel]
			}
			return f, true
		}
		n -= st.Ticks
	}
	return Frame{}, false
}

func parseInput(names []string) (climb.Input, error) {
	var in climb.Input
	for _, raw := range names {
		switch name := strings.ToLower(strings.TrimSpace(raw)); name {
		case "forward", "up":
			in.Forward = true
		case "back", "down":
			in.Back = true
		case "left":
			in.Left = true
		case "right":
			in.Right = true
		case "jump":
			in.Jump = true
		case "drop":
			in.Drop = true
		default:
			if guess := suggest(name); guess != "" {
				return in, fmt.Errorf("unknown input %q (did you mean %q?)", raw, guess)
			}
			return in, fmt.Errorf("unknown input %q", raw)
		}
	}
	return in, nil
}

// suggest returns the closest input name within a small edit distance.
func suggest(name string) string {
	best, bestDist := "", 3
	for _, candidate := range inputNames {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
