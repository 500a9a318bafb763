package climb

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-climb/internal/engine/raycast"
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid climb config")

// Config tunes one actor's traversal. It is fixed at engine construction.
// Distances are in world units (meters), speeds in units per second.
type Config struct {
	// Dual-ray probe
	ForwardDistance float32           `yaml:"forward_distance" env:"CLIMB_FORWARD_DISTANCE"`
	DownDistance    float32           `yaml:"down_distance" env:"CLIMB_DOWN_DISTANCE"`
	LayerMask       raycast.LayerMask `yaml:"layer_mask" env:"CLIMB_LAYER_MASK"`
	ChestHeight     float32           `yaml:"chest_height" env:"CLIMB_CHEST_HEIGHT"`
	DownRayHeight   float32           `yaml:"down_ray_height" env:"CLIMB_DOWN_RAY_HEIGHT"`
	ProbeEpsilon    float32           `yaml:"probe_epsilon" env:"CLIMB_PROBE_EPSILON"`
	WallMaxNormalY  float32           `yaml:"wall_max_normal_y" env:"CLIMB_WALL_MAX_NORMAL_Y"`
	TopMinNormalY   float32           `yaml:"top_min_normal_y" env:"CLIMB_TOP_MIN_NORMAL_Y"`
	ReachMin        float32           `yaml:"reach_min" env:"CLIMB_REACH_MIN"`
	ReachMax        float32           `yaml:"reach_max" env:"CLIMB_REACH_MAX"`

	// Feet-clear probe used to start a vault
	FootProbeHeight    float32 `yaml:"foot_probe_height" env:"CLIMB_FOOT_PROBE_HEIGHT"`
	VaultReach         float32 `yaml:"vault_reach" env:"CLIMB_VAULT_REACH"`
	VaultDropTolerance float32 `yaml:"vault_drop_tolerance" env:"CLIMB_VAULT_DROP_TOLERANCE"`

	// Hand placement relative to the edge: Y below the edge, Z out from the wall.
	HandOffset math.Vec3 `yaml:"hand_offset"`
	// Feet-to-floor gap kept when a low ledge would put the hang pose underground.
	HangClearance float32 `yaml:"hang_clearance" env:"CLIMB_HANG_CLEARANCE"`

	AlignPositionSpeed float32 `yaml:"align_position_speed" env:"CLIMB_ALIGN_POSITION_SPEED"`
	AlignRotationSpeed float32 `yaml:"align_rotation_speed" env:"CLIMB_ALIGN_ROTATION_SPEED"`
	AlignEpsilon       float32 `yaml:"align_epsilon" env:"CLIMB_ALIGN_EPSILON"`
	AlignAngleEpsilon  float32 `yaml:"align_angle_epsilon" env:"CLIMB_ALIGN_ANGLE_EPSILON"`

	ClimbSpeed  float32 `yaml:"climb_speed" env:"CLIMB_SPEED"`
	ShimmySpeed float32 `yaml:"shimmy_speed" env:"CLIMB_SHIMMY_SPEED"`

	VaultDuration float32 `yaml:"vault_duration" env:"CLIMB_VAULT_DURATION"`
	VaultForward  float32 `yaml:"vault_forward" env:"CLIMB_VAULT_FORWARD"`
	VaultArc      float32 `yaml:"vault_arc" env:"CLIMB_VAULT_ARC"`

	JumpForce float32 `yaml:"jump_force" env:"CLIMB_JUMP_FORCE"`

	AutoHangLookahead    float32 `yaml:"auto_hang_lookahead" env:"CLIMB_AUTO_HANG_LOOKAHEAD"`
	AutoHangBackDistance float32 `yaml:"auto_hang_back_distance" env:"CLIMB_AUTO_HANG_BACK_DISTANCE"`
	AutoHangMinDrop      float32 `yaml:"auto_hang_min_drop" env:"CLIMB_AUTO_HANG_MIN_DROP"`
	AutoHangDuration     float32 `yaml:"auto_hang_duration" env:"CLIMB_AUTO_HANG_DURATION"`

	// Falling is integrated by the engine with the locomotion gravity.
	Gravity      float32 `yaml:"gravity" env:"CLIMB_GRAVITY"`
	MaxFallSpeed float32 `yaml:"max_fall_speed" env:"CLIMB_MAX_FALL_SPEED"`

	RegrabCooldown float32 `yaml:"regrab_cooldown" env:"CLIMB_REGRAB_COOLDOWN"`

	OnlyGrabIfMovingForward bool `yaml:"only_grab_if_moving_forward" env:"CLIMB_ONLY_GRAB_IF_MOVING_FORWARD"`
	AutoClimb               bool `yaml:"auto_climb_in_third_person" env:"CLIMB_AUTO_CLIMB"`
	CanJumpWhenHanging      bool `yaml:"can_jump_when_hold_ledge" env:"CLIMB_CAN_JUMP_WHEN_HANGING"`
	AvoidInputWhileLimited  bool `yaml:"avoid_input_while_limited" env:"CLIMB_AVOID_INPUT_WHILE_LIMITED"`
	AutoHang                bool `yaml:"auto_hang" env:"CLIMB_AUTO_HANG"`

	Stamina StaminaConfig `yaml:"stamina" envPrefix:"STAMINA_"`
}

// StaminaConfig sizes the stamina ledger and its gates.
type StaminaConfig struct {
	Max       float32 `yaml:"max" env:"MAX"`
	DrainRate float32 `yaml:"drain_rate" env:"DRAIN_RATE"`
	RegenRate float32 `yaml:"regen_rate" env:"REGEN_RATE"`
	VaultCost float32 `yaml:"vault_cost" env:"VAULT_COST"`
	JumpCost  float32 `yaml:"jump_cost" env:"JUMP_COST"`
	// Fraction of Max required before grabbing again after depletion.
	RegrabThreshold float32 `yaml:"regrab_threshold" env:"REGRAB_THRESHOLD"`
	// Fraction of Max at or below which AvoidInputWhileLimited applies.
	LimitedThreshold float32 `yaml:"limited_threshold" env:"LIMITED_THRESHOLD"`
}

// DefaultConfig returns tuning for a human-sized actor (1.8m reach).
func DefaultConfig() Config {
	return Config{
		ForwardDistance: 1.0,
		DownDistance:    1.2,
		LayerMask:       raycast.LayerDefault | raycast.LayerClimbable,
		ChestHeight:     1.2,
		DownRayHeight:   2.4,
		ProbeEpsilon:    0.05,
		WallMaxNormalY:  0.3,
		TopMinNormalY:   0.7,
		ReachMin:        1.5,
		ReachMax:        2.2,

		FootProbeHeight:    0.3,
		VaultReach:         0.6,
		VaultDropTolerance: 0.5,

		HandOffset:    math.Vec3{X: 0, Y: 1.8, Z: 0.3},
		HangClearance: 0.1,

		AlignPositionSpeed: 12,
		AlignRotationSpeed: 10,
		AlignEpsilon:       0.02,
		AlignAngleEpsilon:  0.035,

		ClimbSpeed:  1.5,
		ShimmySpeed: 1.2,

		VaultDuration: 0.6,
		VaultForward:  0.4,
		VaultArc:      0.3,

		JumpForce: 8,

		AutoHangLookahead:    0.1,
		AutoHangBackDistance: 1.0,
		AutoHangMinDrop:      1.0,
		AutoHangDuration:     0.35,

		Gravity:      9.81,
		MaxFallSpeed: 30,

		RegrabCooldown: 0.3,

		OnlyGrabIfMovingForward: true,
		AutoClimb:               false,
		CanJumpWhenHanging:      true,
		AvoidInputWhileLimited:  false,
		AutoHang:                true,

		Stamina: StaminaConfig{
			Max:              100,
			DrainRate:        10,
			RegenRate:        20,
			VaultCost:        5,
			JumpCost:         10,
			RegrabThreshold:  0.1,
			LimitedThreshold: 0.2,
		},
	}
}

// Validate reports every invalid field at once. Values are never clamped.
func (c Config) Validate() error {
	var err error
	positive := func(name string, v float32) {
		if v <= 0 {
			err = multierr.Append(err, fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidConfig, name, v))
		}
	}
	nonNegative := func(name string, v float32) {
		if v < 0 {
			err = multierr.Append(err, fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidConfig, name, v))
		}
	}
	unit := func(name string, v float32) {
		if v < 0 || v > 1 {
			err = multierr.Append(err, fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidConfig, name, v))
		}
	}

	positive("forward_distance", c.ForwardDistance)
	positive("down_distance", c.DownDistance)
	positive("chest_height", c.ChestHeight)
	positive("down_ray_height", c.DownRayHeight)
	positive("probe_epsilon", c.ProbeEpsilon)
	unit("wall_max_normal_y", c.WallMaxNormalY)
	unit("top_min_normal_y", c.TopMinNormalY)
	nonNegative("reach_min", c.ReachMin)
	if c.ReachMax <= c.ReachMin {
		err = multierr.Append(err, fmt.Errorf("%w: reach_max (%v) must exceed reach_min (%v)", ErrInvalidConfig, c.ReachMax, c.ReachMin))
	}
	if c.LayerMask == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: layer_mask selects no layers", ErrInvalidConfig))
	}

	positive("foot_probe_height", c.FootProbeHeight)
	positive("vault_reach", c.VaultReach)
	nonNegative("vault_drop_tolerance", c.VaultDropTolerance)

	positive("hand_offset.y", c.HandOffset.Y)
	nonNegative("hand_offset.z", c.HandOffset.Z)
	nonNegative("hang_clearance", c.HangClearance)

	positive("align_position_speed", c.AlignPositionSpeed)
	positive("align_rotation_speed", c.AlignRotationSpeed)
	positive("align_epsilon", c.AlignEpsilon)
	positive("align_angle_epsilon", c.AlignAngleEpsilon)

	positive("climb_speed", c.ClimbSpeed)
	positive("shimmy_speed", c.ShimmySpeed)

	positive("vault_duration", c.VaultDuration)
	nonNegative("vault_forward", c.VaultForward)
	nonNegative("vault_arc", c.VaultArc)

	nonNegative("jump_force", c.JumpForce)

	nonNegative("auto_hang_lookahead", c.AutoHangLookahead)
	positive("auto_hang_back_distance", c.AutoHangBackDistance)
	nonNegative("auto_hang_min_drop", c.AutoHangMinDrop)
	positive("auto_hang_duration", c.AutoHangDuration)

	positive("gravity", c.Gravity)
	positive("max_fall_speed", c.MaxFallSpeed)
	nonNegative("regrab_cooldown", c.RegrabCooldown)

	positive("stamina.max", c.Stamina.Max)
	nonNegative("stamina.drain_rate", c.Stamina.DrainRate)
	nonNegative("stamina.regen_rate", c.Stamina.RegenRate)
	nonNegative("stamina.vault_cost", c.Stamina.VaultCost)
	nonNegative("stamina.jump_cost", c.Stamina.JumpCost)
	unit("stamina.regrab_threshold", c.Stamina.RegrabThreshold)
	unit("stamina.limited_threshold", c.Stamina.LimitedThreshold)

	return err
}
