package climb

import (
	"fmt"

	"github.com/Faultbox/midgard-climb/pkg/math"
)

// StaminaLedger is a bounded resource drained while attached and refilled
// while on the ground. current always stays within [0, max]. The ledger only
// reports depletion; the engine decides what to do about it.
type StaminaLedger struct {
	current   float32
	max       float32
	drainRate float32
	regenRate float32
}

// StaminaSnapshot is a read-only copy for UI and save systems.
type StaminaSnapshot struct {
	Current  float32
	Max      float32
	Fraction float32
	Depleted bool
}

// NewStaminaLedger creates a full ledger.
func NewStaminaLedger(max, drainRate, regenRate float32) (*StaminaLedger, error) {
	if max <= 0 {
		return nil, fmt.Errorf("%w: stamina max must be > 0, got %v", ErrInvalidConfig, max)
	}
	if drainRate < 0 || regenRate < 0 {
		return nil, fmt.Errorf("%w: stamina rates must be >= 0, got drain %v regen %v", ErrInvalidConfig, drainRate, regenRate)
	}
	return &StaminaLedger{
		current:   max,
		max:       max,
		drainRate: drainRate,
		regenRate: regenRate,
	}, nil
}

// Tick drains (engaged) or regenerates (disengaged) for dt seconds.
func (l *StaminaLedger) Tick(dt float32, engaged bool, surface SurfaceType) {
	if dt <= 0 {
		return
	}
	if engaged {
		l.current -= l.drainRate * surface.DrainMultiplier() * dt
	} else {
		l.current += l.regenRate * dt
	}
	l.current = math.Clamp(l.current, 0, l.max)
}

// DrainOnce applies a flat cost, e.g. for a vault or jump-off.
func (l *StaminaLedger) DrainOnce(amount float32) {
	if amount <= 0 {
		return
	}
	l.current = math.Clamp(l.current-amount, 0, l.max)
}

// Current returns the remaining stamina.
func (l *StaminaLedger) Current() float32 { return l.current }

// Max returns the capacity.
func (l *StaminaLedger) Max() float32 { return l.max }

// Fraction returns current/max.
func (l *StaminaLedger) Fraction() float32 { return l.current / l.max }

// IsDepleted reports current <= 0.
func (l *StaminaLedger) IsDepleted() bool { return l.current <= 0 }

// Snapshot copies the ledger state.
func (l *StaminaLedger) Snapshot() StaminaSnapshot {
	return StaminaSnapshot{
		Current:  l.current,
		Max:      l.max,
		Fraction: l.Fraction(),
		Depleted: l.IsDepleted(),
	}
}
