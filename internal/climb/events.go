package climb

import (
	"github.com/Faultbox/midgard-climb/pkg/math"
)

// EventKind identifies a one-shot gameplay event for audio and VFX.
type EventKind uint8

const (
	LedgeGrabbed EventKind = iota + 1
	LedgeReleased
	VaultStarted
	VaultCompleted
	StaminaDepleted
)

func (k EventKind) String() string {
	switch k {
	case LedgeGrabbed:
		return "LedgeGrabbed"
	case LedgeReleased:
		return "LedgeReleased"
	case VaultStarted:
		return "VaultStarted"
	case VaultCompleted:
		return "VaultCompleted"
	case StaminaDepleted:
		return "StaminaDepleted"
	}
	return "Unknown"
}

// Event is emitted at most once per occurrence.
type Event struct {
	Kind     EventKind
	Surface  SurfaceType
	Position math.Vec3
	State    ClimbState // state after the tick that produced the event
}

// EventSink receives events as they are produced.
type EventSink interface {
	OnClimbEvent(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// OnClimbEvent calls f(e).
func (f EventSinkFunc) OnClimbEvent(e Event) { f(e) }

// TargetMatch asks the animation layer to pin a body part to a world
// position during a window of the clip's normalized time.
type TargetMatch struct {
	NormalizedTimeRange [2]float32
	TargetPosition      math.Vec3
	AxisMask            math.Vec3 // 1 = match this axis
}

// Frame is the per-tick output for the animation layer and the caller.
type Frame struct {
	State        ClimbState
	Previous     ClimbState
	StateTimer   float32
	Transitioned bool
	Direction    Direction
	Surface      SurfaceType
	// TargetMatch is set while hanging, climbing up or vaulting.
	TargetMatch *TargetMatch
	// Events is only valid until the next Tick.
	Events  []Event
	Stamina StaminaSnapshot
}
