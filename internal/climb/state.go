package climb

// ClimbState is the traversal state of one actor. Exactly one is active.
type ClimbState uint8

const (
	None ClimbState = iota
	Approaching
	Hanging
	ClimbingUp
	ClimbingDown
	ClimbingLeft
	ClimbingRight
	Vaulting
	Falling
)

var stateNames = [...]string{
	None:          "None",
	Approaching:   "Approaching",
	Hanging:       "Hanging",
	ClimbingUp:    "ClimbingUp",
	ClimbingDown:  "ClimbingDown",
	ClimbingLeft:  "ClimbingLeft",
	ClimbingRight: "ClimbingRight",
	Vaulting:      "Vaulting",
	Falling:       "Falling",
}

func (s ClimbState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// OwnsTransform reports whether the traversal engine, not base physics,
// writes the actor transform in this state.
func (s ClimbState) OwnsTransform() bool {
	return s != None
}

// Attached reports whether the actor is holding on to a wall.
func (s ClimbState) Attached() bool {
	switch s {
	case Hanging, ClimbingUp, ClimbingDown, ClimbingLeft, ClimbingRight:
		return true
	}
	return false
}

// engaged states drain stamina every tick.
func (s ClimbState) engaged() bool {
	return s == Approaching || s.Attached()
}

// Tracker is the per-actor state record. Only the engine mutates it.
type Tracker struct {
	current  ClimbState
	previous ClimbState
	timer    float32
	depleted bool
}

// TrackerSnapshot is a read-only copy of a Tracker.
type TrackerSnapshot struct {
	Current         ClimbState
	Previous        ClimbState
	StateTimer      float32
	StaminaDepleted bool
}

// Current returns the active state.
func (t *Tracker) Current() ClimbState { return t.current }

// Previous returns the state before the last transition.
func (t *Tracker) Previous() ClimbState { return t.previous }

// Timer returns seconds since entering the current state.
func (t *Tracker) Timer() float32 { return t.timer }

// StaminaDepleted mirrors the ledger's depletion flag as of the last tick.
func (t *Tracker) StaminaDepleted() bool { return t.depleted }

// Snapshot copies the tracker.
func (t *Tracker) Snapshot() TrackerSnapshot {
	return TrackerSnapshot{
		Current:         t.current,
		Previous:        t.previous,
		StateTimer:      t.timer,
		StaminaDepleted: t.depleted,
	}
}

// transition switches state and resets the timer. Re-entering the current
// state is not a transition.
func (t *Tracker) transition(to ClimbState) bool {
	if to == t.current {
		return false
	}
	t.previous = t.current
	t.current = to
	t.timer = 0
	return true
}

func (t *Tracker) advance(dt float32) {
	t.timer += dt
}
