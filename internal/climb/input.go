package climb

// Input is the raw per-tick input consumed from the locomotion layer.
// Forward doubles as "up" and Back as "down" while attached.
type Input struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool
	Drop    bool
}

// Direction is the resolved climbing direction for a tick.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// InputLatch resolves simultaneous directional input. Priority is
// Up > Down > Left/Right; between Left and Right the key pressed most
// recently wins. When both are pressed on the same tick with no earlier
// lateral press, neither wins.
type InputLatch struct {
	prev        Input
	lastLateral Direction
}

// Resolve records press edges and returns the winning direction.
func (l *InputLatch) Resolve(in Input) Direction {
	leftEdge := in.Left && !l.prev.Left
	rightEdge := in.Right && !l.prev.Right
	switch {
	case leftEdge && !rightEdge:
		l.lastLateral = DirLeft
	case rightEdge && !leftEdge:
		l.lastLateral = DirRight
	}
	l.prev = in

	switch {
	case in.Forward:
		return DirUp
	case in.Back:
		return DirDown
	case in.Left && in.Right:
		return l.lastLateral
	case in.Left:
		return DirLeft
	case in.Right:
		return DirRight
	}
	return DirNone
}

// Reset forgets press history.
func (l *InputLatch) Reset() {
	*l = InputLatch{}
}
