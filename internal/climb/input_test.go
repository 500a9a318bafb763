package climb

import "testing"

func TestInputLatchPriority(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Direction
	}{
		{"nothing", Input{}, DirNone},
		{"up beats all", Input{Forward: true, Back: true, Left: true, Right: true}, DirUp},
		{"down beats lateral", Input{Back: true, Left: true}, DirDown},
		{"left", Input{Left: true}, DirLeft},
		{"right", Input{Right: true}, DirRight},
		{"fresh simultaneous lateral cancels", Input{Left: true, Right: true}, DirNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l InputLatch
			if got := l.Resolve(tt.in); got != tt.want {
				t.Errorf("Resolve(%+v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInputLatchMostRecentLateralWins(t *testing.T) {
	var l InputLatch

	if got := l.Resolve(Input{Left: true}); got != DirLeft {
		t.Fatalf("hold left = %v, want left", got)
	}
	// Right pressed while still holding left
	if got := l.Resolve(Input{Left: true, Right: true}); got != DirRight {
		t.Errorf("press right while holding left = %v, want right", got)
	}
	// Still both held: right stays most recent
	if got := l.Resolve(Input{Left: true, Right: true}); got != DirRight {
		t.Errorf("hold both = %v, want right", got)
	}
	// Release and re-press left while right held
	l.Resolve(Input{Right: true})
	if got := l.Resolve(Input{Left: true, Right: true}); got != DirLeft {
		t.Errorf("re-press left = %v, want left", got)
	}
}

func TestInputLatchReset(t *testing.T) {
	var l InputLatch
	l.Resolve(Input{Left: true})
	l.Reset()
	if got := l.Resolve(Input{Left: true, Right: true}); got != DirNone {
		t.Errorf("after Reset simultaneous press = %v, want none", got)
	}
}
