package climb

import (
	"errors"
	"testing"
)

func newLedger(t *testing.T, max, drain, regen float32) *StaminaLedger {
	t.Helper()
	l, err := NewStaminaLedger(max, drain, regen)
	if err != nil {
		t.Fatalf("NewStaminaLedger() error = %v", err)
	}
	return l
}

func TestStaminaIceDrain(t *testing.T) {
	l := newLedger(t, 100, 10, 5)
	l.Tick(4, true, Ice)
	if got := l.Current(); got != 40 {
		t.Errorf("current after 4s on ice = %v, want 40", got)
	}
}

func TestStaminaIceDrainFixedStep(t *testing.T) {
	l := newLedger(t, 100, 10, 5)
	for i := 0; i < 240; i++ {
		l.Tick(1.0/60, true, Ice)
	}
	if got := l.Current(); got < 39.99 || got > 40.01 {
		t.Errorf("current after 240 ticks on ice = %v, want ~40", got)
	}
}

func TestStaminaClamps(t *testing.T) {
	l := newLedger(t, 50, 10, 10)

	l.Tick(100, true, DefaultSurface)
	if l.Current() != 0 {
		t.Errorf("current = %v, want 0 after overdrain", l.Current())
	}
	if !l.IsDepleted() {
		t.Error("expected depleted")
	}

	l.Tick(100, false, DefaultSurface)
	if l.Current() != 50 {
		t.Errorf("current = %v, want max after overregen", l.Current())
	}
	if l.IsDepleted() {
		t.Error("expected not depleted")
	}
}

func TestStaminaRegenIgnoresSurface(t *testing.T) {
	l := newLedger(t, 100, 10, 20)
	l.DrainOnce(60)
	l.Tick(1, false, Ice)
	if got := l.Current(); got != 60 {
		t.Errorf("current = %v, want 60", got)
	}
}

func TestStaminaDrainOnce(t *testing.T) {
	l := newLedger(t, 100, 0, 0)
	l.DrainOnce(30)
	l.DrainOnce(-5)
	if got := l.Current(); got != 70 {
		t.Errorf("current = %v, want 70", got)
	}
	l.DrainOnce(1000)
	if got := l.Current(); got != 0 {
		t.Errorf("current = %v, want 0", got)
	}
}

func TestStaminaSnapshot(t *testing.T) {
	l := newLedger(t, 80, 10, 10)
	l.DrainOnce(20)
	s := l.Snapshot()
	if s.Current != 60 || s.Max != 80 || s.Fraction != 0.75 || s.Depleted {
		t.Errorf("Snapshot() = %+v", s)
	}
}

func TestNewStaminaLedgerRejectsInvalid(t *testing.T) {
	tests := []struct {
		name              string
		max, drain, regen float32
	}{
		{"zero max", 0, 1, 1},
		{"negative max", -10, 1, 1},
		{"negative drain", 10, -1, 1},
		{"negative regen", 10, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStaminaLedger(tt.max, tt.drain, tt.regen)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
