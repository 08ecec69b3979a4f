package components

import (
	"math"
	"testing"
	"time"
)

func TestCountdownEncoding(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want CountdownState
	}{
		{"Zero", 0, CountdownState{}},
		{"Negative", -time.Second, CountdownState{}},
		{"Sub-hundredth truncates", 9 * time.Millisecond, CountdownState{}},
		{"Mixed", 3*time.Minute + 20*time.Second + 870*time.Millisecond, CountdownState{Minutes: 3, Seconds: 20, Hundredths: 87}},
		{"Minutes beyond an hour", 75 * time.Minute, CountdownState{Minutes: 75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCountdown(tt.in)
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if got.Duration() > tt.in && tt.in > 0 {
				t.Errorf("Decoded %v exceeds input %v", got.Duration(), tt.in)
			}
		})
	}
}

func TestCountdownStepBorrows(t *testing.T) {
	tests := []struct {
		name string
		from CountdownState
		n    uint64
		want CountdownState
	}{
		{"Within hundredths", CountdownState{Seconds: 5, Hundredths: 50}, 1, CountdownState{Seconds: 5, Hundredths: 49}},
		{"Borrow second", CountdownState{Seconds: 5}, 1, CountdownState{Seconds: 4, Hundredths: 99}},
		{"Borrow minute", CountdownState{Minutes: 2}, 1, CountdownState{Minutes: 1, Seconds: 59, Hundredths: 99}},
		{"Multi-step", CountdownState{Minutes: 1, Seconds: 0, Hundredths: 5}, 10, CountdownState{Seconds: 59, Hundredths: 95}},
		{"Clamp at zero", CountdownState{Hundredths: 3}, 10, CountdownState{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Step(tt.n); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCountdownPredicates(t *testing.T) {
	if !(CountdownState{}).IsZero() || !(CountdownState{}).AtSecondBoundary() {
		t.Error("Zero state should be terminal and at a boundary")
	}
	if !(CountdownState{Minutes: 3}).AtSecondBoundary() {
		t.Error("Whole minute should be at a second boundary")
	}
	if (CountdownState{Seconds: 10}).AtSecondBoundary() {
		t.Error("Only Seconds == 0 counts as a boundary")
	}
	if got := (CountdownState{Minutes: 3, Seconds: 7, Hundredths: 5}).String(); got != "03:07.05" {
		t.Errorf("Unexpected format %q", got)
	}
}

func TestStockLevel(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want StockLevel
	}{
		{"Below floor", -4, 1},
		{"Floor", 1, 1},
		{"Mid", 42, 42},
		{"Above max", 500, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampStock(tt.in); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}

	if got := StockLevel(3).Deduct(5); got != 1 {
		t.Errorf("Deduct should stop at the floor, got %d", got)
	}
	if got := StockLevel(10).Deduct(-2); got != 10 {
		t.Errorf("Negative deduction should be ignored, got %d", got)
	}
	if got := StockLevel(80).ScarcityFactor(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("Expected factor 0.2, got %v", got)
	}
	if !StockLevel(1).IsLastOne() || StockLevel(2).IsLastOne() {
		t.Error("Only the floor is the last one")
	}
}

func TestMaxQuantity(t *testing.T) {
	tests := []struct {
		stock StockLevel
		want  int
	}{
		{100, 10},
		{10, 10},
		{7, 7},
		{1, 1},
	}
	for _, tt := range tests {
		if got := MaxQuantity(tt.stock); got != tt.want {
			t.Errorf("MaxQuantity(%d) = %d, want %d", tt.stock, got, tt.want)
		}
	}
}

func TestCents(t *testing.T) {
	tests := []struct {
		name  string
		units float64
		want  Cents
		str   string
	}{
		{"Round down", 0.644, 64, "$0.64"},
		{"Round half up", 1.005000001, 101, "$1.01"},
		{"Whole", 129.99, 12999, "$129.99"},
		{"Negative", -0.25, -25, "-$0.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CentsFromUnits(tt.units)
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
			if got.String() != tt.str {
				t.Errorf("Expected %q, got %q", tt.str, got.String())
			}
		})
	}

	p := PriceState{Base: 12999, CumulativeIncrement: 64}
	if p.Effective() != 13063 {
		t.Errorf("Expected effective 13063, got %d", p.Effective())
	}
}

func TestSocialProofState(t *testing.T) {
	s := SocialProofState{Index: 0, Message: "x", Direction: DirectionLeft}
	if !s.Transitioning() {
		t.Error("A direction means a transition is in flight")
	}
	s.Direction = DirectionNone
	if s.Transitioning() {
		t.Error("No direction means settled")
	}
	for _, d := range TransitionDirections {
		if d == DirectionNone {
			t.Error("DirectionNone must not be a transition direction")
		}
		if d.String() == "" {
			t.Errorf("Direction %d has no name", d)
		}
	}
}

func TestEffectRecordMotion(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := EffectRecord{
		Origin:    Position{X: 10, Y: 10},
		Params:    EffectParams{Velocity: Position{X: 4, Y: -2}, Gravity: 2},
		TTL:       2 * time.Second,
		SpawnedAt: start,
		ExpiresAt: start.Add(2 * time.Second),
	}

	at := r.PositionAt(start.Add(time.Second))
	if at.X != 14 || at.Y != 9 {
		t.Errorf("Expected (14,9) after 1s, got %+v", at)
	}
	if got := r.Progress(start.Add(500 * time.Millisecond)); got != 0.25 {
		t.Errorf("Expected progress 0.25, got %v", got)
	}
	if got := r.Age(start.Add(time.Hour)); got != r.TTL {
		t.Errorf("Age should clamp at TTL, got %v", got)
	}
	if got := r.Age(start.Add(-time.Second)); got != 0 {
		t.Errorf("Age should clamp at zero, got %v", got)
	}
	if (EffectRecord{}).Progress(start) != 1 {
		t.Error("Zero TTL record is fully aged")
	}
}

func TestEffectKindNames(t *testing.T) {
	for k := EffectKind(0); k < EffectKindCount; k++ {
		if k.String() == "" || k.String() == "unknown" {
			t.Errorf("Kind %d has no name", k)
		}
	}
}
