package physics

import "testing"

func TestOverlaps(t *testing.T) {
	player := Rect{X: 100, Y: 260, W: 32, H: 24}

	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inside", Rect{X: 110, Y: 262, W: 16, H: 16}, true},
		{"partial left", Rect{X: 90, Y: 250, W: 16, H: 16}, true},
		{"touching right edge", Rect{X: 132, Y: 260, W: 16, H: 16}, false},
		{"touching top edge", Rect{X: 110, Y: 244, W: 16, H: 16}, false},
		{"just past top edge", Rect{X: 110, Y: 244.5, W: 16, H: 16}, true},
		{"far away", Rect{X: 0, Y: 0, W: 16, H: 16}, false},
		{"below", Rect{X: 110, Y: 300, W: 16, H: 16}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(player, tt.r); got != tt.want {
				t.Errorf("Overlaps(player, %+v) = %v, want %v", tt.r, got, tt.want)
			}
			if got := Overlaps(tt.r, player); got != tt.want {
				t.Errorf("Overlaps(%+v, player) = %v, want %v (not symmetric)", tt.r, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{12, 0, 10, 10},
		{10, 0, 10, 10},
		{4, 6, 2, 6},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%g, %g, %g) = %g, want %g", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
