package grid

import "testing"

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"zero value", Rect{}, true},
		{"zero width", Rect{X: 1, Y: 1, W: 0, H: 3}, true},
		{"zero height", Rect{X: 1, Y: 1, W: 3, H: 0}, true},
		{"negative extent", Rect{W: -2, H: 4}, true},
		{"single cell", Rect{X: 5, Y: 5, W: 1, H: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Empty(); got != tt.want {
				t.Errorf("Expected Empty() = %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 1, W: 3, H: 2}

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"interior", 3, 1, true},
		{"origin inclusive", 2, 1, true},
		{"far corner inclusive", 4, 2, true},
		{"right edge exclusive", 5, 1, false},
		{"bottom edge exclusive", 2, 3, false},
		{"left of rect", 1, 1, false},
		{"above rect", 3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Expected Contains(%d,%d) = %v, got %v", tt.x, tt.y, tt.want, got)
			}
		})
	}
}

func TestRectContainsRect(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 5}

	tests := []struct {
		name string
		o    Rect
		want bool
	}{
		{"proper subset", Rect{X: 2, Y: 1, W: 3, H: 2}, true},
		{"identical", Rect{X: 0, Y: 0, W: 10, H: 5}, true},
		{"hangs off right", Rect{X: 8, Y: 0, W: 4, H: 2}, false},
		{"hangs off bottom", Rect{X: 0, Y: 4, W: 2, H: 3}, false},
		{"disjoint", Rect{X: 20, Y: 20, W: 2, H: 2}, false},
		{"empty is contained", Rect{X: 50, Y: 50}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ContainsRect(tt.o); got != tt.want {
				t.Errorf("Expected ContainsRect(%+v) = %v, got %v", tt.o, tt.want, got)
			}
		})
	}

	if (Rect{}).ContainsRect(Rect{X: 0, Y: 0, W: 1, H: 1}) {
		t.Error("Expected empty rect to contain nothing")
	}
}

func TestRectIntersects(t *testing.T) {
	r := Rect{X: 2, Y: 2, W: 4, H: 3}

	tests := []struct {
		name string
		o    Rect
		want bool
	}{
		{"overlapping corner", Rect{X: 4, Y: 3, W: 4, H: 4}, true},
		{"identical", Rect{X: 2, Y: 2, W: 4, H: 3}, true},
		{"contained", Rect{X: 3, Y: 3, W: 1, H: 1}, true},
		{"adjacent right shares nothing", Rect{X: 6, Y: 2, W: 2, H: 3}, false},
		{"adjacent below shares nothing", Rect{X: 2, Y: 5, W: 4, H: 1}, false},
		{"disjoint", Rect{X: 10, Y: 10, W: 2, H: 2}, false},
		{"empty never intersects", Rect{X: 3, Y: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.o); got != tt.want {
				t.Errorf("Expected Intersects(%+v) = %v, got %v", tt.o, tt.want, got)
			}
			// Intersection is symmetric.
			if got := tt.o.Intersects(r); got != tt.want {
				t.Errorf("Expected symmetric Intersects(%+v) = %v, got %v", r, tt.want, got)
			}
		})
	}
}

func TestRectUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{
			"disjoint bounding box",
			Rect{X: 0, Y: 0, W: 2, H: 2},
			Rect{X: 4, Y: 3, W: 2, H: 1},
			Rect{X: 0, Y: 0, W: 6, H: 4},
		},
		{
			"overlapping",
			Rect{X: 1, Y: 1, W: 3, H: 3},
			Rect{X: 2, Y: 2, W: 3, H: 3},
			Rect{X: 1, Y: 1, W: 4, H: 4},
		},
		{
			"contained collapses to outer",
			Rect{X: 0, Y: 0, W: 8, H: 4},
			Rect{X: 2, Y: 1, W: 2, H: 2},
			Rect{X: 0, Y: 0, W: 8, H: 4},
		},
		{
			"empty left operand",
			Rect{},
			Rect{X: 3, Y: 3, W: 2, H: 2},
			Rect{X: 3, Y: 3, W: 2, H: 2},
		},
		{
			"empty right operand",
			Rect{X: 3, Y: 3, W: 2, H: 2},
			Rect{X: 9, Y: 9, W: 0, H: 5},
			Rect{X: 3, Y: 3, W: 2, H: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Expected Union = %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestRectSetMembership(t *testing.T) {
	s := RectSet{
		{X: 0, Y: 0, W: 2, H: 1},
		{X: 5, Y: 2, W: 1, H: 1},
	}

	if !s.Contains(1, 0) {
		t.Error("Expected (1,0) inside the first rect")
	}
	if !s.Contains(5, 2) {
		t.Error("Expected (5,2) inside the second rect")
	}
	if s.Contains(3, 0) {
		t.Error("Expected (3,0) outside every rect")
	}
	if s.Empty() {
		t.Error("Expected a two-rect set to be non-empty")
	}
	if !(RectSet{}).Empty() {
		t.Error("Expected the empty set to report Empty")
	}
	if (RectSet{}).Contains(0, 0) {
		t.Error("Expected the empty set to contain nothing")
	}
}
