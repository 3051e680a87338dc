package pixel

import "testing"

func TestNewGlyphWidths(t *testing.T) {
	tests := []struct {
		name  string
		r     rune
		width int
	}{
		{"ASCII letter", 'A', 1},
		{"space", ' ', 1},
		{"CJK wide", '世', 2},
		{"wide ideograph", '界', 2},
		{"combining accent", '́', 0},
		{"zero width space", '​', 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGlyph(tt.r)
			if g.Width != tt.width {
				t.Errorf("Expected width %d for %q, got %d", tt.width, tt.r, g.Width)
			}
			if g.Rune != tt.r {
				t.Errorf("Expected rune %q preserved, got %q", tt.r, g.Rune)
			}
		})
	}
}

func TestGlyphIsZero(t *testing.T) {
	if !(Glyph{}).IsZero() {
		t.Error("Expected zero glyph to report IsZero")
	}
	if SpaceGlyph.IsZero() {
		t.Error("Expected space glyph to not report IsZero")
	}
	if NewGlyph('́').IsZero() {
		t.Error("Expected combining glyph to keep its rune, not report IsZero")
	}
}

func TestPixelIsSpace(t *testing.T) {
	tests := []struct {
		name  string
		p     Pixel
		space bool
	}{
		{"empty pixel", Empty, true},
		{"colored space", New(' ', ColorWhite, NewColor(10, 20, 30)), true},
		{"letter", New('A', ColorWhite, ColorBlack), false},
		{"ideographic space is wide", New('　', ColorWhite, ColorBlack), false},
		{"continuation", Pixel{Bg: ColorBlack}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsSpace(); got != tt.space {
				t.Errorf("Expected IsSpace=%v, got %v", tt.space, got)
			}
		})
	}
}

func TestColorInvert(t *testing.T) {
	tests := []struct {
		name string
		in   Color
		want Color
	}{
		{"black to white", ColorBlack, ColorWhite},
		{"white to black", ColorWhite, ColorBlack},
		{"mid tones", NewColor(30, 60, 90), NewColor(225, 195, 165)},
		{"alpha preserved", NewColorAlpha(0, 0, 0, 100), NewColorAlpha(255, 255, 255, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Invert(); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPixelValueSemantics(t *testing.T) {
	p := New('A', ColorWhite, ColorBlack)

	q := p.WithCaret(CaretSteadyBlock)
	if p.Caret != CaretNone {
		t.Error("Expected WithCaret to leave the original pixel untouched")
	}
	if q.Caret != CaretSteadyBlock {
		t.Errorf("Expected caret %v, got %v", CaretSteadyBlock, q.Caret)
	}

	r := p.WithGlyph(SpaceGlyph)
	if p.Glyph.Rune != 'A' {
		t.Error("Expected WithGlyph to leave the original pixel untouched")
	}
	if !r.IsSpace() {
		t.Error("Expected glyph replacement to produce a space pixel")
	}
	if r.Fg != p.Fg || r.Bg != p.Bg {
		t.Error("Expected colors to survive glyph replacement")
	}
}

func TestEmptyIsCanonical(t *testing.T) {
	if !Empty.IsSpace() {
		t.Error("Expected Empty to be a space cell")
	}
	if Empty.Caret != CaretNone {
		t.Error("Expected Empty to carry no caret")
	}
	if Empty.Weight != WeightNormal || Empty.Style != StyleNormal || Empty.Deco != DecorationNone {
		t.Error("Expected Empty to carry default typography")
	}
}
