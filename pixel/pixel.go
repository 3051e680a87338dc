package pixel

// FontWeight selects glyph stroke weight. Palette devices map Bold to the
// bright half of the palette; Thin and Light shade one step darker.
type FontWeight uint8

const (
	WeightNormal FontWeight = iota
	WeightThin
	WeightLight
	WeightBold
)

// FontStyle selects the glyph slant. Oblique renders as italic.
type FontStyle uint8

const (
	StyleNormal FontStyle = iota
	StyleItalic
	StyleOblique
)

// Decoration is a bitmask of text decorations.
type Decoration uint8

const (
	DecorationNone          Decoration = 0
	DecorationUnderline     Decoration = 1 << 0
	DecorationStrikethrough Decoration = 1 << 1
)

// Pixel is the complete visual state of one terminal cell: glyph, colors,
// typography, and an optional caret marker. It is a plain value type —
// copy to pass, compare with ==.
//
// At most one pixel in a grid may carry a caret marker per render pass;
// renderers treat a second one as a fatal consistency error.
type Pixel struct {
	Glyph  Glyph
	Fg     Color
	Bg     Color
	Weight FontWeight
	Style  FontStyle
	Deco   Decoration
	Caret  CaretStyle
}

// Empty is the canonical blank cell, used to initialize grids and to seed
// render caches.
var Empty = Pixel{Glyph: SpaceGlyph, Fg: ColorWhite, Bg: ColorBlack}

// New returns a pixel for r with a runewidth-derived glyph width.
func New(r rune, fg, bg Color) Pixel {
	return Pixel{Glyph: NewGlyph(r), Fg: fg, Bg: bg}
}

// IsSpace reports a plain single-width space cell.
func (p Pixel) IsSpace() bool {
	return p.Glyph.Rune == ' ' && p.Glyph.Width == 1
}

// WithGlyph returns a copy with the glyph replaced.
func (p Pixel) WithGlyph(g Glyph) Pixel {
	p.Glyph = g
	return p
}

// WithCaret returns a copy carrying a caret marker.
func (p Pixel) WithCaret(s CaretStyle) Pixel {
	p.Caret = s
	return p
}
