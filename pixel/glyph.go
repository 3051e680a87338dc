package pixel

import "github.com/mattn/go-runewidth"

// Glyph is one codepoint plus the number of terminal columns it occupies.
// Width 0 is a continuation placeholder trailing a wide glyph and is never
// rendered standalone; width 1 is a normal cell; width 2+ is a wide glyph.
type Glyph struct {
	Rune  rune
	Width int
}

// SpaceGlyph is the canonical blank glyph.
var SpaceGlyph = Glyph{Rune: ' ', Width: 1}

// NewGlyph builds a glyph with its display width derived from the rune.
func NewGlyph(r rune) Glyph {
	return Glyph{Rune: r, Width: runewidth.RuneWidth(r)}
}

// IsZero reports an absent glyph (the continuation placeholder).
func (g Glyph) IsZero() bool {
	return g.Rune == 0 && g.Width == 0
}
