package grid

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/termpix/pixel"
)

// Cursor is the synthetic mouse-pointer overlay: a short glyph run anchored
// at a cell coordinate. The input owner mutates it on pointer movement; the
// renderer re-composes the affected cells without touching the grid.
type Cursor struct {
	X, Y  int
	Glyph string
}

// IsEmpty reports a cursor that draws nothing.
func (c Cursor) IsEmpty() bool {
	return c.Glyph == ""
}

// Width returns the total display cells covered by the glyph run.
func (c Cursor) Width() int {
	return runewidth.StringWidth(c.Glyph)
}

// CellAt returns the glyph covering the given cell offset within the run.
// Trailing cells of a wide pointer glyph yield the zero (continuation)
// glyph; zero-width runes attach to the preceding cell and are skipped.
func (c Cursor) CellAt(offset int) pixel.Glyph {
	pos := 0
	for _, r := range c.Glyph {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if offset < pos+w {
			if offset == pos {
				return pixel.Glyph{Rune: r, Width: w}
			}
			return pixel.Glyph{}
		}
		pos += w
	}
	return pixel.Glyph{}
}

// Equal reports cursor equality. Empty cursors match regardless of
// position.
func (c Cursor) Equal(other Cursor) bool {
	return c.Compare(other) == 0
}

// Compare orders cursors by row, column, then glyph text. All empty
// cursors compare equal and sort before non-empty ones.
func (c Cursor) Compare(other Cursor) int {
	switch {
	case c.IsEmpty() && other.IsEmpty():
		return 0
	case c.IsEmpty():
		return -1
	case other.IsEmpty():
		return 1
	}
	if c.Y != other.Y {
		if c.Y < other.Y {
			return -1
		}
		return 1
	}
	if c.X != other.X {
		if c.X < other.X {
			return -1
		}
		return 1
	}
	return strings.Compare(c.Glyph, other.Glyph)
}

// Bounds returns the cursor's span expanded by one column on each side —
// the rectangle a renderer re-composes when the pointer moves. The
// expansion covers wide glyphs straddling the span edges.
func (c Cursor) Bounds() Rect {
	if c.IsEmpty() {
		return Rect{}
	}
	return Rect{X: c.X - 1, Y: c.Y, W: c.Width() + 2, H: 1}
}
