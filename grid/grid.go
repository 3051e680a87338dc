package grid

import (
	"fmt"

	"github.com/lixenwraith/termpix/palette"
	"github.com/lixenwraith/termpix/pixel"
)

// Grid is the pixel surface: a width×height row-major array of pixels.
// The host surface owns it exclusively; renderers hold non-owning
// references and treat it as read-only during a render pass. That split is
// a documented contract with the layout layer, not a lock.
type Grid struct {
	width  int
	height int
	pixels []pixel.Pixel
}

// New allocates a grid with every cell set to pixel.Empty.
func New(width, height int) *Grid {
	g := &Grid{}
	g.Resize(width, height)
	return g
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// Size returns both dimensions.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// Index maps (x,y) to the linear cell index y*width+x.
func (g *Grid) Index(x, y int) int {
	return y*g.width + x
}

// InBounds reports whether (x,y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the stored pixel at (x,y). Out-of-range coordinates are a
// caller contract violation and panic.
func (g *Grid) Get(x, y int) pixel.Pixel {
	g.assertBounds(x, y)
	return g.pixels[y*g.width+x]
}

// Set stores p at (x,y). Out-of-range coordinates panic.
func (g *Grid) Set(x, y int, p pixel.Pixel) {
	g.assertBounds(x, y)
	g.pixels[y*g.width+x] = p
}

// GetIndex returns the pixel at linear index i.
func (g *Grid) GetIndex(i int) pixel.Pixel {
	return g.pixels[i]
}

// SetIndex stores p at linear index i.
func (g *Grid) SetIndex(i int, p pixel.Pixel) {
	g.pixels[i] = p
}

// Fill sets every cell to p.
func (g *Grid) Fill(p pixel.Pixel) {
	for i := range g.pixels {
		g.pixels[i] = p
	}
}

// Resize reallocates the surface for the new dimensions. Content is not
// preserved: every cell resets to pixel.Empty, matching the allocation
// invariant of New.
func (g *Grid) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g.width = width
	g.height = height
	g.pixels = make([]pixel.Pixel, width*height)
	for i := range g.pixels {
		g.pixels[i] = pixel.Empty
	}
}

// GetForRendering composes the stored pixel with the pointer overlay.
// Outside the cursor span it is Get. Inside, the pointer glyph replaces the
// stored glyph for rendering only — the grid itself never changes — and the
// foreground is chosen for visibility: over a plain space or a transparent
// foreground the contrast color of the background, otherwise the pixel's
// own foreground. Background, typography and caret marker pass through.
func (g *Grid) GetForRendering(x, y int, cur Cursor) pixel.Pixel {
	p := g.Get(x, y)
	if cur.IsEmpty() || y != cur.Y {
		return p
	}
	offset := x - cur.X
	if offset < 0 || offset >= cur.Width() {
		return p
	}

	out := p
	out.Glyph = cur.CellAt(offset)
	if p.IsSpace() || palette.ClassifyAlpha(p.Fg) == palette.TierTransparent {
		out.Fg = palette.ContrastingColor(p.Bg, palette.MinOverlayContrast)
	}
	return out
}

func (g *Grid) assertBounds(x, y int) {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("grid: cell (%d,%d) outside %dx%d surface", x, y, g.width, g.height))
	}
}
