package palette

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lixenwraith/termpix/pixel"
)

// ErrTransparentBackground is returned by MapColors when the background is
// still transparent at mapping time. Transparency must be resolved through
// Blend before a pixel reaches a palette device; hitting this during a
// render pass is an upstream contract breach.
var ErrTransparentBackground = errors.New("transparent background is unsupported by palette mapping")

// Quantizer maps 32-bit colors onto the device palette. Construct one per
// renderer and pass it in; it carries lazily-filled memoization caches keyed
// by exact color value, which are never cleared (mapping is pure and the key
// domain stays small in practice).
type Quantizer struct {
	mu sync.RWMutex
	fg map[pixel.Color]PaletteColor
	bg map[pixel.Color]PaletteColor
}

// NewQuantizer returns a Quantizer with empty caches.
func NewQuantizer() *Quantizer {
	return &Quantizer{
		fg: make(map[pixel.Color]PaletteColor),
		bg: make(map[pixel.Color]PaletteColor),
	}
}

// Nearest returns the full-palette entry closest to c by squared RGB
// distance, ties broken by declaration order.
func (q *Quantizer) Nearest(c pixel.Color) PaletteColor {
	return q.lookup(c, Colors[:], q.fg)
}

// NearestBackground restricts the search to the 8-entry background subset.
func (q *Quantizer) NearestBackground(c pixel.Color) PaletteColor {
	return q.lookup(c, BackgroundColors, q.bg)
}

func (q *Quantizer) lookup(c pixel.Color, table []pixel.Color, cache map[pixel.Color]PaletteColor) PaletteColor {
	q.mu.RLock()
	idx, ok := cache[c]
	q.mu.RUnlock()
	if ok {
		return idx
	}

	idx = nearest(c, table)

	q.mu.Lock()
	cache[c] = idx
	q.mu.Unlock()
	return idx
}

// nearest scans table for the minimal squared RGB distance; strict
// comparison keeps the first entry on ties.
func nearest(c pixel.Color, table []pixel.Color) PaletteColor {
	best := 0
	bestDist := distSq(c, table[0])
	for i := 1; i < len(table); i++ {
		if d := distSq(c, table[i]); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return PaletteColor(best)
}

func distSq(a, b pixel.Color) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// MapColors resolves a pixel's background and foreground to device palette
// indices. Backgrounds draw from the 8-entry subset, foregrounds from the
// full table. Alpha tiers decide the path: Colored maps to the nearest
// entry, Shaded maps then darkens one shade step, Transparent backgrounds
// are an error and transparent foregrounds fall back to the contrast color
// of the resolved background. Weight applies last to the foreground: Bold
// brightens, Thin/Light shade.
func (q *Quantizer) MapColors(bg, fg pixel.Color, weight pixel.FontWeight) (PaletteColor, PaletteColor, error) {
	var devBg PaletteColor
	switch ClassifyAlpha(bg) {
	case TierTransparent:
		return 0, 0, fmt.Errorf("background rgba(%d,%d,%d,%d): %w", bg.R, bg.G, bg.B, bg.A, ErrTransparentBackground)
	case TierShaded:
		devBg = shadeBackground(q.NearestBackground(bg))
	default:
		devBg = q.NearestBackground(bg)
	}

	var devFg PaletteColor
	switch ClassifyAlpha(fg) {
	case TierTransparent:
		devFg = q.Nearest(ContrastingColor(devBg.RGB(), MinOverlayContrast))
	case TierShaded:
		devFg = q.Nearest(fg).Shade()
	default:
		devFg = q.Nearest(fg)
	}

	switch weight {
	case pixel.WeightBold:
		devFg = devFg.Bright()
	case pixel.WeightThin, pixel.WeightLight:
		devFg = devFg.Shade()
	}

	return devBg, devFg, nil
}

// Blend composites over onto under using the shade tiers instead of
// arithmetic alpha blending (the devices have no alpha channel). The result
// is always an opaque palette color value.
//
// A shaded overlay darkens what is beneath it: one shade step normally, two
// for foregrounds whose underlay was itself already shaded (double-shade).
// Backgrounds never take the second step; that asymmetry is what keeps
// stacked translucency from collapsing every background to black.
func (q *Quantizer) Blend(under, over pixel.Color, isForeground bool) pixel.Color {
	switch ClassifyAlpha(over) {
	case TierTransparent:
		return under
	case TierColored:
		if isForeground {
			return q.Nearest(over).RGB()
		}
		return q.NearestBackground(over).RGB()
	}

	// Shaded overlay
	if isForeground {
		idx := q.Nearest(under).Shade()
		if ClassifyAlpha(under) == TierShaded {
			idx = idx.Shade()
		}
		return idx.RGB()
	}
	return shadeBackground(q.NearestBackground(under)).RGB()
}

// shadeBackground applies one shade step within the background subset.
// A non-black background never lands on black: when the table's step is
// unrepresentable in the subset or would black out the cell, the darkest
// representable non-black entry substitutes.
func shadeBackground(c PaletteColor) PaletteColor {
	s := c.Shade()
	if c != Black && (s >= DarkGray || s == Black) {
		return Blue
	}
	return s
}
