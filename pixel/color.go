package pixel

// Color is a 32-bit RGBA color. Alpha never reaches a device directly; it
// only drives the quantizer's transparency/shading tiers.
type Color struct {
	R, G, B, A uint8
}

// Canonical colors.
var (
	ColorTransparent = Color{}
	ColorBlack       = Color{0, 0, 0, 255}
	ColorWhite       = Color{255, 255, 255, 255}
)

// NewColor returns an opaque color.
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// NewColorAlpha returns a color with explicit alpha.
func NewColorAlpha(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Equal reports whether two colors match exactly, alpha included.
func (c Color) Equal(other Color) bool {
	return c == other
}

// Invert returns the channel-wise RGB inversion, alpha preserved.
func (c Color) Invert() Color {
	return Color{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: c.A}
}
