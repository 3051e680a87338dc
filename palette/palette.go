package palette

import "github.com/lixenwraith/termpix/pixel"

// PaletteColor indexes the fixed device palette, VGA-compatible ordering:
// the dark half first, then the bright variants.
type PaletteColor uint8

const (
	Black PaletteColor = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	BrightBlue
	BrightGreen
	BrightCyan
	BrightRed
	BrightMagenta
	Yellow
	White
)

// Colors is the full 16-entry device palette, immutable for the process
// lifetime.
var Colors = [16]pixel.Color{
	Black:         pixel.NewColor(0, 0, 0),
	Blue:          pixel.NewColor(0, 0, 170),
	Green:         pixel.NewColor(0, 170, 0),
	Cyan:          pixel.NewColor(0, 170, 170),
	Red:           pixel.NewColor(170, 0, 0),
	Magenta:       pixel.NewColor(170, 0, 170),
	Brown:         pixel.NewColor(170, 85, 0),
	LightGray:     pixel.NewColor(170, 170, 170),
	DarkGray:      pixel.NewColor(85, 85, 85),
	BrightBlue:    pixel.NewColor(85, 85, 255),
	BrightGreen:   pixel.NewColor(85, 255, 85),
	BrightCyan:    pixel.NewColor(85, 255, 255),
	BrightRed:     pixel.NewColor(255, 85, 85),
	BrightMagenta: pixel.NewColor(255, 85, 255),
	Yellow:        pixel.NewColor(255, 255, 85),
	White:         pixel.NewColor(255, 255, 255),
}

// BackgroundColors is the 8-entry subset available to backgrounds on
// palette devices (no bright variants).
var BackgroundColors = Colors[0:8]

// shadeTable maps each entry one step darker: the white ramp descends
// through the grays, bright hues drop to their dark variants, dark hues
// sink toward blue or black.
var shadeTable = [16]PaletteColor{
	Black:         Black,
	Blue:          Black,
	Green:         Black,
	Cyan:          Blue,
	Red:           Black,
	Magenta:       Blue,
	Brown:         Red,
	LightGray:     DarkGray,
	DarkGray:      Black,
	BrightBlue:    Blue,
	BrightGreen:   Green,
	BrightCyan:    Cyan,
	BrightRed:     Red,
	BrightMagenta: Magenta,
	Yellow:        Brown,
	White:         LightGray,
}

var colorNames = [16]string{
	"black", "blue", "green", "cyan", "red", "magenta", "brown", "lightgray",
	"darkgray", "brightblue", "brightgreen", "brightcyan", "brightred",
	"brightmagenta", "yellow", "white",
}

// RGB returns the palette entry's color value.
func (c PaletteColor) RGB() pixel.Color {
	return Colors[c&15]
}

// Shade returns the entry one step darker.
func (c PaletteColor) Shade() PaletteColor {
	return shadeTable[c&15]
}

// Bright returns the bright variant of the entry.
func (c PaletteColor) Bright() PaletteColor {
	return (c & 15) | 8
}

func (c PaletteColor) String() string {
	return colorNames[c&15]
}

// Tier classifies a color's alpha band.
type Tier uint8

const (
	TierTransparent Tier = iota // alpha 0-63
	TierShaded                  // alpha 64-191
	TierColored                 // alpha 192-255
)

// ClassifyAlpha returns the alpha tier of c.
func ClassifyAlpha(c pixel.Color) Tier {
	switch {
	case c.A <= 63:
		return TierTransparent
	case c.A <= 191:
		return TierShaded
	default:
		return TierColored
	}
}
