package palette

import (
	"math"

	"github.com/lixenwraith/termpix/pixel"
)

// MinOverlayContrast is the ratio guaranteed for cursor and caret overlay
// colors: the WCAG AA minimum for non-text elements.
const MinOverlayContrast = 3.0

// RelativeLuminance returns the WCAG relative luminance of c. Alpha is
// ignored; luminance is a property of the RGB channels alone.
func RelativeLuminance(c pixel.Color) float64 {
	r := linearize(float64(c.R) / 255.0)
	g := linearize(float64(c.G) / 255.0)
	b := linearize(float64(c.B) / 255.0)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// linearize converts one sRGB channel to linear light.
func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG contrast ratio between a and b. The result
// is symmetric and lies in [1, 21].
func ContrastRatio(a, b pixel.Color) float64 {
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// HighContrastColor returns pure black or pure white, whichever contrasts
// harder against bg. The winner always reaches at least 4.5:1.
func HighContrastColor(bg pixel.Color) pixel.Color {
	if ContrastRatio(pixel.ColorWhite, bg) >= ContrastRatio(pixel.ColorBlack, bg) {
		return pixel.ColorWhite
	}
	return pixel.ColorBlack
}

// ContrastingColor returns an opaque color guaranteed to reach minRatio
// against bg: the plain RGB inversion when it suffices (it usually does and
// tracks the background's hue), otherwise the black/white fallback. Mid
// grays are the case the fallback exists for — inverting 128 yields 127,
// which is nearly invisible on its source.
func ContrastingColor(bg pixel.Color, minRatio float64) pixel.Color {
	inv := bg.Invert()
	inv.A = 255
	if ContrastRatio(inv, bg) >= minRatio {
		return inv
	}
	return HighContrastColor(bg)
}
