package ansi

import (
	"github.com/muesli/termenv"
)

// ColorMode is the terminal's color capability.
type ColorMode uint8

const (
	Mode16        ColorMode = iota // fixed 16-color palette, quantized
	Mode256                        // xterm-256 palette
	ModeTrueColor                  // 24-bit RGB
)

func (m ColorMode) String() string {
	switch m {
	case Mode16:
		return "16"
	case Mode256:
		return "256"
	default:
		return "truecolor"
	}
}

// DetectColorMode reads the terminal's color capability from the
// environment (COLORTERM, TERM, terminal-specific variables).
func DetectColorMode() ColorMode {
	switch termenv.EnvColorProfile() {
	case termenv.TrueColor:
		return ModeTrueColor
	case termenv.ANSI256:
		return Mode256
	default:
		return Mode16
	}
}

// ParseColorMode maps a configuration string to a ColorMode. Empty and
// "auto" defer to environment detection.
func ParseColorMode(s string) ColorMode {
	switch s {
	case "16", "ega", "vga":
		return Mode16
	case "256":
		return Mode256
	case "truecolor", "24bit":
		return ModeTrueColor
	default:
		return DetectColorMode()
	}
}
