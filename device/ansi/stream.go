package ansi

import (
	"bufio"
	"io"

	"github.com/lixenwraith/termpix/palette"
	"github.com/lixenwraith/termpix/pixel"
)

// attrMask is the set of SGR text attributes a cell can carry.
type attrMask uint8

const (
	attrBold attrMask = 1 << iota
	attrDim
	attrItalic
	attrUnderline
	attrStrike
)

// style is the complete SGR state of a cell, resolved for one color mode.
// In Mode16 only the palette indices are set; in the RGB modes only the
// colors. Comparable with ==.
type style struct {
	fg    pixel.Color
	bg    pixel.Color
	fgIdx palette.PaletteColor
	bgIdx palette.PaletteColor
	attrs attrMask
}

// emitter turns cell writes into a minimal escape-sequence stream. It
// tracks the device cursor to skip redundant positioning and coalesces
// style changes into single SGR sequences.
type emitter struct {
	w    *bufio.Writer
	mode ColorMode
	q    *palette.Quantizer

	cursorX     int
	cursorY     int
	cursorValid bool

	last      style
	lastValid bool
}

func newEmitter(w io.Writer, mode ColorMode, q *palette.Quantizer) *emitter {
	return &emitter{
		w:    bufio.NewWriterSize(w, 131072), // 128KB buffer
		mode: mode,
		q:    q,
	}
}

// writeCell positions the cursor, updates style, and writes the glyph.
func (e *emitter) writeCell(x, y int, p pixel.Pixel) error {
	// Position once per jump; consecutive cells ride the cursor advance.
	if !e.cursorValid || x != e.cursorX || y != e.cursorY {
		// Forward movement within a row is cheaper than absolute
		// positioning and never destroys cells under the cursor.
		if e.cursorValid && y == e.cursorY && x > e.cursorX {
			writeCursorForward(e.w, x-e.cursorX)
		} else {
			writeCursorPos(e.w, x, y)
		}
		e.cursorX = x
		e.cursorY = y
		e.cursorValid = true
	}

	s, err := e.styleFor(p)
	if err != nil {
		return err
	}
	e.writeStyle(s)

	r := p.Glyph.Rune
	if r == 0 {
		r = ' '
	}
	if r < 0x80 {
		e.w.WriteByte(byte(r))
	} else {
		e.w.WriteRune(r)
	}

	adv := p.Glyph.Width
	if adv < 1 {
		adv = 1
	}
	e.cursorX += adv
	return nil
}

// styleFor resolves a pixel's colors and attributes for the emitter's
// color mode. The palette mode quantizes and folds the font weight into
// the palette index; the RGB modes pass colors through and express weight
// as bold/dim.
func (e *emitter) styleFor(p pixel.Pixel) (style, error) {
	var s style

	if e.mode == Mode16 {
		bgIdx, fgIdx, err := e.q.MapColors(p.Bg, p.Fg, p.Weight)
		if err != nil {
			return style{}, err
		}
		s.bgIdx = bgIdx
		s.fgIdx = fgIdx
	} else {
		s.fg = p.Fg
		s.bg = p.Bg
		switch p.Weight {
		case pixel.WeightBold:
			s.attrs |= attrBold
		case pixel.WeightThin, pixel.WeightLight:
			s.attrs |= attrDim
		}
	}

	if p.Style != pixel.StyleNormal {
		s.attrs |= attrItalic
	}
	if p.Deco&pixel.DecorationUnderline != 0 {
		s.attrs |= attrUnderline
	}
	if p.Deco&pixel.DecorationStrikethrough != 0 {
		s.attrs |= attrStrike
	}
	return s, nil
}

// writeStyle emits a single combined SGR sequence when style changes
func (e *emitter) writeStyle(s style) {
	if e.lastValid && s == e.last {
		return
	}

	fgChanged := !e.lastValid || s.fg != e.last.fg || s.fgIdx != e.last.fgIdx
	bgChanged := !e.lastValid || s.bg != e.last.bg || s.bgIdx != e.last.bgIdx
	attrChanged := !e.lastValid || s.attrs != e.last.attrs

	w := e.w
	if attrChanged {
		// Attributes only stack, so drop to a clean slate first and
		// rebuild the full state in one sequence.
		w.Write(csi)
		w.WriteByte('0')
		if s.attrs&attrBold != 0 {
			w.Write([]byte(";1"))
		}
		if s.attrs&attrDim != 0 {
			w.Write([]byte(";2"))
		}
		if s.attrs&attrItalic != 0 {
			w.Write([]byte(";3"))
		}
		if s.attrs&attrUnderline != 0 {
			w.Write([]byte(";4"))
		}
		if s.attrs&attrStrike != 0 {
			w.Write([]byte(";9"))
		}
		e.writeFgInline(s)
		e.writeBgInline(s)
		w.WriteByte('m')
	} else if fgChanged && bgChanged {
		w.Write(csi)
		e.writeFgInline(s)
		e.writeBgInline(s)
		w.WriteByte('m')
	} else if fgChanged {
		e.writeFgFull(s)
	} else if bgChanged {
		e.writeBgFull(s)
	}

	e.last = s
	e.lastValid = true
}

// writeFgInline writes fg color parameters (no CSI prefix, no 'm' suffix)
func (e *emitter) writeFgInline(s style) {
	w := e.w
	w.WriteByte(';')
	switch e.mode {
	case Mode16:
		writeInt(w, fgCode(s.fgIdx))
	case ModeTrueColor:
		w.Write([]byte("38;2;"))
		writeInt(w, int(s.fg.R))
		w.WriteByte(';')
		writeInt(w, int(s.fg.G))
		w.WriteByte(';')
		writeInt(w, int(s.fg.B))
	default:
		w.Write([]byte("38;5;"))
		writeInt(w, int(rgbTo256(s.fg)))
	}
}

// writeBgInline writes bg color parameters (no CSI prefix, no 'm' suffix)
func (e *emitter) writeBgInline(s style) {
	w := e.w
	w.WriteByte(';')
	switch e.mode {
	case Mode16:
		writeInt(w, bgCode(s.bgIdx))
	case ModeTrueColor:
		w.Write([]byte("48;2;"))
		writeInt(w, int(s.bg.R))
		w.WriteByte(';')
		writeInt(w, int(s.bg.G))
		w.WriteByte(';')
		writeInt(w, int(s.bg.B))
	default:
		w.Write([]byte("48;5;"))
		writeInt(w, int(rgbTo256(s.bg)))
	}
}

// writeFgFull writes a complete standalone fg color sequence
func (e *emitter) writeFgFull(s style) {
	w := e.w
	switch e.mode {
	case Mode16:
		w.Write(csi)
		writeInt(w, fgCode(s.fgIdx))
		w.WriteByte('m')
	case ModeTrueColor:
		w.Write(csiFgRGB)
		writeInt(w, int(s.fg.R))
		w.WriteByte(';')
		writeInt(w, int(s.fg.G))
		w.WriteByte(';')
		writeInt(w, int(s.fg.B))
		w.WriteByte('m')
	default:
		w.Write(csiFg256)
		writeInt(w, int(rgbTo256(s.fg)))
		w.WriteByte('m')
	}
}

// writeBgFull writes a complete standalone bg color sequence
func (e *emitter) writeBgFull(s style) {
	w := e.w
	switch e.mode {
	case Mode16:
		w.Write(csi)
		writeInt(w, bgCode(s.bgIdx))
		w.WriteByte('m')
	case ModeTrueColor:
		w.Write(csiBgRGB)
		writeInt(w, int(s.bg.R))
		w.WriteByte(';')
		writeInt(w, int(s.bg.G))
		w.WriteByte(';')
		writeInt(w, int(s.bg.B))
		w.WriteByte('m')
	default:
		w.Write(csiBg256)
		writeInt(w, int(rgbTo256(s.bg)))
		w.WriteByte('m')
	}
}

// fgCode maps a palette index to its SGR foreground parameter: 30-37 for
// the dark half, 90-97 for the bright half.
func fgCode(idx palette.PaletteColor) int {
	if idx >= 8 {
		return 90 + int(idx) - 8
	}
	return 30 + int(idx)
}

// bgCode maps a palette index to its SGR background parameter. Background
// quantization stays in the dark half, but the bright codes are handled
// for completeness.
func bgCode(idx palette.PaletteColor) int {
	if idx >= 8 {
		return 100 + int(idx) - 8
	}
	return 40 + int(idx)
}

// flush terminates the frame with an attribute reset and drains the
// buffer. The reset keeps styles from bleeding into foreign writes; the
// next frame re-establishes state from scratch.
func (e *emitter) flush() error {
	e.w.Write(csiSGR0)
	e.lastValid = false
	return e.w.Flush()
}

// invalidateCursor marks the tracked cursor position unknown, e.g. after
// a caret positioning sequence moved the real cursor.
func (e *emitter) invalidateCursor() {
	e.cursorValid = false
}
