// Package vcsa encodes the pixel surface into the raw framebuffer layout
// of Linux virtual-console capture devices: a four-byte header holding
// the dimensions and caret position, then one (character, attribute) byte
// pair per cell in row-major order. The attribute packs the background
// palette index into the high nibble and the foreground into the low.
package vcsa

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"pkt.systems/pslog"

	"github.com/lixenwraith/termpix/grid"
	"github.com/lixenwraith/termpix/palette"
	"github.com/lixenwraith/termpix/pixel"
	"github.com/lixenwraith/termpix/render"
)

const headerSize = 4

// ErrEncoderDisposed reports a render call after Dispose.
var ErrEncoderDisposed = errors.New("vcsa: encoder disposed")

// Encoder renders the grid into a vcsa-style device. Unlike the
// differential text renderer it re-encodes every cell each frame; a byte
// cache of the committed frame keeps device writes down to the spans that
// actually changed.
type Encoder struct {
	mu     sync.Mutex
	grid   *grid.Grid
	q      *palette.Quantizer
	f      *os.File
	path   string
	fonts  *fontTable
	cursor grid.Cursor

	// frame stages the pass being built; committed holds the bytes known
	// to be on the device, nil after a resize or before the first frame.
	frame     []byte
	committed []byte
	cols      int
	rows      int
	caretX    byte
	caretY    byte

	closed bool
	logger pslog.Logger
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithQuantizer supplies a shared palette quantizer; by default each
// encoder constructs its own.
func WithQuantizer(q *palette.Quantizer) Option {
	return func(e *Encoder) { e.q = q }
}

// WithLogger sets the logger for frame diagnostics.
func WithLogger(logger pslog.Logger) Option {
	return func(e *Encoder) { e.logger = logger }
}

// Open acquires the device at path for exclusive use by the encoder. The
// encoder holds a non-owning reference to the grid; the grid owner must
// not mutate it while a render pass is in flight. Failure to open the
// device is fatal; the returned error carries the path and the OS code.
func Open(path string, g *grid.Grid, opts ...Option) (*Encoder, error) {
	e := &Encoder{grid: g, path: path}
	for _, opt := range opts {
		opt(e)
	}
	if e.q == nil {
		e.q = palette.NewQuantizer()
	}
	if e.logger == nil {
		e.logger = pslog.LoggerFromEnv()
	}
	e.logger = e.logger.With("component", "vcsa")

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("vcsa: open device: %w", err)
	}
	e.f = f
	e.fonts = queryFontTable(path)
	if e.fonts.m != nil {
		e.logger.Debug("console font map loaded", "entries", len(e.fonts.m))
	} else {
		e.logger.Debug("no console font map, using cp437 fallback")
	}
	e.allocate(g.Size())
	return e, nil
}

// allocate sizes the staging buffer for cols×rows and discards the
// committed frame, forcing the next pass to rewrite everything.
func (e *Encoder) allocate(cols, rows int) {
	e.cols, e.rows = cols, rows
	e.frame = make([]byte, headerSize+cols*rows*2)
	e.committed = nil
}

// SetCursor replaces the pointer overlay for subsequent frames. Every
// cell is re-evaluated each frame, so no dirty bookkeeping is needed.
func (e *Encoder) SetCursor(cur grid.Cursor) {
	e.mu.Lock()
	e.cursor = cur
	e.mu.Unlock()
}

// Cursor returns the current pointer overlay.
func (e *Encoder) Cursor() grid.Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// RenderToDevice encodes the full grid and writes the spans that differ
// from the committed frame. The header caret position follows the single
// caret-bearing cell; with none present it keeps its previous value.
// Returns render.ErrMultipleCarets when the frame carries more than one
// caret cell.
func (e *Encoder) RenderToDevice() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEncoderDisposed
	}

	start := time.Now()
	cols, rows := e.grid.Size()
	if cols != e.cols || rows != e.rows {
		e.allocate(cols, rows)
	}

	caretCount := 0
	caretX, caretY := int(e.caretX), int(e.caretY)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			// The grid is contractually read-only during the pass; if the
			// owner resizes anyway, skip rather than crash.
			if !e.grid.InBounds(x, y) {
				break
			}

			p := e.grid.GetForRendering(x, y, e.cursor)

			if p.Caret != pixel.CaretNone {
				caretCount++
				if caretCount > 1 {
					return fmt.Errorf("caret at (%d,%d) and (%d,%d): %w",
						caretX, caretY, x, y, render.ErrMultipleCarets)
				}
				caretX, caretY = x, y
			}

			devBg, devFg, err := e.q.MapColors(p.Bg, p.Fg, p.Weight)
			if err != nil {
				return fmt.Errorf("cell (%d,%d): %w", x, y, err)
			}

			i := headerSize + (y*cols+x)*2
			e.frame[i] = e.encodeGlyph(p.Glyph)
			e.frame[i+1] = byte(devBg)<<4 | byte(devFg)
		}
	}

	e.frame[0] = clampByte(cols)
	e.frame[1] = clampByte(rows)
	e.frame[2] = clampByte(caretX)
	e.frame[3] = clampByte(caretY)

	spans, written, err := e.writeChanged()
	if err != nil {
		return err
	}

	// Swap the frame into committed; the old committed allocation becomes
	// the next staging buffer when the size still matches.
	prev := e.committed
	e.committed = e.frame
	if prev != nil && len(prev) == len(e.committed) {
		e.frame = prev
	} else {
		e.frame = make([]byte, len(e.committed))
	}
	e.caretX, e.caretY = e.committed[2], e.committed[3]

	e.logger.Debug("frame committed",
		"spans", spans,
		"bytes", written,
		"duration", time.Since(start))
	return nil
}

// encodeGlyph folds a glyph to one font byte. Continuation placeholders
// and absent glyphs land on space; everything else goes through the font
// table.
func (e *Encoder) encodeGlyph(g pixel.Glyph) byte {
	if g.Width == 0 {
		return ' '
	}
	return e.fonts.encode(g.Rune)
}

// writeChanged seeks to each contiguous changed span and writes it. A nil
// committed buffer rewrites the whole frame as one span.
func (e *Encoder) writeChanged() (spans, written int, err error) {
	n := len(e.frame)
	for i := 0; i < n; {
		if e.committed != nil && e.frame[i] == e.committed[i] {
			i++
			continue
		}
		j := i + 1
		for j < n && (e.committed == nil || e.frame[j] != e.committed[j]) {
			j++
		}
		if err := e.writeAt(int64(i), e.frame[i:j]); err != nil {
			return spans, written, err
		}
		spans++
		written += j - i
		i = j
	}
	return spans, written, nil
}

// writeAt positions the descriptor and writes b in full, looping on
// partial writes.
func (e *Encoder) writeAt(off int64, b []byte) error {
	if _, err := e.f.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("vcsa: seek %s to %d: %w", e.path, off, err)
	}
	for len(b) > 0 {
		n, err := e.f.Write(b)
		if err != nil {
			return fmt.Errorf("vcsa: write %s: %w", e.path, err)
		}
		if n == 0 {
			return fmt.Errorf("vcsa: write %s: %w", e.path, io.ErrShortWrite)
		}
		b = b[n:]
	}
	return nil
}

// Dispose releases the device handle. Safe to call more than once.
func (e *Encoder) Dispose() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.f.Close(); err != nil {
		return fmt.Errorf("vcsa: close device: %w", err)
	}
	return nil
}

func clampByte(v int) byte {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return byte(v)
}
