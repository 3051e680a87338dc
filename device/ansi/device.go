// Package ansi renders cell writes as ANSI escape sequences on a terminal
// stream. The device manages an alternate-screen session and degrades
// colors to the terminal's detected capability, quantizing down to the
// 16-color palette when that is all the terminal offers.
package ansi

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/term"
	"pkt.systems/pslog"

	"github.com/lixenwraith/termpix/palette"
	"github.com/lixenwraith/termpix/pixel"
)

// ErrClosed reports a device call after Close.
var ErrClosed = errors.New("ansi: device closed")

// Device writes cells to a terminal stream. It satisfies the renderer's
// device contract: on open it enters the alternate screen, disables
// autowrap, hides the caret, and clears to black, so the renderer sees a
// known blank surface. Close restores the terminal.
type Device struct {
	mu     sync.Mutex
	out    *emitter
	closed bool
	logger pslog.Logger

	caretShown      atomic.Bool
	caretStyle      pixel.CaretStyle
	caretStyleKnown bool
}

// Option configures a Device.
type Option func(*config)

type config struct {
	w       io.Writer
	mode    ColorMode
	modeSet bool
	q       *palette.Quantizer
	logger  pslog.Logger
}

// WithWriter directs output somewhere other than stdout.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.w = w }
}

// WithColorMode pins the color mode instead of detecting it.
func WithColorMode(m ColorMode) Option {
	return func(c *config) { c.mode = m; c.modeSet = true }
}

// WithQuantizer supplies a shared quantizer for the 16-color path. The
// default device constructs its own.
func WithQuantizer(q *palette.Quantizer) Option {
	return func(c *config) { c.q = q }
}

// WithLogger sets the logger for session diagnostics.
func WithLogger(logger pslog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New opens a terminal session: alternate screen, autowrap off, caret
// hidden, screen cleared to black.
func New(opts ...Option) (*Device, error) {
	c := &config{w: os.Stdout}
	d := &Device{}
	for _, opt := range opts {
		opt(c)
	}
	if !c.modeSet {
		c.mode = DetectColorMode()
	}
	if c.q == nil {
		c.q = palette.NewQuantizer()
	}
	if c.logger == nil {
		c.logger = pslog.LoggerFromEnv()
	}
	d.logger = c.logger.With("component", "ansi")
	d.out = newEmitter(c.w, c.mode, c.q)

	w := d.out.w
	w.Write(csiAltScreenEnter)
	w.Write(csiCaretHide)
	w.Write(csiAutoWrapOff)
	w.Write(csiCaretStyleDefault)
	w.Write(csiSGR0)
	w.Write(csiBgBlack)
	w.Write(csiClear)
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("ansi: open session: %w", err)
	}
	d.logger.Debug("session opened", "mode", c.mode.String())
	return d, nil
}

// ColorMode returns the mode the device renders in.
func (d *Device) ColorMode() ColorMode {
	return d.out.mode
}

// WritePixel buffers one cell write. The bytes reach the terminal on the
// next Flush.
func (d *Device) WritePixel(x, y int, p pixel.Pixel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return d.out.writeCell(x, y, p)
}

// Flush resets attributes and drains buffered writes to the terminal.
func (d *Device) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return d.out.flush()
}

// SetCaretPosition moves the terminal caret. The emitter's tracked cursor
// is invalidated since the real cursor moved underneath it.
func (d *Device) SetCaretPosition(x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.out.invalidateCursor()
	writeCursorPos(d.out.w, x, y)
	return d.out.w.Flush()
}

// SetCaretStyle selects the caret shape via DECSCUSR. Repeated calls with
// the same style emit nothing.
func (d *Device) SetCaretStyle(style pixel.CaretStyle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.caretStyleKnown && d.caretStyle == style {
		return nil
	}
	writeCaretStyle(d.out.w, int(style))
	d.caretStyle = style
	d.caretStyleKnown = true
	return d.out.w.Flush()
}

// ShowCaret makes the caret visible. Deduplicated against current state.
func (d *Device) ShowCaret() error {
	if d.caretShown.Swap(true) {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.out.w.Write(csiCaretShow)
	return d.out.w.Flush()
}

// HideCaret removes the caret from view. Deduplicated against current
// state — the renderer hides on every pass.
func (d *Device) HideCaret() error {
	if !d.caretShown.Swap(false) {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.out.w.Write(csiCaretHide)
	return d.out.w.Flush()
}

// Close restores the terminal: caret visible with its default shape, main
// screen, autowrap on, attributes reset. Safe to call more than once.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	w := d.out.w
	w.Write(csiCaretShow)
	w.Write(csiCaretStyleDefault)
	w.Write(csiAltScreenExit)
	w.Write(csiAutoWrapOn)
	w.Write(csiSGR0)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("ansi: close session: %w", err)
	}
	return nil
}

// Size returns the terminal dimensions of f in cells.
func Size(f *os.File) (width, height int, err error) {
	width, height, err = term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("ansi: terminal size: %w", err)
	}
	return width, height, nil
}

// EmergencyReset writes a best-effort terminal restore, for panic paths
// where Close cannot run in order.
func EmergencyReset(w io.Writer) {
	w.Write(csiCaretShow)
	w.Write(csiCaretStyleDefault)
	w.Write(csiAltScreenExit)
	w.Write(csiAutoWrapOn)
	w.Write(csiSGR0)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}
}
