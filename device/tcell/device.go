// Package tcell adapts a tcell screen to the renderer's device contract.
// Unlike the ansi backend it delegates color degradation to tcell, which
// maps RGB onto whatever the terminal reports supporting.
package tcell

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"pkt.systems/pslog"

	"github.com/lixenwraith/termpix/pixel"
)

// ErrClosed reports a device call after Close.
var ErrClosed = errors.New("tcell: device closed")

// Device renders cells onto a tcell screen.
type Device struct {
	mu     sync.Mutex
	screen tcell.Screen
	closed bool
	logger pslog.Logger

	caretX     int
	caretY     int
	caretShown bool
}

// Option configures a Device.
type Option func(*Device)

// WithScreen supplies a screen instead of allocating one, e.g. a
// simulation screen in tests.
func WithScreen(s tcell.Screen) Option {
	return func(d *Device) { d.screen = s }
}

// WithLogger sets the logger for screen diagnostics.
func WithLogger(logger pslog.Logger) Option {
	return func(d *Device) { d.logger = logger }
}

// New initializes a screen and presents a surface cleared to black.
func New(opts ...Option) (*Device, error) {
	d := &Device{}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = pslog.LoggerFromEnv()
	}
	d.logger = d.logger.With("component", "tcell")
	if d.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("tcell: new screen: %w", err)
		}
		d.screen = s
	}
	if err := d.screen.Init(); err != nil {
		return nil, fmt.Errorf("tcell: init screen: %w", err)
	}

	d.screen.SetStyle(tcell.StyleDefault.
		Foreground(tcell.ColorWhite).
		Background(tcell.ColorBlack))
	d.screen.SetCursorStyle(tcell.CursorStyleDefault)
	d.screen.HideCursor()
	d.screen.Clear()
	d.screen.Show()

	w, h := d.screen.Size()
	d.logger.Debug("screen initialized", "cols", w, "rows", h)
	return d, nil
}

// Screen exposes the underlying screen for event polling. The caller must
// not draw on it directly.
func (d *Device) Screen() tcell.Screen {
	return d.screen
}

// Size returns the screen dimensions in cells.
func (d *Device) Size() (width, height int) {
	return d.screen.Size()
}

// WritePixel draws one cell. Wide glyphs occupy their trailing cells
// through tcell's own width handling.
func (d *Device) WritePixel(x, y int, p pixel.Pixel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	r := p.Glyph.Rune
	if r == 0 {
		r = ' '
	}
	d.screen.SetContent(x, y, r, nil, cellStyle(p))
	return nil
}

// cellStyle maps pixel typography onto a tcell style.
func cellStyle(p pixel.Pixel) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(p.Fg.R), int32(p.Fg.G), int32(p.Fg.B))).
		Background(tcell.NewRGBColor(int32(p.Bg.R), int32(p.Bg.G), int32(p.Bg.B))).
		Bold(p.Weight == pixel.WeightBold).
		Dim(p.Weight == pixel.WeightThin || p.Weight == pixel.WeightLight).
		Italic(p.Style != pixel.StyleNormal).
		Underline(p.Deco&pixel.DecorationUnderline != 0).
		StrikeThrough(p.Deco&pixel.DecorationStrikethrough != 0)
}

// Flush commits buffered cell writes to the terminal.
func (d *Device) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.screen.Show()
	return nil
}

// SetCaretPosition records the caret cell; the move materializes when the
// caret is (or becomes) visible.
func (d *Device) SetCaretPosition(x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.caretX, d.caretY = x, y
	if d.caretShown {
		d.screen.ShowCursor(x, y)
		d.screen.Show()
	}
	return nil
}

// SetCaretStyle selects the caret shape.
func (d *Device) SetCaretStyle(style pixel.CaretStyle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.screen.SetCursorStyle(caretStyle(style))
	return nil
}

func caretStyle(s pixel.CaretStyle) tcell.CursorStyle {
	switch s {
	case pixel.CaretBlinkingBlock:
		return tcell.CursorStyleBlinkingBlock
	case pixel.CaretSteadyBlock:
		return tcell.CursorStyleSteadyBlock
	case pixel.CaretBlinkingUnderline:
		return tcell.CursorStyleBlinkingUnderline
	case pixel.CaretSteadyUnderline:
		return tcell.CursorStyleSteadyUnderline
	case pixel.CaretBlinkingBar:
		return tcell.CursorStyleBlinkingBar
	case pixel.CaretSteadyBar:
		return tcell.CursorStyleSteadyBar
	default:
		return tcell.CursorStyleDefault
	}
}

// ShowCaret makes the caret visible at its recorded position.
func (d *Device) ShowCaret() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.caretShown {
		return nil
	}
	d.caretShown = true
	d.screen.ShowCursor(d.caretX, d.caretY)
	d.screen.Show()
	return nil
}

// HideCaret removes the caret from view.
func (d *Device) HideCaret() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if !d.caretShown {
		return nil
	}
	d.caretShown = false
	d.screen.HideCursor()
	d.screen.Show()
	return nil
}

// Close finalizes the screen and restores the terminal. Safe to call more
// than once.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.screen.Fini()
	return nil
}
