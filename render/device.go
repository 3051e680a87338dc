// Package render walks a pixel surface, diffs it against the last
// committed frame, and hands the minimal set of cell writes to an output
// device.
package render

import "github.com/lixenwraith/termpix/pixel"

// Device is the output sink a renderer draws through. Implementations
// translate cell writes into their own wire format (ANSI sequences, screen
// buffer calls) and may buffer freely between Flush calls; after Flush
// returns every prior write must be visible on the device.
//
// A device presents a cleared surface — every cell a space on default
// colors — when handed to a renderer; the renderer's committed-frame cache
// relies on that starting state.
//
// Caret operations control the device's own text caret, which is distinct
// from the pointer overlay composed into the cells themselves. Writes are
// synchronous and blocking; a stuck device stalls the render pass.
type Device interface {
	// WritePixel draws one cell. A wide glyph covers its continuation
	// cells; the renderer never issues separate writes for those.
	WritePixel(x, y int, p pixel.Pixel) error

	// SetCaretPosition moves the device caret to the given cell.
	SetCaretPosition(x, y int) error

	// SetCaretStyle selects the caret shape and blink mode.
	SetCaretStyle(style pixel.CaretStyle) error

	// ShowCaret makes the caret visible at its current position.
	ShowCaret() error

	// HideCaret removes the caret from view without moving it.
	HideCaret() error

	// Flush pushes any buffered writes to the device.
	Flush() error

	// Close releases the device and restores any terminal state it
	// changed. The device is unusable afterwards.
	Close() error
}
