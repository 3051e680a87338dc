package render

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/termpix/grid"
	"github.com/lixenwraith/termpix/pixel"
)

type cellWrite struct {
	x, y int
	px   pixel.Pixel
}

// fakeDevice records every sink call for assertions. Its own lock keeps
// reads from the test goroutine safe while the debounce timer renders.
type fakeDevice struct {
	mu      sync.Mutex
	ops     []string
	writes  []cellWrite
	flushes int
	closed  bool
}

func (d *fakeDevice) WritePixel(x, y int, p pixel.Pixel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = append(d.writes, cellWrite{x, y, p})
	d.ops = append(d.ops, fmt.Sprintf("write(%d,%d)", x, y))
	return nil
}

func (d *fakeDevice) SetCaretPosition(x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, fmt.Sprintf("caret-pos(%d,%d)", x, y))
	return nil
}

func (d *fakeDevice) SetCaretStyle(style pixel.CaretStyle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, fmt.Sprintf("caret-style(%d)", style))
	return nil
}

func (d *fakeDevice) ShowCaret() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "caret-show")
	return nil
}

func (d *fakeDevice) HideCaret() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "caret-hide")
	return nil
}

func (d *fakeDevice) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushes++
	d.ops = append(d.ops, "flush")
	return nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDevice) writeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.writes)
}

func (d *fakeDevice) writeList() []cellWrite {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]cellWrite(nil), d.writes...)
}

func (d *fakeDevice) opList() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ops...)
}

func (d *fakeDevice) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = nil
	d.writes = nil
	d.flushes = 0
}

// newTestRenderer builds a renderer whose debounce timer never fires
// during the test, so every render is an explicit call.
func newTestRenderer(g *grid.Grid) (*Renderer, *fakeDevice) {
	dev := &fakeDevice{}
	return New(g, dev, WithDebounce(time.Hour)), dev
}

func TestRenderSingleChangedCell(t *testing.T) {
	g := grid.New(3, 1)
	g.Set(1, 0, pixel.New('A', pixel.NewColor(170, 0, 0), pixel.ColorBlack))

	r, dev := newTestRenderer(g)
	r.MarkAllDirty()

	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	writes := dev.writeList()
	if len(writes) != 1 {
		t.Fatalf("Expected exactly 1 write, got %d: %+v", len(writes), writes)
	}
	if writes[0].x != 1 || writes[0].y != 0 || writes[0].px.Glyph.Rune != 'A' {
		t.Errorf("Expected write of 'A' at (1,0), got %+v", writes[0])
	}
}

func TestRenderIdempotentDiff(t *testing.T) {
	g := grid.New(4, 2)
	g.Set(0, 0, pixel.New('x', pixel.ColorWhite, pixel.ColorBlack))
	g.Set(3, 1, pixel.New('y', pixel.ColorWhite, pixel.ColorBlack))

	r, dev := newTestRenderer(g)
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected first render to succeed, got %v", err)
	}
	if dev.writeCount() != 2 {
		t.Fatalf("Expected 2 writes on first pass, got %d", dev.writeCount())
	}

	// Same grid, full dirty region: the cache absorbs everything.
	dev.reset()
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected second render to succeed, got %v", err)
	}
	if dev.writeCount() != 0 {
		t.Errorf("Expected 0 writes on unchanged grid, got %d", dev.writeCount())
	}

	// No dirty regions at all: the pass short-circuits before the device.
	dev.reset()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected empty render to succeed, got %v", err)
	}
	if len(dev.opList()) != 0 {
		t.Errorf("Expected no device calls with empty dirty set, got %v", dev.opList())
	}
}

func TestRenderSkipsCellsOutsideDirtyRegion(t *testing.T) {
	g := grid.New(4, 1)
	g.Set(0, 0, pixel.New('a', pixel.ColorWhite, pixel.ColorBlack))
	g.Set(3, 0, pixel.New('b', pixel.ColorWhite, pixel.ColorBlack))

	r, dev := newTestRenderer(g)
	r.MarkDirty(grid.Rect{X: 3, Y: 0, W: 1, H: 1})

	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	writes := dev.writeList()
	if len(writes) != 1 || writes[0].x != 3 {
		t.Errorf("Expected only the dirty cell (3,0) written, got %+v", writes)
	}
}

func TestWideGlyphSingleSpanWrite(t *testing.T) {
	g := grid.New(4, 1)
	wide := pixel.New('世', pixel.ColorWhite, pixel.ColorBlack)
	g.Set(0, 0, wide)
	g.Set(1, 0, pixel.Pixel{Fg: pixel.ColorWhite, Bg: pixel.ColorBlack}) // continuation placeholder

	r, dev := newTestRenderer(g)
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	writes := dev.writeList()
	if len(writes) != 1 {
		t.Fatalf("Expected 1 write for the wide span, got %d: %+v", len(writes), writes)
	}
	if writes[0].x != 0 || writes[0].px.Glyph.Rune != '世' {
		t.Errorf("Expected wide glyph written at anchor, got %+v", writes[0])
	}

	// The committed span diffs clean on the next pass.
	dev.reset()
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected repeat render to succeed, got %v", err)
	}
	if dev.writeCount() != 0 {
		t.Errorf("Expected clean span to skip writes, got %d", dev.writeCount())
	}
}

func TestWideGlyphContainment(t *testing.T) {
	g := grid.New(4, 1)
	blue := pixel.NewColor(0, 0, 170)
	g.Set(0, 0, pixel.New('世', pixel.ColorWhite, blue))
	g.Set(1, 0, pixel.New('B', pixel.ColorWhite, pixel.ColorBlack)) // independently occupied

	r, dev := newTestRenderer(g)
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	var anchor, neighbor cellWrite
	for _, w := range dev.writeList() {
		switch w.x {
		case 0:
			anchor = w
		case 1:
			neighbor = w
		default:
			t.Errorf("Unexpected write at (%d,%d)", w.x, w.y)
		}
	}

	if anchor.px.Glyph.Rune != ' ' {
		t.Errorf("Expected overlapping wide glyph degraded to space, got %+v", anchor.px.Glyph)
	}
	if anchor.px.Bg != blue {
		t.Errorf("Expected degraded cell to keep its background, got %+v", anchor.px.Bg)
	}
	if neighbor.px.Glyph.Rune != 'B' {
		t.Errorf("Expected neighbor cell intact, got %+v", neighbor.px.Glyph)
	}
}

func TestWideGlyphAtRightEdge(t *testing.T) {
	g := grid.New(2, 1)
	blue := pixel.NewColor(0, 0, 170)
	g.Set(1, 0, pixel.New('世', pixel.ColorWhite, blue))

	r, dev := newTestRenderer(g)
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	writes := dev.writeList()
	if len(writes) != 1 {
		t.Fatalf("Expected 1 write, got %d: %+v", len(writes), writes)
	}
	if writes[0].x != 1 || writes[0].px.Glyph.Rune != ' ' {
		t.Errorf("Expected edge-clipped wide glyph as space, got %+v", writes[0])
	}
}

func TestWidthZeroOrphanRendersSpace(t *testing.T) {
	g := grid.New(3, 1)
	// A continuation placeholder with nothing wide before it.
	g.Set(1, 0, pixel.Pixel{Fg: pixel.ColorWhite, Bg: pixel.NewColor(170, 0, 0)})

	r, dev := newTestRenderer(g)
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	writes := dev.writeList()
	if len(writes) != 1 {
		t.Fatalf("Expected 1 write, got %d: %+v", len(writes), writes)
	}
	if writes[0].px.Glyph != pixel.SpaceGlyph {
		t.Errorf("Expected orphan continuation written as space, got %+v", writes[0].px.Glyph)
	}
	if writes[0].px.Bg != pixel.NewColor(170, 0, 0) {
		t.Errorf("Expected orphan to keep its background, got %+v", writes[0].px.Bg)
	}
}

func TestCaretSingularity(t *testing.T) {
	g := grid.New(3, 1)
	g.Set(0, 0, pixel.Empty.WithCaret(pixel.CaretSteadyBlock))
	g.Set(2, 0, pixel.Empty.WithCaret(pixel.CaretSteadyBar))

	r, _ := newTestRenderer(g)
	r.MarkAllDirty()

	err := r.RenderToDevice()
	if err == nil {
		t.Fatalf("Expected error for two caret cells, got nil")
	}
	if !errors.Is(err, ErrMultipleCarets) {
		t.Errorf("Expected ErrMultipleCarets, got %v", err)
	}
}

func TestCaretPlacementSequence(t *testing.T) {
	g := grid.New(4, 2)
	caret := pixel.New('_', pixel.ColorWhite, pixel.ColorBlack).WithCaret(pixel.CaretBlinkingBar)
	g.Set(2, 1, caret)

	r, dev := newTestRenderer(g)
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	ops := dev.opList()
	if len(ops) == 0 || ops[0] != "caret-hide" {
		t.Fatalf("Expected caret hidden first, got %v", ops)
	}

	want := []string{"flush", "caret-pos(2,1)", fmt.Sprintf("caret-style(%d)", pixel.CaretBlinkingBar), "caret-show"}
	tail := ops[len(ops)-len(want):]
	for i, op := range want {
		if tail[i] != op {
			t.Fatalf("Expected trailing ops %v, got %v", want, tail)
		}
	}
}

func TestNoCaretStaysHidden(t *testing.T) {
	g := grid.New(3, 1)
	g.Set(0, 0, pixel.New('x', pixel.ColorWhite, pixel.ColorBlack))

	r, dev := newTestRenderer(g)
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	for _, op := range dev.opList() {
		if op == "caret-show" {
			t.Errorf("Expected caret to stay hidden without a caret cell")
		}
	}
}

func TestSetCursorRendersPointer(t *testing.T) {
	g := grid.New(5, 1)
	r, dev := newTestRenderer(g)

	r.SetCursor(grid.Cursor{X: 2, Y: 0, Glyph: "▶"})
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	writes := dev.writeList()
	if len(writes) != 1 {
		t.Fatalf("Expected 1 write for the pointer cell, got %d: %+v", len(writes), writes)
	}
	if writes[0].x != 2 || writes[0].px.Glyph.Rune != '▶' {
		t.Errorf("Expected pointer glyph at (2,0), got %+v", writes[0])
	}

	// Moving the pointer away restores the underlying cell.
	dev.reset()
	r.SetCursor(grid.Cursor{X: 4, Y: 0, Glyph: "▶"})
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	restored, moved := false, false
	for _, w := range dev.writeList() {
		if w.x == 2 && w.px.Glyph.Rune == ' ' {
			restored = true
		}
		if w.x == 4 && w.px.Glyph.Rune == '▶' {
			moved = true
		}
	}
	if !restored || !moved {
		t.Errorf("Expected old cell restored and new cell drawn, got %+v", dev.writeList())
	}
}

func TestSetCursorSamePositionIsNoOp(t *testing.T) {
	g := grid.New(5, 1)
	r, dev := newTestRenderer(g)

	cur := grid.Cursor{X: 2, Y: 0, Glyph: "▶"}
	r.SetCursor(cur)
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	dev.reset()
	r.SetCursor(cur)
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}
	if dev.writeCount() != 0 {
		t.Errorf("Expected unchanged cursor to dirty nothing, got %d writes", dev.writeCount())
	}
}

func TestCursorMoveSchedulesDebouncedRender(t *testing.T) {
	g := grid.New(5, 1)
	dev := &fakeDevice{}
	r := New(g, dev, WithDebounce(time.Millisecond))
	defer r.Dispose()

	r.SetCursor(grid.Cursor{X: 1, Y: 0, Glyph: "▶"})

	deadline := time.Now().Add(2 * time.Second)
	for dev.writeCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if dev.writeCount() == 0 {
		t.Fatalf("Expected debounced render to fire after cursor move")
	}
}

func TestResizeForcesFullRewrite(t *testing.T) {
	g := grid.New(2, 1)
	r, dev := newTestRenderer(g)
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	dev.reset()
	g.Resize(3, 1)
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected post-resize render to succeed, got %v", err)
	}
	if dev.writeCount() != 3 {
		t.Errorf("Expected every cell rewritten after resize, got %d writes", dev.writeCount())
	}
}

func TestInvalidateRewritesCommittedCells(t *testing.T) {
	g := grid.New(3, 1)
	g.Set(1, 0, pixel.New('A', pixel.ColorWhite, pixel.ColorBlack))

	r, dev := newTestRenderer(g)
	r.MarkAllDirty()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}

	dev.reset()
	r.Invalidate()
	if err := r.RenderToDevice(); err != nil {
		t.Fatalf("Expected post-invalidate render to succeed, got %v", err)
	}
	if dev.writeCount() != 3 {
		t.Errorf("Expected all 3 cells rewritten after invalidate, got %d", dev.writeCount())
	}
}

func TestDisposeClosesDevice(t *testing.T) {
	g := grid.New(2, 1)
	r, dev := newTestRenderer(g)

	if err := r.Dispose(); err != nil {
		t.Fatalf("Expected dispose to succeed, got %v", err)
	}
	dev.mu.Lock()
	closed := dev.closed
	dev.mu.Unlock()
	if !closed {
		t.Errorf("Expected device closed on dispose")
	}

	if err := r.RenderToDevice(); !errors.Is(err, ErrRendererDisposed) {
		t.Errorf("Expected ErrRendererDisposed after dispose, got %v", err)
	}
	if err := r.Dispose(); err != nil {
		t.Errorf("Expected repeat dispose to be a no-op, got %v", err)
	}
}
