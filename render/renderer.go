package render

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"pkt.systems/pslog"

	"github.com/lixenwraith/termpix/grid"
	"github.com/lixenwraith/termpix/pixel"
)

// CursorDebounce caps pointer-driven redraws to roughly one per frame at
// 60 Hz. Bursts of mouse movement coalesce into a single render.
const CursorDebounce = 16 * time.Millisecond

var (
	// ErrMultipleCarets reports more than one caret-bearing cell in a
	// single frame. The grid owner must clear the old caret before setting
	// a new one; rendering never picks a winner.
	ErrMultipleCarets = errors.New("multiple caret cells in one frame")

	// ErrRendererDisposed reports a render call after Dispose.
	ErrRendererDisposed = errors.New("renderer disposed")
)

// cached is one render-cache slot: the last pixel committed to the device
// at that cell, or unknown before the first frame and after a resize.
type cached struct {
	px    pixel.Pixel
	known bool
}

// Renderer diffs the pixel surface against the committed frame and writes
// only changed cells to its device. One render call runs at a time; the
// cursor setter and the debounce timer share the same lock.
type Renderer struct {
	mu     sync.Mutex
	grid   *grid.Grid
	dev    Device
	dirty  *grid.DirtyTracker
	cursor grid.Cursor

	cache  []cached
	cacheW int
	cacheH int

	debounce  time.Duration
	timer     *time.Timer
	pending   bool
	lastFlush time.Time
	closed    bool

	logger pslog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger for frame diagnostics.
func WithLogger(logger pslog.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// WithDebounce overrides the pointer-movement coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(r *Renderer) { r.debounce = d }
}

// New returns a renderer drawing g through dev. The renderer holds a
// non-owning reference to the grid; the grid owner must not mutate it
// while a render pass is in flight.
//
// The cache starts pre-seeded to the canonical space cell: a device hands
// over a cleared surface, so cells that still hold spaces need no write on
// the first frame. Call Invalidate if the device was not freshly cleared.
func New(g *grid.Grid, dev Device, opts ...Option) *Renderer {
	w, h := g.Size()
	r := &Renderer{
		grid:     g,
		dev:      dev,
		dirty:    grid.NewDirtyTracker(),
		cache:    seededCache(w, h),
		cacheW:   w,
		cacheH:   h,
		debounce: CursorDebounce,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = pslog.LoggerFromEnv()
	}
	r.logger = r.logger.With("component", "renderer")
	return r
}

// seededCache allocates a cache with every slot committed as the space
// cell, matching a freshly cleared device.
func seededCache(w, h int) []cached {
	c := make([]cached, w*h)
	for i := range c {
		c[i] = cached{px: pixel.Empty, known: true}
	}
	return c
}

// MarkDirty records a changed region for the next render pass.
func (r *Renderer) MarkDirty(rect grid.Rect) {
	r.dirty.Add(rect)
}

// MarkAllDirty records the whole surface as changed.
func (r *Renderer) MarkAllDirty() {
	r.dirty.AddAll(r.grid.Size())
}

// Invalidate discards the committed-frame cache so the next pass rewrites
// every cell. Use after the device state may have diverged, e.g. another
// process wrote to the terminal.
func (r *Renderer) Invalidate() {
	r.mu.Lock()
	for i := range r.cache {
		r.cache[i] = cached{}
	}
	r.mu.Unlock()
	r.MarkAllDirty()
}

// Cursor returns the current pointer overlay.
func (r *Renderer) Cursor() grid.Cursor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

// SetCursor replaces the pointer overlay, marks the affected cells of the
// old and new spans dirty, and schedules a debounced render. Safe to call
// from the input thread while a render pass runs.
func (r *Renderer) SetCursor(cur grid.Cursor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor.Equal(cur) {
		return
	}
	r.dirty.Add(r.clampRect(r.cursor.Bounds()))
	r.dirty.Add(r.clampRect(cur.Bounds()))
	r.cursor = cur
	r.scheduleLocked()
}

// clampRect intersects a rect with the surface so cursor spans hanging off
// an edge do not dirty cells that don't exist.
func (r *Renderer) clampRect(rect grid.Rect) grid.Rect {
	w, h := r.grid.Size()
	x1 := max(rect.X, 0)
	y1 := max(rect.Y, 0)
	x2 := min(rect.X+rect.W, w)
	y2 := min(rect.Y+rect.H, h)
	return grid.Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// scheduleLocked arms the debounce timer unless a render is already
// pending. Caller holds r.mu.
func (r *Renderer) scheduleLocked() {
	if r.closed || r.pending {
		return
	}
	r.pending = true
	delay := r.debounce - time.Since(r.lastFlush)
	if delay < 0 {
		delay = 0
	}
	r.timer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		r.pending = false
		closed := r.closed
		r.mu.Unlock()
		if closed {
			return
		}
		if err := r.RenderToDevice(); err != nil {
			r.logger.Error("pointer render failed", "error", err)
		}
	})
}

// RenderToDevice runs one frame: snapshot the dirty set, hide the caret,
// scan the surface row-major, write changed cells, flush, then place the
// caret. Returns ErrMultipleCarets when the frame carries more than one
// caret cell.
func (r *Renderer) RenderToDevice() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRendererDisposed
	}

	start := time.Now()
	w, h := r.grid.Size()
	if w != r.cacheW || h != r.cacheH {
		// Resize leaves the device in an unknown state; an unknown cache
		// forces a rewrite of every cell.
		r.cache = make([]cached, w*h)
		r.cacheW, r.cacheH = w, h
		r.dirty.AddAll(w, h)
	}

	snap := r.dirty.SnapshotAndClear()
	if snap.Empty() {
		return nil
	}

	if err := r.dev.HideCaret(); err != nil {
		return fmt.Errorf("hide caret: %w", err)
	}

	writes := 0
	caretCount := 0
	caretX, caretY := 0, 0
	caretStyle := pixel.CaretNone

	for y := 0; y < h; y++ {
		covered := 0
		for x := 0; x < w; x++ {
			// The grid is contractually read-only during the pass; if the
			// owner resizes anyway, skip rather than crash.
			if !r.grid.InBounds(x, y) {
				break
			}

			p := r.grid.GetForRendering(x, y, r.cursor)

			if p.Caret != pixel.CaretNone {
				caretCount++
				if caretCount > 1 {
					return fmt.Errorf("caret at (%d,%d) and (%d,%d): %w",
						caretX, caretY, x, y, ErrMultipleCarets)
				}
				caretX, caretY, caretStyle = x, y, p.Caret
			}

			if covered > 0 {
				covered--
				continue
			}

			// A continuation cell with no live wide glyph before it never
			// reaches the device as-is.
			if p.Glyph.Width == 0 {
				p.Glyph = pixel.SpaceGlyph
			}

			// A wide glyph may not overwrite an independently occupied
			// neighbor, meaning one whose rendering-time width is nonzero.
			// Degrade to a space before committing span state. Checking the
			// rendered view keeps the pointer overlay visible when it sits
			// on a continuation cell, and lets a wide pointer glyph span
			// cells that hold no placeholders.
			if p.Glyph.Width > 1 {
				for k := 1; k < p.Glyph.Width; k++ {
					if !r.grid.InBounds(x+k, y) ||
						r.grid.GetForRendering(x+k, y, r.cursor).Glyph.Width != 0 {
						p.Glyph = pixel.SpaceGlyph
						break
					}
				}
			}

			span := p.Glyph.Width
			if span > 1 {
				covered = span - 1
			}

			dirty := false
			for k := 0; k < span; k++ {
				if snap.Contains(x+k, y) {
					dirty = true
					break
				}
			}
			if !dirty {
				continue
			}

			clean := r.cacheMatch(x, y, p)
			for k := 1; k < span && clean; k++ {
				clean = r.cacheMatch(x+k, y, continuation(p))
			}
			if clean {
				continue
			}

			if err := r.dev.WritePixel(x, y, p); err != nil {
				return fmt.Errorf("write cell (%d,%d): %w", x, y, err)
			}
			r.cacheStore(x, y, p)
			for k := 1; k < span; k++ {
				r.cacheStore(x+k, y, continuation(p))
			}
			writes++
		}
	}

	if err := r.dev.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	if caretCount == 1 {
		if err := r.dev.SetCaretPosition(caretX, caretY); err != nil {
			return fmt.Errorf("place caret: %w", err)
		}
		if err := r.dev.SetCaretStyle(caretStyle); err != nil {
			return fmt.Errorf("style caret: %w", err)
		}
		if err := r.dev.ShowCaret(); err != nil {
			return fmt.Errorf("show caret: %w", err)
		}
	}

	r.lastFlush = time.Now()
	r.logger.Debug("frame committed",
		"cells", writes,
		"regions", len(snap),
		"duration", time.Since(start))
	return nil
}

// Dispose stops the debounce timer and closes the device. Safe to call
// more than once.
func (r *Renderer) Dispose() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()
	return r.dev.Close()
}

func (r *Renderer) cacheMatch(x, y int, p pixel.Pixel) bool {
	idx := y*r.cacheW + x
	if idx < 0 || idx >= len(r.cache) {
		return false
	}
	c := r.cache[idx]
	return c.known && c.px == p
}

func (r *Renderer) cacheStore(x, y int, p pixel.Pixel) {
	idx := y*r.cacheW + x
	if idx < 0 || idx >= len(r.cache) {
		return
	}
	r.cache[idx] = cached{px: p, known: true}
}

// continuation is the cache form of a wide glyph's trailing cell: same
// colors and style, zero glyph.
func continuation(p pixel.Pixel) pixel.Pixel {
	p.Glyph = pixel.Glyph{}
	return p
}
