package grid

import "sync"

// DirtyTracker accumulates the rectangles touched since the last flush.
// Add runs on whatever thread mutates the surface; SnapshotAndClear runs on
// the render thread once per pass. The slice swap under the lock keeps the
// handoff atomic — nothing added concurrently is lost or double-counted.
type DirtyTracker struct {
	mu    sync.Mutex
	rects []Rect
}

// NewDirtyTracker returns an empty tracker.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{}
}

// Add merges or appends r to the pending set. Containment merging keeps the
// set small; correctness needs only the append.
func (d *DirtyTracker) Add(r Rect) {
	if r.Empty() {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.rects {
		if e.ContainsRect(r) {
			return
		}
	}
	kept := d.rects[:0]
	for _, e := range d.rects {
		if !r.ContainsRect(e) {
			kept = append(kept, e)
		}
	}
	d.rects = append(kept, r)
}

// AddAll marks the full w×h surface dirty.
func (d *DirtyTracker) AddAll(w, h int) {
	d.Add(Rect{X: 0, Y: 0, W: w, H: h})
}

// SnapshotAndClear atomically returns the accumulated set and resets the
// tracker to empty.
func (d *DirtyTracker) SnapshotAndClear() RectSet {
	d.mu.Lock()
	s := d.rects
	d.rects = nil
	d.mu.Unlock()
	return RectSet(s)
}
