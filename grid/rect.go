package grid

// Rect is a rectangle of cells: inclusive origin, extent in cells.
type Rect struct {
	X, Y, W, H int
}

// Empty reports a rectangle that covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the cell (x,y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ContainsRect reports whether o lies fully inside r. Empty rectangles are
// contained by anything.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() {
		return true
	}
	if r.Empty() {
		return false
	}
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Intersects reports whether r and o share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x1, y1 := min(r.X, o.X), min(r.Y, o.Y)
	x2 := max(r.X+r.W, o.X+o.W)
	y2 := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// RectSet is a snapshot of dirty rectangles taken from a DirtyTracker.
type RectSet []Rect

// Contains reports whether any rectangle in the set covers (x,y). An empty
// set contains nothing.
func (s RectSet) Contains(x, y int) bool {
	for _, r := range s {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// Empty reports a set with no rectangles.
func (s RectSet) Empty() bool {
	return len(s) == 0
}
