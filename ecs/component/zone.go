package component

// AABB is an axis-aligned bounding box.
// X/Y are offsets relative to the owning entity's Transform.
type AABB struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether the point lies inside the box placed at (ox, oy).
func (b AABB) Contains(ox, oy, px, py float64) bool {
	x, y := ox+b.X, oy+b.Y
	return px >= x && px <= x+b.W && py >= y && py <= y+b.H
}

// Intersects reports whether the box placed at (ox, oy) overlaps the rectangle
// centred on (cx, cy) with the given size. A zero-sized rectangle is a point.
func (b AABB) Intersects(ox, oy, cx, cy, w, h float64) bool {
	if w <= 0 || h <= 0 {
		return b.Contains(ox, oy, cx, cy)
	}
	x, y := ox+b.X, oy+b.Y
	return cx-w/2 < x+b.W &&
		cx+w/2 > x &&
		cy-h/2 < y+b.H &&
		cy+h/2 > y
}
