package game

// Overlap reports whether two axis-aligned boxes intersect. Boxes that only
// touch on an edge do not overlap.
func Overlap(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	return ax < bx+bw && ax+aw > bx && ay < by+bh && ay+ah > by
}
