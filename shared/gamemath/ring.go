package gamemath

// WrapIndex steps dir places around a ring of n slots. Works for negative dir.
func WrapIndex(i, dir, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i+dir)%n + n) % n
}

// EntrySide picks the spawn point an item arrives at when sent in direction dir:
// travelling right (+1) lands on the leftmost point, left (-1) on the rightmost.
// points must be sorted left to right.
func EntrySide(points []Vec2, dir int) (Vec2, bool) {
	if len(points) == 0 {
		return Vec2{}, false
	}
	if dir < 0 {
		return points[len(points)-1], true
	}
	return points[0], true
}
