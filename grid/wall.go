package grid

// Wall is an axis-aligned rectangular obstacle. X, Y is the lower-left
// corner; W, H the extent. Nodes cannot be placed inside a wall and
// ranging signals do not cross one.
type Wall struct {
	X, Y float64
	W, H float64
}

// Contains reports whether p lies strictly inside the wall.
func (w Wall) Contains(p Point2D) bool {
	return p.X > w.X && p.X < w.X+w.W && p.Y > w.Y && p.Y < w.Y+w.H
}

// Blocks reports whether the segment a–b crosses the wall.
func (w Wall) Blocks(a, b Point2D) bool {
	if w.Contains(a) || w.Contains(b) {
		return true
	}
	corners := [4]Point2D{
		{w.X, w.Y},
		{w.X + w.W, w.Y},
		{w.X + w.W, w.Y + w.H},
		{w.X, w.Y + w.H},
	}
	for i := 0; i < 4; i++ {
		if segmentsIntersect(a, b, corners[i], corners[(i+1)%4]) {
			return true
		}
	}

	return false
}

// orientation returns the sign of the cross product (q-p)×(r-p):
// >0 counter-clockwise, <0 clockwise, 0 collinear.
func orientation(p, q, r Point2D) float64 {
	return (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
}

// segmentsIntersect reports whether segments p1–p2 and q1–q2 cross.
// Collinear overlap counts as blocked.
func segmentsIntersect(p1, p2, q1, q2 Point2D) bool {
	o1 := orientation(p1, p2, q1)
	o2 := orientation(p1, p2, q2)
	o3 := orientation(q1, q2, p1)
	o4 := orientation(q1, q2, p2)

	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}
	// Collinear endpoint-on-segment cases.
	if o1 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if o2 == 0 && onSegment(p1, p2, q2) {
		return true
	}
	if o3 == 0 && onSegment(q1, q2, p1) {
		return true
	}
	if o4 == 0 && onSegment(q1, q2, p2) {
		return true
	}

	return false
}

// onSegment reports whether r, known collinear with p–q, lies between them.
func onSegment(p, q, r Point2D) bool {
	return min(p.X, q.X) <= r.X && r.X <= max(p.X, q.X) &&
		min(p.Y, q.Y) <= r.Y && r.Y <= max(p.Y, q.Y)
}
