package geo

import "github.com/paulmach/orb"

// cross returns the z component of (b-a) × (c-a).
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func sign(v float64) int {
	switch {
	case v > segmentEpsilon:
		return 1
	case v < -segmentEpsilon:
		return -1
	default:
		return 0
	}
}

// onSegment reports whether c (collinear with a-b) lies within the segment's box.
func onSegment(a, b, c orb.Point) bool {
	return min(a[0], b[0])-segmentEpsilon <= c[0] && c[0] <= max(a[0], b[0])+segmentEpsilon &&
		min(a[1], b[1])-segmentEpsilon <= c[1] && c[1] <= max(a[1], b[1])+segmentEpsilon
}

// segmentsIntersect reports whether segments p1-p2 and q1-q2 touch or cross.
func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := sign(cross(q1, q2, p1))
	d2 := sign(cross(q1, q2, p2))
	d3 := sign(cross(p1, p2, q1))
	d4 := sign(cross(p1, p2, q2))

	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}

	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}
