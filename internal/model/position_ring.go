package model

// PositionRingSize is the number of recent position samples kept per agent.
const PositionRingSize = 8

// PositionRing is a fixed-size ring buffer of recent position samples.
// Zero value is an empty ring.
type PositionRing struct {
	buf  [PositionRingSize]Vec3
	head int // next write index
	size int
}

// Push records a sample, overwriting the oldest when full.
func (r *PositionRing) Push(p Vec3) {
	r.buf[r.head] = p
	r.head = (r.head + 1) % PositionRingSize
	if r.size < PositionRingSize {
		r.size++
	}
}

// Last returns the most recent sample.
func (r *PositionRing) Last() (Vec3, bool) {
	if r.size == 0 {
		return Vec3{}, false
	}
	return r.buf[(r.head-1+PositionRingSize)%PositionRingSize], true
}

// Len returns the number of stored samples.
func (r *PositionRing) Len() int {
	return r.size
}

// Samples returns stored samples from oldest to newest.
func (r *PositionRing) Samples() []Vec3 {
	out := make([]Vec3, 0, r.size)
	start := (r.head - r.size + PositionRingSize) % PositionRingSize
	for i := range r.size {
		out = append(out, r.buf[(start+i)%PositionRingSize])
	}
	return out
}

// Reset clears all samples.
func (r *PositionRing) Reset() {
	*r = PositionRing{}
}
