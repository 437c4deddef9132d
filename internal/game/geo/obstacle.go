package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Obstacle is a vertical prism: a footprint on the XZ plane extruded between MinY and MaxY.
// Footprint points are orb.Point{x, z}.
type Obstacle struct {
	Name      string
	Footprint orb.Polygon
	MinY      float64
	MaxY      float64

	bound orb.Bound
}

// NewObstacle builds an obstacle from a closed or open footprint ring.
func NewObstacle(name string, ring orb.Ring, minY, maxY float64) (Obstacle, error) {
	if len(ring) < 3 {
		return Obstacle{}, fmt.Errorf("obstacle %q: footprint needs at least 3 points, got %d", name, len(ring))
	}
	if maxY <= minY {
		return Obstacle{}, fmt.Errorf("obstacle %q: max_y %v must exceed min_y %v", name, maxY, minY)
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}

	poly := orb.Polygon{ring}
	return Obstacle{
		Name:      name,
		Footprint: poly,
		MinY:      minY,
		MaxY:      maxY,
		bound:     poly.Bound(),
	}, nil
}

// NewBox builds an axis-aligned box obstacle.
func NewBox(name string, minX, minZ, maxX, maxZ, minY, maxY float64) (Obstacle, error) {
	b := orb.Bound{Min: orb.Point{minX, minZ}, Max: orb.Point{maxX, maxZ}}
	return NewObstacle(name, b.ToRing(), minY, maxY)
}

// Bound returns the footprint bounding box.
func (o Obstacle) Bound() orb.Bound {
	return o.bound
}

// spansHeight reports whether a horizontal ray at y can hit the obstacle.
func (o Obstacle) spansHeight(y float64) bool {
	return y >= o.MinY && y <= o.MaxY
}

// contains reports whether an XZ point lies inside the footprint.
func (o Obstacle) contains(p orb.Point) bool {
	if !o.bound.Contains(p) {
		return false
	}
	return planar.PolygonContains(o.Footprint, p)
}

// crosses reports whether segment a→b intersects any footprint edge.
func (o Obstacle) crosses(a, b orb.Point) bool {
	for _, ring := range o.Footprint {
		for i := 0; i+1 < len(ring); i++ {
			if segmentsIntersect(a, b, ring[i], ring[i+1]) {
				return true
			}
		}
	}
	return false
}
