package geo

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/paulmach/orb"

	"github.com/udisondev/skirmish/internal/model"
)

// ErrDegenerateRay is returned for rays with no direction or no length.
var ErrDegenerateRay = errors.New("degenerate ray")

// geometry is an immutable obstacle set. Swapped atomically on reload.
type geometry struct {
	arena     orb.Bound
	hasArena  bool
	obstacles []Obstacle
}

// Engine answers ray queries against static obstacle geometry.
// Thread-safe: geometry is loaded once per Load and never modified in place.
type Engine struct {
	geom atomic.Pointer[geometry]
}

// NewEngine creates an empty Engine (no arena, no obstacles).
func NewEngine() *Engine {
	e := &Engine{}
	e.geom.Store(&geometry{})
	return e
}

// Load replaces the world geometry. A zero arena bound means unbounded.
func (e *Engine) Load(arena orb.Bound, obstacles []Obstacle) error {
	g := &geometry{
		arena:     arena,
		hasArena:  arena.Max != arena.Min,
		obstacles: make([]Obstacle, 0, len(obstacles)),
	}
	if g.hasArena && (arena.Max[0] <= arena.Min[0] || arena.Max[1] <= arena.Min[1]) {
		return fmt.Errorf("arena bound %v is inverted", arena)
	}

	for _, o := range obstacles {
		if len(o.Footprint) == 0 {
			return fmt.Errorf("obstacle %q has no footprint", o.Name)
		}
		if o.bound.IsEmpty() {
			o.bound = o.Footprint.Bound()
		}
		g.obstacles = append(g.obstacles, o)
	}

	e.geom.Store(g)
	slog.Info("world geometry loaded",
		"obstacles", len(g.obstacles),
		"bounded", g.hasArena)
	return nil
}

// IsLoaded returns true if any geometry (arena or obstacles) is present.
func (e *Engine) IsLoaded() bool {
	g := e.geom.Load()
	return g.hasArena || len(g.obstacles) > 0
}

// Obstacles returns the number of loaded obstacles.
func (e *Engine) Obstacles() int {
	return len(e.geom.Load().obstacles)
}

// Cast reports whether a ray from origin along direction hits geometry within maxDistance.
// Leaving the arena counts as a hit. Only obstacles whose height band contains
// origin.Y are considered (rays are horizontal probes).
func (e *Engine) Cast(origin, direction model.Vec3, maxDistance float64) (bool, error) {
	if maxDistance <= 0 || math.IsNaN(maxDistance) {
		return false, fmt.Errorf("cast length %v: %w", maxDistance, ErrDegenerateRay)
	}
	dir := direction.Flat().Normalize()
	if dir.IsZero() {
		return false, fmt.Errorf("cast direction %v: %w", direction, ErrDegenerateRay)
	}

	g := e.geom.Load()
	if !g.hasArena && len(g.obstacles) == 0 {
		return false, nil // No geometry: nothing to hit
	}

	end := origin.Add(dir.Scale(min(maxDistance, MaxRayDistance)))
	a := orb.Point{origin.X, origin.Z}
	b := orb.Point{end.X, end.Z}

	if g.hasArena && (!g.arena.Contains(a) || !g.arena.Contains(b)) {
		return true, nil
	}

	rayBound := orb.Bound{Min: a, Max: a}.Extend(b)
	for i := range g.obstacles {
		o := &g.obstacles[i]
		if !o.spansHeight(origin.Y) || !o.bound.Intersects(rayBound) {
			continue
		}
		if o.contains(a) || o.contains(b) || o.crosses(a, b) {
			return true, nil
		}
	}

	return false, nil
}

// Blocked reports whether an XZ position lies inside an obstacle at height y
// or outside the arena.
func (e *Engine) Blocked(p model.Vec3) bool {
	g := e.geom.Load()
	pt := orb.Point{p.X, p.Z}
	if g.hasArena && !g.arena.Contains(pt) {
		return true
	}
	for i := range g.obstacles {
		o := &g.obstacles[i]
		if o.spansHeight(p.Y) && o.contains(pt) {
			return true
		}
	}
	return false
}
