package ai

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/udisondev/skirmish/internal/host"
	"github.com/udisondev/skirmish/internal/model"
)

// Teleport recovery parameters.
const (
	teleportAttempts     = 10
	teleportRandomWeight = 0.7
	teleportTargetWeight = 0.3
	teleportMinDistance  = 5.0
	teleportMaxDistance  = 15.0
)

// probeDirections are the 8 directions (cardinal + diagonal) used to validate
// a teleport destination.
var probeDirections = func() [8]model.Vec3 {
	var dirs [8]model.Vec3
	for i := range dirs {
		dirs[i] = model.FromAngle(float64(i) * math.Pi / 4)
	}
	return dirs
}()

// NavigationGuard turns a desired velocity into a validated position change.
type NavigationGuard struct {
	caster host.RayCaster
	rng    *rand.Rand
}

// NewNavigationGuard creates a guard over the world's ray caster.
func NewNavigationGuard(caster host.RayCaster, rng *rand.Rand) *NavigationGuard {
	if caster == nil {
		caster = host.Nop{}
	}
	return &NavigationGuard{caster: caster, rng: rng}
}

// blocked casts a ray; query failures count as clear so agents never freeze.
func (g *NavigationGuard) blocked(origin, dir model.Vec3, length float64) bool {
	hit, err := g.caster.Cast(origin, dir, length)
	if err != nil {
		if IsDebugEnabled() {
			slog.Debug("ray cast failed, treating as clear",
				"origin", origin,
				"dir", dir,
				"length", length,
				"err", err)
		}
		return false
	}
	return hit
}

// Move applies the agent's velocity to its position.
// A clear forward probe moves the full step; otherwise the X and Z components
// are probed separately and one clear component is applied, so agents slide
// along walls. Y is always pinned to the spawn plane.
// Returns true if the agent moved.
func (g *NavigationGuard) Move(a *model.Agent) bool {
	v := a.Velocity.Flat()
	defer func() { a.Position.Y = a.SpawnHeight }()

	speed := v.Len()
	if speed < movingEpsilon {
		return false
	}

	origin := a.ProbeOrigin()
	margin := a.Tunables.CollisionMargin

	if !g.blocked(origin, v.Direction(), speed+margin) {
		a.Position = a.Position.Add(v)
		return true
	}

	clearX := math.Abs(v.X) > movingEpsilon &&
		!g.blocked(origin, model.Vec3{X: math.Copysign(1, v.X)}, math.Abs(v.X)+margin)
	clearZ := math.Abs(v.Z) > movingEpsilon &&
		!g.blocked(origin, model.Vec3{Z: math.Copysign(1, v.Z)}, math.Abs(v.Z)+margin)

	// Both axes clear means a corner: the combined step is the one the
	// forward ray rejected, so slide along the dominant axis only.
	if clearX && clearZ {
		if math.Abs(v.X) >= math.Abs(v.Z) {
			clearZ = false
		} else {
			clearX = false
		}
	}
	if clearX {
		a.Position.X += v.X
	}
	if clearZ {
		a.Position.Z += v.Z
	}
	moved := clearX || clearZ

	if !moved && IsDebugEnabled() {
		slog.Debug("agent blocked",
			"agentID", a.ID,
			"pos", a.Position,
			"velocity", v)
	}
	return moved
}

// CheckStuck samples the agent's displacement every StuckCheckInterval ticks
// and teleports it once StuckCounter reaches TeleportAfterStuckCount.
// target is the direction hint for recovery (hasTarget false: random only).
// Returns true if a teleport happened. Must be called once per tick after
// FrameCounter was advanced.
func (g *NavigationGuard) CheckStuck(a *model.Agent, target model.Vec3, hasTarget bool) bool {
	t := a.Tunables
	if t.StuckCheckInterval <= 0 || a.FrameCounter%t.StuckCheckInterval != 0 {
		return false
	}

	prev, ok := a.Recent.Last()
	a.Recent.Push(a.Position)
	if !ok {
		return false
	}

	if a.Position.Sub(prev).Flat().Len() < t.StuckThreshold {
		a.StuckCounter++
	} else {
		a.StuckCounter = 0
	}

	if a.StuckCounter < t.TeleportAfterStuckCount {
		return false
	}

	if !g.Teleport(a, target, hasTarget) {
		// Counter stays at the threshold; the next check retries.
		a.StuckCounter = t.TeleportAfterStuckCount
		slog.Warn("stuck agent found no safe teleport position",
			"agentID", a.ID,
			"pos", a.Position,
			"attempts", teleportAttempts)
		return false
	}
	return true
}

// Teleport tries up to 10 candidate positions biased toward the target and
// snaps the agent to the first one whose 8-direction probe is clear.
// On success velocity and StuckCounter are zeroed and the sample history restarts.
func (g *NavigationGuard) Teleport(a *model.Agent, target model.Vec3, hasTarget bool) bool {
	var toTarget model.Vec3
	if hasTarget {
		toTarget = target.Sub(a.Position).Flat().Normalize()
	}

	for attempt := range teleportAttempts {
		random := model.FromAngle(g.rng.Float64() * 2 * math.Pi)
		dir := random.Scale(teleportRandomWeight).Add(toTarget.Scale(teleportTargetWeight)).Direction()
		dist := teleportMinDistance + g.rng.Float64()*(teleportMaxDistance-teleportMinDistance)

		candidate := a.Position.Add(dir.Scale(dist))
		candidate.Y = a.SpawnHeight

		if !g.IsClear(candidate, a.Tunables) {
			continue
		}

		from := a.Position
		a.Position = candidate
		a.Velocity = model.Vec3{}
		a.StuckCounter = 0
		a.Recent.Reset()
		a.Recent.Push(candidate)

		slog.Info("stuck agent teleported",
			"agentID", a.ID,
			"from", from,
			"to", candidate,
			"attempt", attempt+1)
		return true
	}
	return false
}

// IsClear probes 8 directions around pos at body half-height.
func (g *NavigationGuard) IsClear(pos model.Vec3, t model.Tunables) bool {
	origin := pos
	origin.Y += t.Height / 2
	for _, dir := range probeDirections {
		if g.blocked(origin, dir, t.ProbeRadius) {
			return false
		}
	}
	return true
}
