package ai

import (
	"math"
	"math/rand/v2"

	"github.com/udisondev/skirmish/internal/model"
)

const (
	// seekDeadZone: closer than this the seek force is zero.
	seekDeadZone = 0.1

	// movingEpsilon: velocities shorter than this have no usable heading.
	movingEpsilon = 1e-3
)

// Seek steers toward targetPos with a three-tier ease:
// inside keepDistance and inside arriveRadius the desired speed scales down
// linearly with distance, otherwise it is maxSpeed.
// The result never exceeds maxForce and is zero inside the dead zone.
func Seek(current, targetPos, velocity model.Vec3, maxSpeed, maxForce, keepDistance, arriveRadius float64) model.Vec3 {
	offset := targetPos.Sub(current).Flat()
	dist := offset.Len()
	if dist < seekDeadZone {
		return model.Vec3{}
	}

	speed := maxSpeed
	switch {
	case keepDistance > 0 && dist < keepDistance:
		speed = maxSpeed * (dist / keepDistance)
	case arriveRadius > 0 && dist < arriveRadius:
		speed = maxSpeed * (dist / arriveRadius)
	}

	desired := offset.Direction().Scale(speed)
	return desired.Sub(velocity.Flat()).ClampLen(maxForce)
}

// Separate pushes an agent away from same-faction neighbours closer than
// desiredSeparation. Each neighbour contributes along (self − neighbour) with
// inverse-square weight; the average is turned into a steering force at
// maxSpeed and clamped to forceScale × maxForce.
// Returns zero when no neighbour qualifies.
func Separate(self model.AgentView, velocity model.Vec3, neighbors []model.AgentView, desiredSeparation, maxSpeed, maxForce, forceScale float64) model.Vec3 {
	var sum model.Vec3
	count := 0

	for _, n := range neighbors {
		if n.ID == self.ID {
			continue
		}
		away := self.Position.Sub(n.Position).Flat()
		d := away.Len()
		if d >= desiredSeparation {
			continue
		}
		// Coincident agents still repel along a fixed heading instead of dividing by zero.
		d = max(d, seekDeadZone)
		sum = sum.Add(away.Direction().Scale(1 / (d * d)))
		count++
	}

	if count == 0 {
		return model.Vec3{}
	}

	avg := sum.Scale(1 / float64(count))
	if avg.IsZero() {
		return model.Vec3{}
	}

	desired := avg.Direction().Scale(maxSpeed)
	return desired.Sub(velocity.Flat()).ClampLen(forceScale * maxForce)
}

// Wander projects a circle wanderDistance ahead of the current heading
// (Forward when standing still), jitters wanderAngle by up to ±wanderChange
// and returns center + point-on-circle clamped to maxForce, plus the new angle.
func Wander(velocity model.Vec3, wanderAngle, wanderDistance, wanderRadius, wanderChange, maxForce float64, rng *rand.Rand) (model.Vec3, float64) {
	heading := model.Forward
	if v := velocity.Flat(); v.Len() > movingEpsilon {
		heading = v.Direction()
	}

	angle := wanderAngle + (rng.Float64()*2-1)*wanderChange
	angle = math.Remainder(angle, 2*math.Pi)

	center := heading.Scale(wanderDistance)
	displacement := model.FromAngle(angle).Scale(wanderRadius)

	return center.Add(displacement).ClampLen(maxForce), angle
}

// Repel pushes away from a target that is closer than minDistance,
// growing linearly to maxForce at zero distance.
func Repel(current, targetPos model.Vec3, minDistance, maxForce float64) model.Vec3 {
	away := current.Sub(targetPos).Flat()
	d := away.Len()
	if minDistance <= 0 || d >= minDistance {
		return model.Vec3{}
	}
	return away.Direction().Scale(maxForce * (1 - d/minDistance))
}

// BlendTracked combines pursuit and separation for an agent with a target.
func BlendTracked(pursuit, separation model.Vec3, t model.Tunables) model.Vec3 {
	return pursuit.Scale(t.PursuitWeight).Add(separation.Scale(t.SeparationWeight))
}

// BlendWander weights the wander force for an agent without a target.
func BlendWander(wander model.Vec3, t model.Tunables) model.Vec3 {
	return wander.Scale(t.WanderWeight)
}

// Integrate applies exponential smoothing of force into velocity,
// clamps to maxSpeed and zeroes the vertical component.
func Integrate(velocity, force model.Vec3, smoothing, maxSpeed float64) model.Vec3 {
	v := velocity.Scale(1 - smoothing).Add(force.Scale(smoothing))
	v.Y = 0
	if math.IsNaN(v.X) || math.IsNaN(v.Z) {
		return model.Vec3{}
	}
	return v.ClampLen(maxSpeed)
}
