package combat

import (
	"log/slog"
	"time"

	"github.com/udisondev/skirmish/internal/host"
	"github.com/udisondev/skirmish/internal/model"
)

// Controller drives cooldown-gated ranged attacks.
type Controller struct {
	anim        *Animations
	projectiles host.ProjectileSpawner
}

// NewController creates a combat controller. projectiles may be nil.
func NewController(anim *Animations, projectiles host.ProjectileSpawner) *Controller {
	if projectiles == nil {
		projectiles = host.Nop{}
	}
	return &Controller{anim: anim, projectiles: projectiles}
}

// CanShoot reports whether the shoot cooldown has elapsed.
func CanShoot(a *model.Agent, now time.Time) bool {
	if a.LastShootTime.IsZero() {
		return true
	}
	return now.Sub(a.LastShootTime) >= a.Tunables.ShootCooldown
}

// TryShoot fires at targetPos if the cooldown has elapsed.
// The agent turns to face the target, enters Shooting, plays the shoot clip
// (returning to Pursuing or Wander when it completes) and spawns a projectile
// from the muzzle. Returns false without side effects while on cooldown.
func (c *Controller) TryShoot(a *model.Agent, targetPos model.Vec3, now time.Time) bool {
	if a.IsDead || !CanShoot(a, now) {
		return false
	}

	t := a.Tunables
	dir := targetPos.Sub(a.Position).Flat().Direction()

	a.Yaw = dir.Yaw()
	a.State = model.StateShooting
	a.LastShootTime = now

	if !c.anim.Play(a, model.ClipShoot, false, func() { c.finishShot(a, now) }) {
		c.finishShot(a, now)
	}

	origin := a.Position.Add(model.Vec3{Y: t.MuzzleHeight}).Add(dir.Scale(t.MuzzleOffset))
	c.projectiles.SpawnProjectile(origin, dir, a.Faction)

	slog.Debug("agent fired",
		"agentID", a.ID,
		"faction", a.Faction,
		"target", a.Target.ID,
		"origin", origin)
	return true
}

// finishShot leaves the Shooting state once the clip of the shot fired at
// shotAt is over. Completions of superseded shots are ignored.
func (c *Controller) finishShot(a *model.Agent, shotAt time.Time) {
	if a.IsDead || a.State != model.StateShooting || !a.LastShootTime.Equal(shotAt) {
		return
	}
	if a.Target.IsSet() {
		a.State = model.StatePursuing
	} else {
		a.State = model.StateWander
	}
	c.anim.Resume(a)
}
