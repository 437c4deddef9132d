package combat

import (
	"log/slog"
	"time"

	"github.com/udisondev/skirmish/internal/host"
	"github.com/udisondev/skirmish/internal/model"
)

// Unregisterer removes dead agents from the live set.
// Satisfied by *world.Registry.
type Unregisterer interface {
	Unregister(a *model.Agent) bool
}

// Health applies damage and runs the death transition.
type Health struct {
	registry  Unregisterer
	anim      *Animations
	presenter host.Presenter
	events    host.EventSink
}

// NewHealth creates the health model. presenter and events may be nil.
func NewHealth(registry Unregisterer, anim *Animations, presenter host.Presenter, events host.EventSink) *Health {
	if presenter == nil {
		presenter = host.Nop{}
	}
	if events == nil {
		events = host.Nop{}
	}
	return &Health{
		registry:  registry,
		anim:      anim,
		presenter: presenter,
		events:    events,
	}
}

// TakeDamage applies amount to the agent at time now.
// Silently ignored when the agent is dead or still inside its hit-recovery
// window. Sets the transient IsHit flag and kills the agent when health
// reaches zero. Returns true if the damage was applied.
func (h *Health) TakeDamage(a *model.Agent, amount int32, now time.Time) bool {
	if a.IsDead {
		return false
	}
	if !a.LastHitTime.IsZero() && now.Sub(a.LastHitTime) < a.Tunables.HitRecoveryTime {
		return false
	}

	a.CurrentHealth -= amount
	a.LastHitTime = now
	a.IsHit = true

	slog.Debug("agent hit",
		"agentID", a.ID,
		"damage", amount,
		"health", a.CurrentHealth,
		"maxHealth", a.Tunables.MaxHealth)

	if a.CurrentHealth <= 0 {
		h.die(a, now)
	}
	return true
}

// ClearHit drops the IsHit overlay once the recovery window has passed.
func (h *Health) ClearHit(a *model.Agent, now time.Time) {
	if a.IsHit && now.Sub(a.LastHitTime) >= a.Tunables.HitRecoveryTime {
		a.IsHit = false
	}
}

// Die kills the agent. Returns true if this call performed the death
// (first caller wins); subsequent calls are ignored.
func (h *Health) Die(a *model.Agent, now time.Time) bool {
	return h.die(a, now)
}

func (h *Health) die(a *model.Agent, now time.Time) bool {
	if a.IsDead {
		return false
	}

	a.IsDead = true
	a.State = model.StateDead
	a.Velocity = model.Vec3{}
	a.Target = model.TargetRef{}

	h.registry.Unregister(a)
	h.anim.StopAll(a)

	id := a.ID
	h.presenter.FadeOut(id, func() { h.presenter.Release(id) })

	h.events.OnAgentDied(host.DeathEvent{
		AgentID:   id,
		Faction:   a.Faction,
		Archetype: a.Archetype,
		Position:  a.Position,
		At:        now,
	})

	slog.Info("agent died",
		"agentID", id,
		"faction", a.Faction,
		"archetype", a.Archetype)
	return true
}

// Despawn removes the agent without a death event (level teardown).
// Render resources are released immediately. Idempotent.
func (h *Health) Despawn(a *model.Agent) bool {
	if a.IsDead {
		return false
	}

	a.IsDead = true
	a.State = model.StateDead
	a.Velocity = model.Vec3{}
	a.Target = model.TargetRef{}

	h.registry.Unregister(a)
	h.anim.StopAll(a)
	h.presenter.Release(a.ID)
	return true
}
