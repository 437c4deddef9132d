// Package host declares the contracts the agent simulation consumes from the
// surrounding game: geometry queries, animation, projectiles, presentation and
// progression events. Every contract has a no-op implementation so the core can
// run headless.
package host

import (
	"time"

	"github.com/udisondev/skirmish/internal/model"
)

// PlayerSource reports player-controlled units (read-only).
type PlayerSource interface {
	Players() []model.PlayerView
}

// RayCaster answers ray-vs-geometry queries.
// A returned error means the query failed; callers treat it as "no obstruction".
type RayCaster interface {
	Cast(origin, direction model.Vec3, maxDistance float64) (bool, error)
}

// Animator plays animation clips on an agent's visual.
type Animator interface {
	// ResolveClip maps a logical slot to a concrete clip. Called once per slot at spawn.
	ResolveClip(id model.AgentID, state model.ClipState) (model.Clip, bool)
	// Play starts a clip. onDone (may be nil) fires when a non-looping clip completes.
	Play(id model.AgentID, clip model.Clip, loop bool, onDone func()) error
	// StopAll stops every clip playing on the agent.
	StopAll(id model.AgentID)
}

// Presenter owns the agent's render resources.
type Presenter interface {
	// FadeOut starts the death transition; onDone fires when it completes.
	FadeOut(id model.AgentID, onDone func())
	// Release frees the agent's render resources.
	Release(id model.AgentID)
}

// ProjectileSpawner launches projectiles into the world.
type ProjectileSpawner interface {
	SpawnProjectile(origin, direction model.Vec3, faction model.Faction)
}

// DeathEvent is emitted exactly once per agent death.
type DeathEvent struct {
	AgentID   model.AgentID
	Faction   model.Faction
	Archetype string
	Position  model.Vec3
	At        time.Time
}

// EventSink receives progression events.
type EventSink interface {
	OnAgentDied(ev DeathEvent)
}

// Nop implements every contract and does nothing.
// ResolveClip reports no clips, Cast reports no hits.
type Nop struct{}

var (
	_ PlayerSource      = Nop{}
	_ RayCaster         = Nop{}
	_ Animator          = Nop{}
	_ Presenter         = Nop{}
	_ ProjectileSpawner = Nop{}
	_ EventSink         = Nop{}
)

func (Nop) Players() []model.PlayerView { return nil }

func (Nop) Cast(model.Vec3, model.Vec3, float64) (bool, error) { return false, nil }

func (Nop) ResolveClip(model.AgentID, model.ClipState) (model.Clip, bool) {
	return model.Clip{}, false
}

func (Nop) Play(model.AgentID, model.Clip, bool, func()) error { return nil }

func (Nop) StopAll(model.AgentID) {}

// FadeOut completes immediately.
func (Nop) FadeOut(_ model.AgentID, onDone func()) {
	if onDone != nil {
		onDone()
	}
}

func (Nop) Release(model.AgentID) {}

func (Nop) SpawnProjectile(model.Vec3, model.Vec3, model.Faction) {}

func (Nop) OnAgentDied(DeathEvent) {}

// StaticPlayers is a fixed PlayerSource, handy for headless runs and tests.
type StaticPlayers []model.PlayerView

func (s StaticPlayers) Players() []model.PlayerView { return s }

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(DeathEvent)

func (f EventSinkFunc) OnAgentDied(ev DeathEvent) { f(ev) }
