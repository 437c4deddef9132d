package model

import "time"

// AgentID identifies an agent for its whole lifetime. Never reused.
type AgentID uint32

// TargetKind says where a TargetRef resolves.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetAgent
	TargetPlayer
)

func (k TargetKind) String() string {
	switch k {
	case TargetAgent:
		return "agent"
	case TargetPlayer:
		return "player"
	default:
		return "none"
	}
}

// TargetRef is a non-owning reference to the current target.
// Resolved through the registry (or player source) every tick; never a pointer,
// so a dead target cannot be kept alive by its pursuer.
type TargetRef struct {
	Kind    TargetKind
	Faction Faction
	ID      uint32
}

// IsSet reports whether the reference points at anything.
func (r TargetRef) IsSet() bool {
	return r.Kind != TargetNone
}

// AgentView is a read-only copy of an agent's position, taken once per tick.
type AgentView struct {
	ID       AgentID
	Faction  Faction
	Position Vec3
}

// PlayerView is a player-controlled unit as reported by the host.
type PlayerView struct {
	ID       uint32
	Position Vec3
	Yaw      float64
	Dead     bool
}

// Agent is an autonomous hostile or friendly unit.
// Owned and mutated only by the simulation tick.
type Agent struct {
	ID        AgentID
	Faction   Faction
	Archetype string

	// Transform
	Position    Vec3
	Yaw         float64
	SpawnHeight float64 // y plane the agent is pinned to
	Velocity    Vec3    // y always 0

	Tunables Tunables

	// Steering state
	WanderAngle    float64
	FormationAngle float64

	// Combat
	LastShootTime time.Time

	// Health
	CurrentHealth int32
	IsDead        bool
	IsHit         bool
	LastHitTime   time.Time

	// Navigation bookkeeping
	Recent       PositionRing
	StuckCounter int
	FrameCounter int

	State      AgentState
	Locomotion ClipState // looping clip currently playing (idle/run)
	Target     TargetRef

	// Clips maps logical animation slots to host clips, resolved at spawn.
	Clips        map[ClipState]Clip
	missingClips uint8
}

// NewAgent creates a live agent at position with full health.
func NewAgent(id AgentID, faction Faction, archetype string, position Vec3, tunables Tunables) *Agent {
	a := &Agent{
		ID:            id,
		Faction:       faction,
		Archetype:     archetype,
		Position:      position,
		SpawnHeight:   position.Y,
		Tunables:      tunables,
		CurrentHealth: tunables.MaxHealth,
		State:         StateWander,
		Locomotion:    ClipIdle,
		Clips:         make(map[ClipState]Clip, len(ClipStates)),
	}
	a.Recent.Push(position)
	return a
}

// View returns the agent's read-only position snapshot.
func (a *Agent) View() AgentView {
	return AgentView{ID: a.ID, Faction: a.Faction, Position: a.Position}
}

// IsAlive reports whether the agent still takes part in the simulation.
func (a *Agent) IsAlive() bool {
	return !a.IsDead
}

// Speed returns the current velocity magnitude.
func (a *Agent) Speed() float64 {
	return a.Velocity.Len()
}

// ProbeOrigin returns the point rays are cast from (half the agent's height).
func (a *Agent) ProbeOrigin() Vec3 {
	p := a.Position
	p.Y = a.SpawnHeight + a.Tunables.Height/2
	return p
}

// Clip returns the host clip for a logical slot.
func (a *Agent) Clip(state ClipState) (Clip, bool) {
	c, ok := a.Clips[state]
	return c, ok
}

// MarkClipMissing records that a missing clip was reported.
// Returns true the first time for each slot so the warning is logged once.
func (a *Agent) MarkClipMissing(state ClipState) bool {
	bit := uint8(1) << state
	if a.missingClips&bit != 0 {
		return false
	}
	a.missingClips |= bit
	return true
}
