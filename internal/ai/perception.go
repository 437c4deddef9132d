package ai

import (
	"math"

	"github.com/udisondev/skirmish/internal/host"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

// View is the set of agent positions perception works against.
// During a tick it is the frame captured before any agent moved.
type View interface {
	Views(f model.Faction) []model.AgentView
}

// Selection is the outcome of target selection for one agent and one tick.
type Selection struct {
	Target   model.TargetRef
	Position model.Vec3
	Distance float64
	// Repel is set when pursuing an allied unit closer than MinAllyDistance.
	Repel bool
}

// Tracked reports whether a target was selected.
func (s Selection) Tracked() bool {
	return s.Target.IsSet()
}

// Perception finds and validates targets.
type Perception struct {
	registry *world.Registry
	players  host.PlayerSource
}

// NewPerception creates a perception module. players may be nil.
func NewPerception(registry *world.Registry, players host.PlayerSource) *Perception {
	if players == nil {
		players = host.Nop{}
	}
	return &Perception{registry: registry, players: players}
}

// FindNearestOpponent scans the opposing faction and returns the closest agent.
// Ties go to the first encountered. ok is false when the opposing set is empty.
func (p *Perception) FindNearestOpponent(agent *model.Agent, view View) (model.AgentView, float64, bool) {
	return nearestAgent(agent.Position, view.Views(agent.Faction.Opponent()))
}

// FindNearestPlayer returns the closest living player-controlled unit.
func (p *Perception) FindNearestPlayer(agent *model.Agent) (model.PlayerView, float64, bool) {
	var (
		best     model.PlayerView
		bestDist = math.Inf(1)
		found    bool
	)
	for _, pl := range p.players.Players() {
		if pl.Dead {
			continue
		}
		d := agent.Position.DistanceTo(pl.Position)
		if d < bestDist {
			best, bestDist, found = pl, d, true
		}
	}
	return best, bestDist, found
}

// InRange reports whether distance is within detection range.
func InRange(distance, detectionDistance float64) bool {
	return distance <= detectionDistance
}

// InShootingRange reports whether distance permits firing.
func InShootingRange(distance, shootingDistance float64) bool {
	return distance <= shootingDistance
}

// SelectTarget applies the targeting policy.
//
// Hostile agents: an allied (friendly-faction) unit strictly closer than the
// nearest player and within detection range wins; otherwise the player if
// within detection range; otherwise nothing (wander).
// Friendly agents only consider hostile agents.
func (p *Perception) SelectTarget(agent *model.Agent, view View) Selection {
	t := agent.Tunables

	opp, oppDist, oppOK := p.FindNearestOpponent(agent, view)

	if agent.Faction == model.FactionHostile {
		pl, plDist, plOK := p.FindNearestPlayer(agent)

		if oppOK && InRange(oppDist, t.DetectionDistance) && (!plOK || oppDist < plDist) {
			return Selection{
				Target:   model.TargetRef{Kind: model.TargetAgent, Faction: opp.Faction, ID: uint32(opp.ID)},
				Position: opp.Position,
				Distance: oppDist,
				Repel:    oppDist < t.MinAllyDistance,
			}
		}
		if plOK && InRange(plDist, t.DetectionDistance) {
			return Selection{
				Target:   model.TargetRef{Kind: model.TargetPlayer, ID: pl.ID},
				Position: pl.Position,
				Distance: plDist,
			}
		}
		return Selection{}
	}

	if oppOK && InRange(oppDist, t.DetectionDistance) {
		return Selection{
			Target:   model.TargetRef{Kind: model.TargetAgent, Faction: opp.Faction, ID: uint32(opp.ID)},
			Position: opp.Position,
			Distance: oppDist,
		}
	}
	return Selection{}
}

// Resolve looks a stored reference up again. ok is false when the target is gone,
// dead, or (for agents) not of the opposing faction.
func (p *Perception) Resolve(agent *model.Agent, ref model.TargetRef, view View) (model.Vec3, bool) {
	switch ref.Kind {
	case model.TargetAgent:
		if ref.Faction != agent.Faction.Opponent() {
			return model.Vec3{}, false
		}
		target, ok := p.registry.Get(ref.Faction, model.AgentID(ref.ID))
		if !ok || target.IsDead {
			return model.Vec3{}, false
		}
		// Prefer the frame position so every agent sees the same world this tick.
		for _, v := range view.Views(ref.Faction) {
			if v.ID == target.ID {
				return v.Position, true
			}
		}
		return target.Position, true

	case model.TargetPlayer:
		if agent.Faction != model.FactionHostile {
			return model.Vec3{}, false
		}
		for _, pl := range p.players.Players() {
			if pl.ID == ref.ID && !pl.Dead {
				return pl.Position, true
			}
		}
	}
	return model.Vec3{}, false
}

func nearestAgent(from model.Vec3, candidates []model.AgentView) (model.AgentView, float64, bool) {
	var (
		best     model.AgentView
		bestDist = math.Inf(1)
		found    bool
	)
	for _, c := range candidates {
		d := from.DistanceTo(c.Position)
		if d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, bestDist, found
}
