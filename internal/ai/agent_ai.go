package ai

import (
	"log/slog"
	"math/rand/v2"
	"time"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/model"
)

// deps are the shared components every AgentAI uses. Owned by the Manager.
type deps struct {
	perception *Perception
	guard      *NavigationGuard
	combat     *combat.Controller
	health     *combat.Health
	anim       *combat.Animations
	rng        *rand.Rand
}

// AgentAI implements Controller for one agent as a behavior tree:
//
//	sequence(
//	    alive, perceive,
//	    selector(sequence(tracking, pursue), wander),
//	    navigate,
//	    selector(sequence(tracking, inShootingRange, shoot), succeed),
//	)
type AgentAI struct {
	agent *model.Agent
	deps  *deps
	tree  bt.Node

	// Per-tick scratch, valid only inside Tick.
	frame *Frame
	now   time.Time
	sel   Selection
}

var _ Controller = (*AgentAI)(nil)

func newAgentAI(a *model.Agent, d *deps) *AgentAI {
	ai := &AgentAI{agent: a, deps: d}
	ai.tree = ai.buildTree()
	return ai
}

func (ai *AgentAI) buildTree() bt.Node {
	tracking := bt.New(ai.tracking)
	return bt.New(
		bt.Sequence,
		bt.New(ai.alive),
		bt.New(ai.perceive),
		bt.New(
			bt.Selector,
			bt.New(bt.Sequence, tracking, bt.New(ai.pursue)),
			bt.New(ai.wander),
		),
		bt.New(ai.navigate),
		bt.New(
			bt.Selector,
			bt.New(bt.Sequence, tracking, bt.New(ai.inShootingRange), bt.New(ai.shoot)),
			bt.New(succeed),
		),
	)
}

// Agent returns the controlled agent.
func (ai *AgentAI) Agent() *model.Agent {
	return ai.agent
}

// CurrentState returns the agent's behavior state.
func (ai *AgentAI) CurrentState() model.AgentState {
	return ai.agent.State
}

// Tick runs the behavior tree once.
func (ai *AgentAI) Tick(frame *Frame, now time.Time) {
	ai.frame, ai.now, ai.sel = frame, now, Selection{}
	defer func() { ai.frame = nil }()

	if _, err := ai.tree.Tick(); err != nil {
		slog.Warn("agent tick failed",
			"agentID", ai.agent.ID,
			"err", err)
	}
}

// setState records a state transition (Shooting is left only by clip completion).
func (ai *AgentAI) setState(s model.AgentState) {
	a := ai.agent
	if a.State == s || a.State == model.StateDead {
		return
	}
	if a.State == model.StateShooting && s != model.StateDead {
		return
	}
	if IsDebugEnabled() {
		slog.Debug("agent state changed",
			"agentID", a.ID,
			"from", a.State,
			"to", s)
	}
	a.State = s
}

func (ai *AgentAI) alive([]bt.Node) (bt.Status, error) {
	if ai.agent.IsDead {
		return bt.Failure, nil
	}
	return bt.Success, nil
}

// perceive re-resolves the stored target, drops it when stale, and selects
// this tick's target. A still-valid agent target is kept when the new pick is
// no closer, so agents do not flip between equidistant opponents.
func (ai *AgentAI) perceive([]bt.Node) (bt.Status, error) {
	a := ai.agent
	p := ai.deps.perception

	var (
		held    model.Vec3
		holding bool
	)
	if a.Target.IsSet() {
		held, holding = p.Resolve(a, a.Target, ai.frame)
		if !holding {
			if IsDebugEnabled() {
				slog.Debug("agent lost target",
					"agentID", a.ID,
					"target", a.Target.ID,
					"kind", a.Target.Kind)
			}
			a.Target = model.TargetRef{}
		}
	}

	ai.sel = p.SelectTarget(a, ai.frame)
	if holding && a.Target.Kind == model.TargetAgent &&
		ai.sel.Target.Kind == model.TargetAgent && ai.sel.Target != a.Target {
		if d := a.Position.DistanceTo(held); d <= ai.sel.Distance {
			ai.sel.Target = a.Target
			ai.sel.Position = held
			ai.sel.Distance = d
			ai.sel.Repel = a.Faction == model.FactionHostile && d < a.Tunables.MinAllyDistance
		}
	}
	a.Target = ai.sel.Target

	if ai.sel.Tracked() {
		ai.setState(model.StatePursuing)
	} else {
		ai.setState(model.StateWander)
	}
	return bt.Success, nil
}

func (ai *AgentAI) tracking([]bt.Node) (bt.Status, error) {
	if ai.sel.Tracked() {
		return bt.Success, nil
	}
	return bt.Failure, nil
}

// pursue blends seek toward the (formation-offset) target with separation.
func (ai *AgentAI) pursue([]bt.Node) (bt.Status, error) {
	a := ai.agent
	t := a.Tunables

	goal := ai.sel.Position
	if t.FormationSpread > 0 && !ai.sel.Repel {
		goal = goal.Add(model.FromAngle(a.FormationAngle).Scale(t.FormationSpread))
	}

	pursuit := Seek(a.Position, goal, a.Velocity, t.MaxSpeed, t.MaxForce, t.KeepDistance, t.ArriveRadius)
	separation := Separate(a.View(), a.Velocity, ai.frame.Views(a.Faction),
		t.DesiredSeparation, t.MaxSpeed, t.MaxForce, t.SeparationForceScale)

	force := BlendTracked(pursuit, separation, t)
	if ai.sel.Repel {
		force = force.Add(Repel(a.Position, ai.sel.Position, t.MinAllyDistance, t.MaxForce))
	}

	a.Velocity = Integrate(a.Velocity, force, t.SmoothingFactor, t.MaxSpeed)
	return bt.Success, nil
}

func (ai *AgentAI) wander([]bt.Node) (bt.Status, error) {
	a := ai.agent
	t := a.Tunables

	force, angle := Wander(a.Velocity, a.WanderAngle, t.WanderDistance, t.WanderRadius, t.WanderChange, t.MaxForce, ai.deps.rng)
	a.WanderAngle = angle

	a.Velocity = Integrate(a.Velocity, BlendWander(force, t), t.SmoothingFactor, t.MaxSpeed)
	return bt.Success, nil
}

// navigate moves the agent, runs stuck detection and updates locomotion.
func (ai *AgentAI) navigate([]bt.Node) (bt.Status, error) {
	a := ai.agent
	g := ai.deps.guard

	g.Move(a)
	a.FrameCounter++
	g.CheckStuck(a, ai.sel.Position, ai.sel.Tracked())

	ai.deps.anim.Locomote(a)
	return bt.Success, nil
}

func (ai *AgentAI) inShootingRange([]bt.Node) (bt.Status, error) {
	if InShootingRange(ai.sel.Distance, ai.agent.Tunables.ShootingDistance) {
		return bt.Success, nil
	}
	return bt.Failure, nil
}

func (ai *AgentAI) shoot([]bt.Node) (bt.Status, error) {
	if ai.deps.combat.TryShoot(ai.agent, ai.sel.Position, ai.now) {
		return bt.Success, nil
	}
	return bt.Failure, nil
}

func succeed([]bt.Node) (bt.Status, error) {
	return bt.Success, nil
}
