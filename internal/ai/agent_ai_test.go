package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

func newTestDeps(r *world.Registry) *deps {
	anim := combat.NewAnimations(nil, nil)
	return &deps{
		perception: NewPerception(r, nil),
		guard:      NewNavigationGuard(nil, testRand()),
		combat:     combat.NewController(anim, nil),
		health:     combat.NewHealth(r, anim, nil, nil),
		anim:       anim,
		rng:        testRand(),
	}
}

func TestAgentAI_ShootingIsLeftOnlyByClipCompletion(t *testing.T) {
	r := world.NewRegistry()
	a := registerAt(t, r, 1, model.FactionHostile, 0, 0)
	ai := newAgentAI(a, newTestDeps(r))

	a.State = model.StateShooting
	ai.setState(model.StateWander)
	assert.Equal(t, model.StateShooting, ai.CurrentState())

	ai.setState(model.StateDead)
	assert.Equal(t, model.StateDead, a.State)

	ai.setState(model.StatePursuing)
	assert.Equal(t, model.StateDead, a.State, "dead is terminal")
}

func TestAgentAI_DeadAgentDoesNothing(t *testing.T) {
	r := world.NewRegistry()
	a := registerAt(t, r, 1, model.FactionHostile, 0, 0)
	a.Velocity = model.Vec3{X: 0.1}
	a.IsDead = true

	ai := newAgentAI(a, newTestDeps(r))
	ai.Tick(CaptureFrame(r), time.Now())

	assert.Equal(t, model.Vec3{}, a.Position)
	assert.Zero(t, a.FrameCounter)
}

func TestAgentAI_PerceivesFrameNotLivePositions(t *testing.T) {
	r := world.NewRegistry()
	hostile := registerAt(t, r, 1, model.FactionHostile, 0, 0)
	friendly := registerAt(t, r, 2, model.FactionFriendly, 20, 0)
	d := newTestDeps(r)

	frame := CaptureFrame(r)
	// The friendly moves out of detection range after the frame was taken.
	friendly.Position = model.Vec3{X: 500}

	newAgentAI(hostile, d).Tick(frame, time.Now())

	assert.Equal(t, model.StatePursuing, hostile.State)
	assert.Equal(t, uint32(friendly.ID), hostile.Target.ID)
}

func TestAgentAI_WanderAdvancesFrameCounter(t *testing.T) {
	r := world.NewRegistry()
	a := registerAt(t, r, 1, model.FactionHostile, 0, 0)
	ai := newAgentAI(a, newTestDeps(r))

	for range 10 {
		ai.Tick(CaptureFrame(r), time.Now())
	}

	assert.Equal(t, 10, a.FrameCounter)
	assert.Equal(t, model.StateWander, a.State)
	assert.Greater(t, a.Speed(), 0.0, "wander gets the agent moving")
	assert.LessOrEqual(t, a.Speed(), a.Tunables.MaxSpeed+1e-12)
}

func TestAgentAI_KeepsResolvedTargetOnTie(t *testing.T) {
	r := world.NewRegistry()
	hostile := registerAt(t, r, 1, model.FactionHostile, 0, 0)
	registerAt(t, r, 2, model.FactionFriendly, 5, 0)
	held := registerAt(t, r, 3, model.FactionFriendly, -5, 0)
	ai := newAgentAI(hostile, newTestDeps(r))

	hostile.Target = model.TargetRef{Kind: model.TargetAgent, Faction: model.FactionFriendly, ID: uint32(held.ID)}
	ai.Tick(CaptureFrame(r), time.Now())
	assert.Equal(t, uint32(held.ID), hostile.Target.ID, "equidistant pick does not steal the target")
	assert.Equal(t, model.StatePursuing, hostile.State)

	// Once the held target is farther than the nearest opponent, switch.
	hostile.Position, hostile.Velocity = model.Vec3{}, model.Vec3{}
	held.Position = model.Vec3{X: -8}
	ai.Tick(CaptureFrame(r), time.Now())
	assert.Equal(t, uint32(2), hostile.Target.ID)
}
