package combat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/model"
)

func TestCanShoot(t *testing.T) {
	a := newAgent(model.FactionHostile)
	assert.True(t, CanShoot(a, t0), "never fired")

	a.LastShootTime = t0
	assert.False(t, CanShoot(a, t0.Add(a.Tunables.ShootCooldown-time.Millisecond)))
	assert.True(t, CanShoot(a, t0.Add(a.Tunables.ShootCooldown)))
}

func TestTryShoot_FiresFromMuzzle(t *testing.T) {
	animator := newFakeAnimator(model.ClipIdle, model.ClipRun, model.ClipShoot)
	anim, a := setup(animator, model.FactionFriendly)
	a.Position = model.Vec3{X: 1, Y: 2, Z: 1}
	a.Target = model.TargetRef{Kind: model.TargetAgent, Faction: model.FactionHostile, ID: 9}
	proj := &fakeProjectiles{}
	c := NewController(anim, proj)

	require.True(t, c.TryShoot(a, model.Vec3{X: 1, Y: 7, Z: 11}, t0))

	assert.Equal(t, model.StateShooting, a.State)
	assert.Equal(t, t0, a.LastShootTime)
	assert.InDelta(t, 0, a.Yaw, 1e-12, "facing +Z")

	require.Len(t, proj.origins, 1)
	tun := a.Tunables
	assert.Equal(t, model.Vec3{X: 1, Y: 2 + tun.MuzzleHeight, Z: 1 + tun.MuzzleOffset}, proj.origins[0])
	assert.Equal(t, model.Vec3{Z: 1}, proj.dirs[0], "aim is horizontal")
	assert.Equal(t, model.FactionFriendly, proj.factions[0])

	shotClip := animator.last()
	assert.Equal(t, "shoot", shotClip.clip.Name)
	assert.False(t, shotClip.loop)
	require.NotNil(t, shotClip.done)
}

func TestTryShoot_Cooldown(t *testing.T) {
	anim, a := setup(newFakeAnimator(model.ClipShoot), model.FactionHostile)
	proj := &fakeProjectiles{}
	c := NewController(anim, proj)

	require.True(t, c.TryShoot(a, model.Vec3{X: 5}, t0))
	a.State = model.StatePursuing
	yaw := a.Yaw

	assert.False(t, c.TryShoot(a, model.Vec3{Z: -5}, t0.Add(time.Second)))
	assert.Equal(t, model.StatePursuing, a.State, "no side effects on cooldown")
	assert.Equal(t, yaw, a.Yaw)
	assert.Len(t, proj.origins, 1)

	assert.True(t, c.TryShoot(a, model.Vec3{Z: -5}, t0.Add(a.Tunables.ShootCooldown)))
	assert.Len(t, proj.origins, 2)
}

func TestTryShoot_ClipCompletion(t *testing.T) {
	tests := []struct {
		name   string
		target model.TargetRef
		want   model.AgentState
	}{
		{"target still tracked", model.TargetRef{Kind: model.TargetPlayer, ID: 1}, model.StatePursuing},
		{"target gone", model.TargetRef{}, model.StateWander},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			animator := newFakeAnimator(model.ClipIdle, model.ClipRun, model.ClipShoot)
			anim, a := setup(animator, model.FactionHostile)
			c := NewController(anim, nil)

			require.True(t, c.TryShoot(a, model.Vec3{X: 5}, t0))
			a.Target = tt.target
			animator.last().done()

			assert.Equal(t, tt.want, a.State)
			assert.Equal(t, "idle", animator.last().clip.Name, "locomotion resumes")
			assert.True(t, animator.last().loop)
		})
	}
}

func TestTryShoot_MissingClipEndsShotImmediately(t *testing.T) {
	anim, a := setup(newFakeAnimator(), model.FactionHostile)
	a.Target = model.TargetRef{Kind: model.TargetPlayer, ID: 1}
	proj := &fakeProjectiles{}
	c := NewController(anim, proj)

	require.True(t, c.TryShoot(a, model.Vec3{X: 5}, t0))
	assert.Equal(t, model.StatePursuing, a.State)
	assert.Len(t, proj.origins, 1, "projectile still spawned")
}

func TestTryShoot_DeadAgent(t *testing.T) {
	anim, a := setup(newFakeAnimator(model.ClipShoot), model.FactionHostile)
	a.IsDead = true
	proj := &fakeProjectiles{}

	assert.False(t, NewController(anim, proj).TryShoot(a, model.Vec3{X: 1}, t0))
	assert.Empty(t, proj.origins)
}

func TestTryShoot_DegenerateAim(t *testing.T) {
	anim, a := setup(newFakeAnimator(), model.FactionHostile)
	proj := &fakeProjectiles{}

	require.True(t, NewController(anim, proj).TryShoot(a, a.Position, t0))
	assert.Equal(t, model.Forward, proj.dirs[0])
}

func TestTryShoot_SupersededClipCompletionIgnored(t *testing.T) {
	animator := newFakeAnimator(model.ClipIdle, model.ClipRun, model.ClipShoot)
	anim, a := setup(animator, model.FactionHostile)
	a.Tunables.ShootCooldown = 100 * time.Millisecond
	a.Target = model.TargetRef{Kind: model.TargetPlayer, ID: 1}
	c := NewController(anim, nil)

	require.True(t, c.TryShoot(a, model.Vec3{X: 5}, t0))
	first := animator.last()
	require.True(t, c.TryShoot(a, model.Vec3{X: 5}, t0.Add(200*time.Millisecond)))
	second := animator.last()

	first.done()
	assert.Equal(t, model.StateShooting, a.State, "stale clip does not end the newer shot")
	assert.Equal(t, "shoot", animator.last().clip.Name)

	second.done()
	assert.Equal(t, model.StatePursuing, a.State)
	assert.Equal(t, "idle", animator.last().clip.Name)
}
