package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/model"
)

func TestResolveClips_Partial(t *testing.T) {
	_, a := setup(newFakeAnimator(model.ClipIdle), model.FactionHostile)

	_, ok := a.Clip(model.ClipIdle)
	assert.True(t, ok)
	_, ok = a.Clip(model.ClipShoot)
	assert.False(t, ok)

	assert.False(t, a.MarkClipMissing(model.ClipShoot), "already reported at spawn")
}

func TestPlay_Degrades(t *testing.T) {
	animator := newFakeAnimator(model.ClipIdle)
	anim, a := setup(animator, model.FactionHostile)

	assert.False(t, anim.Play(a, model.ClipRun, true, nil), "missing clip")
	assert.True(t, anim.Play(a, model.ClipIdle, true, nil))

	animator.failing = true
	assert.False(t, anim.Play(a, model.ClipIdle, true, nil), "host error")
}

func TestPlay_SchedulesCompletion(t *testing.T) {
	animator := newFakeAnimator(model.ClipShoot)
	var queued []func()
	anim := NewAnimations(animator, func(fn func()) { queued = append(queued, fn) })
	a := newAgent(model.FactionHostile)
	anim.ResolveClips(a)

	ran := false
	require.True(t, anim.Play(a, model.ClipShoot, false, func() { ran = true }))

	animator.last().done()
	assert.False(t, ran, "completion is deferred to the scheduler")
	require.Len(t, queued, 1)

	queued[0]()
	assert.True(t, ran)
}

func TestLocomote(t *testing.T) {
	animator := newFakeAnimator(model.ClipIdle, model.ClipRun, model.ClipShoot)
	anim, a := setup(animator, model.FactionFriendly)

	a.Velocity = model.Vec3{X: 0.1}
	anim.Locomote(a)
	assert.Equal(t, model.ClipRun, a.Locomotion)
	assert.Equal(t, "run", animator.last().clip.Name)

	n := len(animator.plays)
	anim.Locomote(a)
	assert.Len(t, animator.plays, n, "same clip is not restarted")

	a.State = model.StateShooting
	a.Velocity = model.Vec3{}
	anim.Locomote(a)
	assert.Equal(t, model.ClipRun, a.Locomotion, "shoot clip owns the visual")

	a.State = model.StatePursuing
	anim.Locomote(a)
	assert.Equal(t, model.ClipIdle, a.Locomotion)
	assert.Equal(t, "idle", animator.last().clip.Name)
}
