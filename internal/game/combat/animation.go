package combat

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/host"
	"github.com/udisondev/skirmish/internal/model"
)

// movingSpeed is the velocity above which the run clip plays instead of idle.
const movingSpeed = 0.01

// Animations plays clips through the agent's capability map.
// Missing or failing clips degrade silently: a warning is logged once per slot
// and the caller continues without visual feedback.
type Animations struct {
	animator host.Animator
	// schedule runs clip completion callbacks; the manager queues them for
	// the next tick so they never re-enter a running tick.
	schedule func(func())
}

// NewAnimations wraps an animator. schedule may be nil (callbacks run inline).
func NewAnimations(animator host.Animator, schedule func(func())) *Animations {
	if animator == nil {
		animator = host.Nop{}
	}
	if schedule == nil {
		schedule = func(fn func()) { fn() }
	}
	return &Animations{animator: animator, schedule: schedule}
}

// ResolveClips fills the agent's capability map. Called once at spawn.
func (an *Animations) ResolveClips(a *model.Agent) {
	for _, slot := range model.ClipStates {
		clip, ok := an.animator.ResolveClip(a.ID, slot)
		if !ok {
			if a.MarkClipMissing(slot) {
				slog.Warn("animation clip not found",
					"agentID", a.ID,
					"archetype", a.Archetype,
					"clip", slot)
			}
			continue
		}
		a.Clips[slot] = clip
	}
}

// Play starts a logical clip. Returns false if nothing was played; in that case
// onDone is not called and the caller applies the end state itself.
func (an *Animations) Play(a *model.Agent, slot model.ClipState, loop bool, onDone func()) bool {
	clip, ok := a.Clip(slot)
	if !ok {
		if a.MarkClipMissing(slot) {
			slog.Warn("animation clip not found",
				"agentID", a.ID,
				"archetype", a.Archetype,
				"clip", slot)
		}
		return false
	}

	var done func()
	if onDone != nil {
		done = func() { an.schedule(onDone) }
	}

	if err := an.animator.Play(a.ID, clip, loop, done); err != nil {
		slog.Warn("animation clip failed to play",
			"agentID", a.ID,
			"clip", clip.Name,
			"err", err)
		return false
	}
	return true
}

// Locomote plays run or idle depending on movement, unless the agent is
// shooting (the shoot clip owns the visual until it completes).
func (an *Animations) Locomote(a *model.Agent) {
	if a.IsDead || a.State == model.StateShooting {
		return
	}

	want := model.ClipIdle
	if a.Speed() > movingSpeed {
		want = model.ClipRun
	}
	if want == a.Locomotion {
		return
	}

	a.Locomotion = want
	an.Play(a, want, true, nil)
}

// Resume restarts the locomotion clip after a one-shot clip ended.
func (an *Animations) Resume(a *model.Agent) {
	if a.IsDead {
		return
	}
	a.Locomotion = model.ClipIdle
	if a.Speed() > movingSpeed {
		a.Locomotion = model.ClipRun
	}
	an.Play(a, a.Locomotion, true, nil)
}

// StopAll stops every clip on the agent.
func (an *Animations) StopAll(a *model.Agent) {
	an.animator.StopAll(a.ID)
}
