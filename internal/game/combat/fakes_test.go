package combat

import (
	"errors"
	"time"

	"github.com/udisondev/skirmish/internal/host"
	"github.com/udisondev/skirmish/internal/model"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type play struct {
	clip model.Clip
	loop bool
	done func()
}

// fakeAnimator resolves the slots listed in have and records plays.
type fakeAnimator struct {
	have    map[model.ClipState]bool
	failing bool
	plays   []play
	stopped int
}

func newFakeAnimator(slots ...model.ClipState) *fakeAnimator {
	f := &fakeAnimator{have: make(map[model.ClipState]bool)}
	for _, s := range slots {
		f.have[s] = true
	}
	return f
}

func (f *fakeAnimator) ResolveClip(_ model.AgentID, s model.ClipState) (model.Clip, bool) {
	if !f.have[s] {
		return model.Clip{}, false
	}
	return model.Clip{Name: s.String(), ID: int(s)}, true
}

func (f *fakeAnimator) Play(_ model.AgentID, clip model.Clip, loop bool, onDone func()) error {
	if f.failing {
		return errors.New("mixer detached")
	}
	f.plays = append(f.plays, play{clip: clip, loop: loop, done: onDone})
	return nil
}

func (f *fakeAnimator) StopAll(model.AgentID) { f.stopped++ }

func (f *fakeAnimator) last() play {
	return f.plays[len(f.plays)-1]
}

type fakeProjectiles struct {
	origins, dirs []model.Vec3
	factions      []model.Faction
}

func (p *fakeProjectiles) SpawnProjectile(origin, dir model.Vec3, f model.Faction) {
	p.origins = append(p.origins, origin)
	p.dirs = append(p.dirs, dir)
	p.factions = append(p.factions, f)
}

// fakePresenter holds fade callbacks until finish is called.
type fakePresenter struct {
	fading   []func()
	released []model.AgentID
}

func (p *fakePresenter) FadeOut(_ model.AgentID, onDone func()) {
	p.fading = append(p.fading, onDone)
}

func (p *fakePresenter) Release(id model.AgentID) {
	p.released = append(p.released, id)
}

func (p *fakePresenter) finish() {
	for _, fn := range p.fading {
		fn()
	}
	p.fading = nil
}

type fakeRegistry struct {
	removed []model.AgentID
}

func (r *fakeRegistry) Unregister(a *model.Agent) bool {
	r.removed = append(r.removed, a.ID)
	return true
}

var _ host.Animator = (*fakeAnimator)(nil)

func newAgent(f model.Faction) *model.Agent {
	a := model.NewAgent(7, f, "grunt", model.Vec3{}, model.DefaultTunables())
	return a
}

// setup wires an agent whose clips were resolved through animator.
func setup(animator host.Animator, f model.Faction) (*Animations, *model.Agent) {
	anim := NewAnimations(animator, nil)
	a := newAgent(f)
	anim.ResolveClips(a)
	return anim, a
}
