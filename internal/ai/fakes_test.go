package ai

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/udisondev/skirmish/internal/host"
	"github.com/udisondev/skirmish/internal/model"
)

// casterFunc adapts a function to host.RayCaster.
type casterFunc func(origin, dir model.Vec3, maxDist float64) (bool, error)

func (f casterFunc) Cast(origin, dir model.Vec3, maxDist float64) (bool, error) {
	return f(origin, dir, maxDist)
}

// blockAll reports a hit for every ray.
var blockAll = casterFunc(func(model.Vec3, model.Vec3, float64) (bool, error) { return true, nil })

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type shot struct {
	origin, dir model.Vec3
	faction     model.Faction
}

type recordingProjectiles struct {
	shots []shot
}

func (r *recordingProjectiles) SpawnProjectile(origin, dir model.Vec3, f model.Faction) {
	r.shots = append(r.shots, shot{origin: origin, dir: dir, faction: f})
}

// clipAnimator resolves every slot and records plays. Completion callbacks are
// kept until the test fires them with complete().
type clipAnimator struct {
	mu      sync.Mutex
	played  []string
	pending []func()
}

func (c *clipAnimator) ResolveClip(_ model.AgentID, s model.ClipState) (model.Clip, bool) {
	return model.Clip{Name: s.String(), ID: int(s)}, true
}

func (c *clipAnimator) Play(_ model.AgentID, clip model.Clip, _ bool, onDone func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.played = append(c.played, clip.Name)
	if onDone != nil {
		c.pending = append(c.pending, onDone)
	}
	return nil
}

func (c *clipAnimator) StopAll(model.AgentID) {}

func (c *clipAnimator) complete() {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

type recordingEvents struct {
	deaths []host.DeathEvent
}

func (r *recordingEvents) OnAgentDied(ev host.DeathEvent) {
	r.deaths = append(r.deaths, ev)
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// quietTunables disables wander jitter so tests are easy to reason about.
func quietTunables() model.Tunables {
	t := model.DefaultTunables()
	t.WanderChange = 0
	t.FormationSpread = 0
	return t
}
