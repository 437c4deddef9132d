package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/host"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

// goldenAngle spreads successive spawns evenly around a target.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Collaborators groups everything the simulation consumes from the host.
// Nil fields fall back to no-ops.
type Collaborators struct {
	Players     host.PlayerSource
	Caster      host.RayCaster
	Animator    host.Animator
	Presenter   host.Presenter
	Projectiles host.ProjectileSpawner
	Events      host.EventSink
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source (default time.Now).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRand sets the random source used by wander and teleport recovery.
func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) { m.rng = rng }
}

// WithRegistry shares an existing registry.
func WithRegistry(r *world.Registry) Option {
	return func(m *Manager) { m.registry = r }
}

// Manager owns the agent simulation and exposes the host API.
// Tick, Spawn, TakeDamage and DespawnAll are serialized by one mutex, so the
// host may call TakeDamage from its collision goroutine.
type Manager struct {
	mu          sync.Mutex
	registry    *world.Registry
	ids         *world.AgentIDGenerator
	controllers map[model.AgentID]Controller
	deps        *deps
	now         func() time.Time
	rng         *rand.Rand

	// pending holds animation completion callbacks, run at the start of the next tick.
	pendingMu sync.Mutex
	pending   []func()

	ticks   uint64
	elapsed time.Duration
}

// NewManager creates a simulation over the given collaborators.
func NewManager(c Collaborators, opts ...Option) *Manager {
	m := &Manager{
		ids:         world.NewAgentIDGenerator(),
		controllers: make(map[model.AgentID]Controller),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = world.NewRegistry()
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	anim := combat.NewAnimations(c.Animator, m.schedule)
	m.deps = &deps{
		perception: NewPerception(m.registry, c.Players),
		guard:      NewNavigationGuard(c.Caster, m.rng),
		combat:     combat.NewController(anim, c.Projectiles),
		health:     combat.NewHealth(m.registry, anim, c.Presenter, c.Events),
		anim:       anim,
		rng:        m.rng,
	}
	return m
}

// Registry returns the live agent registry.
func (m *Manager) Registry() *world.Registry {
	return m.registry
}

// schedule queues fn for the start of the next tick.
func (m *Manager) schedule(fn func()) {
	m.pendingMu.Lock()
	m.pending = append(m.pending, fn)
	m.pendingMu.Unlock()
}

func (m *Manager) runPending() {
	m.pendingMu.Lock()
	pending := m.pending
	m.pending = nil
	m.pendingMu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// Spawn creates and registers an agent. archetype is informational (logs, events).
func (m *Manager) Spawn(position model.Vec3, faction model.Faction, archetype string, tunables model.Tunables) (model.AgentID, error) {
	if !faction.Valid() {
		return 0, fmt.Errorf("spawning %q: %w", archetype, world.ErrUnknownFaction)
	}
	if err := tunables.Validate(); err != nil {
		return 0, fmt.Errorf("spawning %q: %w", archetype, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, seq := m.ids.Next(faction)
	a := model.NewAgent(id, faction, archetype, position, tunables)
	a.FormationAngle = math.Remainder(float64(seq)*goldenAngle, 2*math.Pi)
	a.WanderAngle = a.FormationAngle

	m.deps.anim.ResolveClips(a)

	if err := m.registry.Register(a); err != nil {
		return 0, fmt.Errorf("spawning %q: %w", archetype, err)
	}
	m.controllers[id] = newAgentAI(a, m.deps)
	m.deps.anim.Play(a, model.ClipIdle, true, nil)

	if IsDebugEnabled() {
		slog.Debug("agent spawned",
			"agentID", id,
			"faction", faction,
			"archetype", archetype,
			"pos", position)
	}
	return id, nil
}

// Tick advances every live agent one simulation step.
// Agents are processed in registry order (hostile, then friendly), each against
// the positions captured at the start of the tick.
func (m *Manager) Tick(dt time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.runPending()

	now := m.now()
	m.ticks++
	m.elapsed += dt

	frame := CaptureFrame(m.registry)
	count := 0

	for _, faction := range model.Factions {
		for _, a := range m.registry.Snapshot(faction) {
			if a.IsDead {
				continue
			}
			ctrl, ok := m.controllers[a.ID]
			if !ok {
				continue
			}
			m.deps.health.ClearHit(a, now)
			ctrl.Tick(frame, now)
			count++
		}
	}

	if count > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed",
			"agents", count,
			"tick", m.ticks,
			"dt", dt)
	}
}

// TakeDamage applies damage to a live agent. Returns false when the agent is
// unknown, dead, or inside its hit-recovery window. IDs outside the agent
// ranges (players) are ignored.
func (m *Manager) TakeDamage(id model.AgentID, amount int32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	faction, ok := world.FactionOf(id)
	if !ok {
		return false
	}
	a, ok := m.registry.Get(faction, id)
	if !ok {
		return false
	}

	applied := m.deps.health.TakeDamage(a, amount, m.now())
	if a.IsDead {
		delete(m.controllers, id)
	}
	return applied
}

// DespawnAll tears down every agent of a faction regardless of state.
// Returns the number of agents removed.
func (m *Manager) DespawnAll(faction model.Faction) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, a := range m.registry.Snapshot(faction) {
		if m.deps.health.Despawn(a) {
			removed++
		}
		delete(m.controllers, a.ID)
	}

	slog.Info("faction despawned",
		"faction", faction,
		"agents", removed)
	return removed
}

// Agent returns a live agent by ID. The pointer must only be read between ticks.
func (m *Manager) Agent(id model.AgentID) (*model.Agent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.registry.Lookup(id)
}

// Count returns the number of live agents (all factions).
func (m *Manager) Count() int {
	return m.registry.Len()
}

// Ticks returns the number of completed ticks.
func (m *Manager) Ticks() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ticks
}

// Elapsed returns the accumulated simulated time (sum of dt).
func (m *Manager) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.elapsed
}

// Run ticks the simulation every interval until ctx is canceled.
// dt passed to Tick is the measured wall time since the previous tick.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("AI tick loop started", "interval", interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick loop stopping", "ticks", m.Ticks())
			return ctx.Err()

		case tickAt := <-ticker.C:
			m.Tick(tickAt.Sub(last))
			last = tickAt
		}
	}
}
