package main

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/db"
	"github.com/udisondev/skirmish/internal/host"
	"github.com/udisondev/skirmish/internal/model"
)

const (
	deathQueueSize  = 256
	deathBatchSize  = 32
	shootClipLength = 400 * time.Millisecond
	fadeOutLength   = 1500 * time.Millisecond
)

// deathStore persists death rows. Satisfied by *db.DeathRepository.
type deathStore interface {
	Record(ctx context.Context, row db.DeathRow) error
	RecordBatch(ctx context.Context, rows []db.DeathRow) error
	CountByFaction(ctx context.Context, sessionID uuid.UUID) (map[string]int64, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]db.DeathRow, error)
}

// deathRecorder implements host.EventSink. Events are queued without blocking
// the tick and written in batches by Run.
type deathRecorder struct {
	session uuid.UUID
	store   deathStore // nil: count only
	events  chan host.DeathEvent

	dropped atomic.Int64
	counts  [model.FactionCount]atomic.Int64
}

func newDeathRecorder(session uuid.UUID, store deathStore, queue int) *deathRecorder {
	return &deathRecorder{
		session: session,
		store:   store,
		events:  make(chan host.DeathEvent, queue),
	}
}

// OnAgentDied enqueues the event; drops it with a warning when the queue is full.
func (r *deathRecorder) OnAgentDied(ev host.DeathEvent) {
	if ev.Faction.Valid() {
		r.counts[ev.Faction].Add(1)
	}
	select {
	case r.events <- ev:
	default:
		r.dropped.Add(1)
		slog.Warn("death event dropped, queue full",
			"agentID", ev.AgentID,
			"faction", ev.Faction)
	}
}

// Deaths returns the number of deaths seen for a faction.
func (r *deathRecorder) Deaths(f model.Faction) int64 {
	if !f.Valid() {
		return 0
	}
	return r.counts[f].Load()
}

// Dropped returns the number of events that did not fit the queue.
func (r *deathRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// Run drains the queue until ctx is done, then flushes what is left.
// Write failures are logged; the simulation keeps running.
func (r *deathRecorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for batch := r.collect(nil); len(batch) > 0; batch = r.collect(nil) {
				if err := r.flush(flushCtx, batch); err != nil {
					return err
				}
			}
			return nil

		case ev := <-r.events:
			if err := r.flush(ctx, r.collect([]host.DeathEvent{ev})); err != nil {
				slog.Error("persisting deaths", "session", r.session, "err", err)
			}
		}
	}
}

// collect appends queued events without blocking, up to deathBatchSize.
func (r *deathRecorder) collect(batch []host.DeathEvent) []host.DeathEvent {
	for len(batch) < deathBatchSize {
		select {
		case ev := <-r.events:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
	return batch
}

func (r *deathRecorder) flush(ctx context.Context, batch []host.DeathEvent) error {
	if len(batch) == 0 {
		return nil
	}
	for _, ev := range batch {
		slog.Info("death recorded",
			"session", r.session,
			"agentID", ev.AgentID,
			"faction", ev.Faction,
			"archetype", ev.Archetype)
	}
	if r.store == nil {
		return nil
	}

	rows := make([]db.DeathRow, 0, len(batch))
	for _, ev := range batch {
		rows = append(rows, db.DeathRow{
			SessionID: r.session,
			AgentID:   uint32(ev.AgentID),
			Faction:   ev.Faction.String(),
			Archetype: ev.Archetype,
			PosX:      ev.Position.X,
			PosY:      ev.Position.Y,
			PosZ:      ev.Position.Z,
			DiedAt:    ev.At,
		})
	}
	if len(rows) == 1 {
		return r.store.Record(ctx, rows[0])
	}
	return r.store.RecordBatch(ctx, rows)
}

// logAnimator resolves every slot and logs plays. One-shot clips complete
// after shootClipLength.
type logAnimator struct{}

func newLogAnimator() logAnimator { return logAnimator{} }

func (logAnimator) ResolveClip(_ model.AgentID, s model.ClipState) (model.Clip, bool) {
	return model.Clip{Name: s.String(), ID: int(s)}, true
}

func (logAnimator) Play(id model.AgentID, clip model.Clip, loop bool, onDone func()) error {
	if ai.IsDebugEnabled() {
		slog.Debug("clip play", "agentID", id, "clip", clip.Name, "loop", loop)
	}
	if !loop && onDone != nil {
		time.AfterFunc(shootClipLength, onDone)
	}
	return nil
}

func (logAnimator) StopAll(model.AgentID) {}

// logPresenter fades out over fadeOutLength and logs releases.
type logPresenter struct{}

func newLogPresenter() logPresenter { return logPresenter{} }

func (logPresenter) FadeOut(_ model.AgentID, onDone func()) {
	time.AfterFunc(fadeOutLength, onDone)
}

func (logPresenter) Release(id model.AgentID) {
	slog.Debug("agent visual released", "agentID", id)
}

// damager applies projectile hits. Satisfied by *ai.Manager.
type damager interface {
	TakeDamage(id model.AgentID, amount int32) bool
}

// hitscan resolves projectiles against agents at spawn time and applies the
// damage after the flight time. Hits are delivered from timer goroutines,
// never from inside a tick.
type hitscan struct {
	cfg    config.Projectile
	caster host.RayCaster
	views  ai.View
	damage damager
}

func newHitscan(cfg config.Projectile, caster host.RayCaster) *hitscan {
	return &hitscan{cfg: cfg, caster: caster}
}

func (h *hitscan) bind(m *ai.Manager) {
	h.views = m.Registry()
	h.damage = m
}

// SpawnProjectile implements host.ProjectileSpawner.
func (h *hitscan) SpawnProjectile(origin, dir model.Vec3, faction model.Faction) {
	if h.views == nil {
		return
	}
	id, dist, ok := h.trace(origin, dir, faction.Opponent())
	if !ok {
		return
	}
	if blocked, err := h.caster.Cast(origin, dir, dist); err == nil && blocked {
		return
	}

	flight := time.Duration(dist / h.cfg.Speed * float64(time.Second))
	time.AfterFunc(flight, func() {
		if h.damage.TakeDamage(id, h.cfg.Damage) && ai.IsDebugEnabled() {
			slog.Debug("projectile hit", "target", id, "damage", h.cfg.Damage)
		}
	})
}

// trace returns the nearest agent of faction whose position passes within
// Radius of the ray on the XZ plane.
func (h *hitscan) trace(origin, dir model.Vec3, faction model.Faction) (model.AgentID, float64, bool) {
	dir = dir.Flat().Direction()
	var (
		best     model.AgentID
		bestDist = h.cfg.Range
		found    bool
	)
	for _, v := range h.views.Views(faction) {
		rel := v.Position.Sub(origin).Flat()
		along := rel.Dot(dir)
		if along < 0 || along > bestDist {
			continue
		}
		if rel.Sub(dir.Scale(along)).Len() > h.cfg.Radius {
			continue
		}
		best, bestDist, found = v.ID, along, true
	}
	return best, bestDist, found
}
