package world

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/udisondev/skirmish/internal/model"
)

var (
	// ErrNilAgent is returned when registering a nil agent.
	ErrNilAgent = errors.New("nil agent")
	// ErrDeadAgent is returned when registering an agent that already died.
	ErrDeadAgent = errors.New("agent is dead")
	// ErrDuplicateAgent is returned when the ID is already registered.
	ErrDuplicateAgent = errors.New("agent already registered")
	// ErrUnknownFaction is returned for a faction outside the known set.
	ErrUnknownFaction = errors.New("unknown faction")
)

// Registry holds live agents partitioned by faction.
// Iteration order within a faction is insertion order.
//
// Thread-safe: the tick and host callbacks may touch it from different goroutines.
type Registry struct {
	mu    sync.RWMutex
	sets  [model.FactionCount][]*model.Agent
	index map[model.AgentID]model.Faction // agent → the one set it belongs to
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[model.AgentID]model.Faction),
	}
}

// Register adds a live agent to its faction set.
func (r *Registry) Register(a *model.Agent) error {
	if a == nil {
		return ErrNilAgent
	}
	if !a.Faction.Valid() {
		return fmt.Errorf("registering agent %d: %w", a.ID, ErrUnknownFaction)
	}
	if a.IsDead {
		return fmt.Errorf("registering agent %d: %w", a.ID, ErrDeadAgent)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.index[a.ID]; ok {
		return fmt.Errorf("registering agent %d (already %s): %w", a.ID, f, ErrDuplicateAgent)
	}

	r.sets[a.Faction] = append(r.sets[a.Faction], a)
	r.index[a.ID] = a.Faction
	return nil
}

// Unregister removes an agent. Idempotent: returns false if it was absent.
func (r *Registry) Unregister(a *model.Agent) bool {
	if a == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.index[a.ID]
	if !ok {
		return false
	}

	set := r.sets[f]
	i := slices.IndexFunc(set, func(x *model.Agent) bool { return x.ID == a.ID })
	if i < 0 {
		// index and set disagree; heal the index
		slog.Warn("registry index out of sync", "agentID", a.ID, "faction", f)
		delete(r.index, a.ID)
		return false
	}

	set[i] = nil
	r.sets[f] = slices.Delete(set, i, i+1)
	delete(r.index, a.ID)
	return true
}

// Snapshot returns an iteration-safe copy of a faction's live agents.
// Agents removed while the caller iterates stay in the copy; callers check IsDead.
func (r *Registry) Snapshot(f model.Faction) []*model.Agent {
	if !f.Valid() {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.sets[f])
}

// Views returns position snapshots of a faction's live agents.
func (r *Registry) Views(f model.Faction) []model.AgentView {
	if !f.Valid() {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]model.AgentView, 0, len(r.sets[f]))
	for _, a := range r.sets[f] {
		views = append(views, a.View())
	}
	return views
}

// Get returns a registered agent of the given faction.
func (r *Registry) Get(f model.Faction, id model.AgentID) (*model.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if got, ok := r.index[id]; !ok || got != f {
		return nil, false
	}
	return r.find(f, id)
}

// Lookup returns a registered agent of any faction.
func (r *Registry) Lookup(id model.AgentID) (*model.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.find(f, id)
}

func (r *Registry) find(f model.Faction, id model.AgentID) (*model.Agent, bool) {
	for _, a := range r.sets[f] {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Count returns the number of live agents in a faction.
func (r *Registry) Count(f model.Faction) int {
	if !f.Valid() {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sets[f])
}

// Len returns the number of live agents across all factions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.index)
}
