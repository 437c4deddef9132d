package world

import (
	"sync/atomic"

	"github.com/udisondev/skirmish/internal/model"
)

// AgentIDGenerator hands out unique agent IDs.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid)
//	0x10000000 - 0x1FFFFFFF: Player-controlled units (owned by the host)
//	0x20000000 - 0x2FFFFFFF: Hostile agents
//	0x30000000 - 0x3FFFFFFF: Friendly agents
type AgentIDGenerator struct {
	next [model.FactionCount]atomic.Uint32
	seq  atomic.Uint32
}

// Range bases per faction.
const (
	PlayerIDBase   uint32 = 0x10000000
	HostileIDBase  uint32 = 0x20000000
	FriendlyIDBase uint32 = 0x30000000
)

// NewAgentIDGenerator creates a new ID generator.
func NewAgentIDGenerator() *AgentIDGenerator {
	gen := &AgentIDGenerator{}
	gen.next[model.FactionHostile].Store(HostileIDBase)
	gen.next[model.FactionFriendly].Store(FriendlyIDBase)
	return gen
}

// Next generates the next agent ID for a faction together with the global
// spawn sequence number (0-based), used for deterministic formation spacing.
// Thread-safe via atomic increment.
func (g *AgentIDGenerator) Next(faction model.Faction) (model.AgentID, uint32) {
	id := g.next[faction].Add(1)
	seq := g.seq.Add(1) - 1
	return model.AgentID(id), seq
}

// FactionOf derives the faction from an ID range.
func FactionOf(id model.AgentID) (model.Faction, bool) {
	switch {
	case uint32(id) > HostileIDBase && uint32(id) < FriendlyIDBase:
		return model.FactionHostile, true
	case uint32(id) > FriendlyIDBase && uint32(id) < 0x40000000:
		return model.FactionFriendly, true
	default:
		return model.FactionCount, false
	}
}
