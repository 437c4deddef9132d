package ai

import (
	"time"

	"github.com/udisondev/skirmish/internal/model"
)

// Controller represents the per-agent AI driven by the Manager.
type Controller interface {
	// Agent returns the controlled agent.
	Agent() *model.Agent

	// CurrentState returns the agent's behavior state.
	CurrentState() model.AgentState

	// Tick advances the agent one step against the frame captured at tick start.
	Tick(frame *Frame, now time.Time)
}

// Frame is a point-in-time copy of all agent positions, taken before any
// agent moves in a tick. Every agent perceives the same (previous-tick) world.
type Frame struct {
	views [model.FactionCount][]model.AgentView
}

// CaptureFrame snapshots the registry.
func CaptureFrame(v View) *Frame {
	f := &Frame{}
	for _, faction := range model.Factions {
		f.views[faction] = v.Views(faction)
	}
	return f
}

// Views implements View.
func (f *Frame) Views(faction model.Faction) []model.AgentView {
	if !faction.Valid() {
		return nil
	}
	return f.views[faction]
}
