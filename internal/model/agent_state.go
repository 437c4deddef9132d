package model

// AgentState is the exclusive behavior state of an agent.
// Hit is not a state: it is an overlay flag on Agent.
type AgentState int32

const (
	// StateWander - no target tracked, agent roams
	StateWander AgentState = iota
	// StatePursuing - agent steers toward a tracked target
	StatePursuing
	// StateShooting - shoot clip is playing; ends on clip completion
	StateShooting
	// StateDead - terminal
	StateDead
)

// String returns human-readable state name
func (s AgentState) String() string {
	switch s {
	case StateWander:
		return "WANDER"
	case StatePursuing:
		return "PURSUING"
	case StateShooting:
		return "SHOOTING"
	case StateDead:
		return "DEAD"
	default:
		return "UNKNOWN"
	}
}

// ClipState is the logical animation slot resolved to a concrete clip at spawn.
type ClipState uint8

const (
	ClipIdle ClipState = iota
	ClipRun
	ClipShoot

	clipStateCount
)

// ClipStates lists all logical clip slots.
var ClipStates = [clipStateCount]ClipState{ClipIdle, ClipRun, ClipShoot}

func (c ClipState) String() string {
	switch c {
	case ClipIdle:
		return "idle"
	case ClipRun:
		return "run"
	case ClipShoot:
		return "shoot"
	default:
		return "unknown"
	}
}

// Clip is an opaque handle to an animation clip owned by the host.
type Clip struct {
	Name string
	ID   int
}
