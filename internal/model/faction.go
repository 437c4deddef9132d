package model

import (
	"fmt"
	"strings"
)

// Faction partitions agents into opposing sides.
type Faction uint8

const (
	// FactionHostile - enemies of the player
	FactionHostile Faction = iota
	// FactionFriendly - units allied with the player
	FactionFriendly

	// FactionCount is the number of factions (array sizing).
	FactionCount
)

// Factions lists all factions in registry iteration order.
var Factions = [FactionCount]Faction{FactionHostile, FactionFriendly}

// Opponent returns the opposing faction.
func (f Faction) Opponent() Faction {
	if f == FactionHostile {
		return FactionFriendly
	}
	return FactionHostile
}

// Valid reports whether f is a known faction.
func (f Faction) Valid() bool {
	return f < FactionCount
}

// String returns human-readable faction name
func (f Faction) String() string {
	switch f {
	case FactionHostile:
		return "hostile"
	case FactionFriendly:
		return "friendly"
	default:
		return "unknown"
	}
}

// ParseFaction parses a faction name (case-insensitive).
func ParseFaction(s string) (Faction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hostile", "enemy":
		return FactionHostile, nil
	case "friendly", "ally":
		return FactionFriendly, nil
	default:
		return FactionCount, fmt.Errorf("unknown faction %q", s)
	}
}

// UnmarshalText lets factions be written by name in YAML config.
func (f *Faction) UnmarshalText(text []byte) error {
	parsed, err := ParseFaction(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Faction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
