package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/skirmish/internal/game/geo"
	"github.com/udisondev/skirmish/internal/model"
)

// ErrInvalidConfig is wrapped by every Simulation.Validate failure.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Simulation holds all configuration for the headless skirmish host.
type Simulation struct {
	LogLevel     string        `yaml:"log_level"`
	TickInterval time.Duration `yaml:"tick_interval"`
	// Seed for wander and teleport randomness; 0 picks a random seed.
	Seed uint64 `yaml:"seed"`
	// Duration stops the run after this long; 0 runs until interrupted.
	Duration time.Duration `yaml:"duration"`

	Database DatabaseConfig `yaml:"database"`

	Arena      Arena                `yaml:"arena"`
	Obstacles  []Obstacle           `yaml:"obstacles"`
	Archetypes map[string]Archetype `yaml:"archetypes"`
	Spawns     []SpawnGroup         `yaml:"spawns"`
	Players    []Player             `yaml:"players"`

	Projectile Projectile `yaml:"projectile"`
}

// Projectile configures the headless hitscan that resolves shots.
type Projectile struct {
	Speed  float64 `yaml:"speed"` // world units per second
	Range  float64 `yaml:"range"`
	Radius float64 `yaml:"radius"` // hit radius around a target's position
	Damage int32   `yaml:"damage"`
}

func (p Projectile) validate() error {
	if p.Speed <= 0 || p.Range <= 0 || p.Radius <= 0 {
		return fmt.Errorf("projectile: speed, range and radius must be positive")
	}
	if p.Damage < 0 {
		return fmt.Errorf("projectile: negative damage %d", p.Damage)
	}
	return nil
}

// Arena is the walkable XZ rectangle. A zero arena is unbounded.
type Arena struct {
	Min [2]float64 `yaml:"min"`
	Max [2]float64 `yaml:"max"`
}

// Bound converts the arena to an orb bound.
func (a Arena) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point(a.Min), Max: orb.Point(a.Max)}
}

// Obstacle is either a box (min/max) or a polygon footprint (points) on XZ,
// extruded between MinY and MaxY.
type Obstacle struct {
	Name   string       `yaml:"name"`
	Min    [2]float64   `yaml:"min"`
	Max    [2]float64   `yaml:"max"`
	Points [][2]float64 `yaml:"points"`
	MinY   float64      `yaml:"min_y"`
	MaxY   float64      `yaml:"max_y"`
}

// Build converts the obstacle into a geo obstacle.
func (o Obstacle) Build() (geo.Obstacle, error) {
	if len(o.Points) == 0 {
		return geo.NewBox(o.Name, o.Min[0], o.Min[1], o.Max[0], o.Max[1], o.MinY, o.MaxY)
	}
	ring := make(orb.Ring, 0, len(o.Points)+1)
	for _, p := range o.Points {
		ring = append(ring, orb.Point(p))
	}
	return geo.NewObstacle(o.Name, ring, o.MinY, o.MaxY)
}

// Archetype is a named set of agent tunables. Unset fields keep the defaults.
type Archetype struct {
	model.Tunables `yaml:",inline"`
}

// UnmarshalYAML decodes over DefaultTunables so archetypes list only overrides.
func (a *Archetype) UnmarshalYAML(value *yaml.Node) error {
	t := model.DefaultTunables()
	if err := value.Decode(&t); err != nil {
		return err
	}
	a.Tunables = t
	return nil
}

// SpawnGroup places Count agents of one archetype in a row along X.
type SpawnGroup struct {
	Archetype string        `yaml:"archetype"`
	Faction   model.Faction `yaml:"faction"`
	Position  model.Vec3    `yaml:"position"`
	Count     int           `yaml:"count"`
	Spacing   float64       `yaml:"spacing"`
}

// Positions returns the spawn point of every agent in the group.
func (g SpawnGroup) Positions() []model.Vec3 {
	out := make([]model.Vec3, g.Count)
	for i := range out {
		out[i] = g.Position.Add(model.Vec3{X: float64(i) * g.Spacing})
	}
	return out
}

// Player is a static player stand-in for headless runs.
type Player struct {
	ID       uint32     `yaml:"id"`
	Position model.Vec3 `yaml:"position"`
}

// DefaultSimulation returns a small two-faction skirmish.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:     "info",
		TickInterval: 16 * time.Millisecond,
		Database:     DefaultDatabase(),
		Arena: Arena{
			Min: [2]float64{-60, -60},
			Max: [2]float64{60, 60},
		},
		Obstacles: []Obstacle{
			{Name: "crate", Min: [2]float64{-4, -2}, Max: [2]float64{4, 2}, MinY: 0, MaxY: 3},
		},
		Archetypes: map[string]Archetype{
			"grunt": {Tunables: model.DefaultTunables()},
		},
		Spawns: []SpawnGroup{
			{Archetype: "grunt", Faction: model.FactionHostile, Position: model.Vec3{X: -10, Z: -25}, Count: 5, Spacing: 5},
			{Archetype: "grunt", Faction: model.FactionFriendly, Position: model.Vec3{X: -10, Z: 25}, Count: 5, Spacing: 5},
		},
		Players: []Player{
			{ID: 1, Position: model.Vec3{Z: 35}},
		},
		Projectile: Projectile{
			Speed:  60,
			Range:  40,
			Radius: 0.75,
			Damage: model.DefaultTunables().DamagePerHit,
		},
	}
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := readFile(path)
	if err != nil || data == nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (s Simulation) Validate() error {
	if s.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive, got %v", ErrInvalidConfig, s.TickInterval)
	}
	if s.Duration < 0 {
		return fmt.Errorf("%w: negative duration %v", ErrInvalidConfig, s.Duration)
	}
	if _, err := s.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := s.Database.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := s.Projectile.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if b := s.Arena.Bound(); b.Max != b.Min && (b.Max[0] <= b.Min[0] || b.Max[1] <= b.Min[1]) {
		return fmt.Errorf("%w: arena max must exceed min", ErrInvalidConfig)
	}
	if _, err := s.BuildObstacles(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for name, a := range s.Archetypes {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: archetype %q: %w", ErrInvalidConfig, name, err)
		}
	}

	for i, g := range s.Spawns {
		if _, ok := s.Archetypes[g.Archetype]; !ok {
			return fmt.Errorf("%w: spawn %d: unknown archetype %q", ErrInvalidConfig, i, g.Archetype)
		}
		if !g.Faction.Valid() {
			return fmt.Errorf("%w: spawn %d: invalid faction", ErrInvalidConfig, i)
		}
		if g.Count <= 0 {
			return fmt.Errorf("%w: spawn %d: count must be positive", ErrInvalidConfig, i)
		}
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (s Simulation) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// BuildObstacles converts configured obstacles into geo obstacles.
func (s Simulation) BuildObstacles() ([]geo.Obstacle, error) {
	out := make([]geo.Obstacle, 0, len(s.Obstacles))
	for i, o := range s.Obstacles {
		ob, err := o.Build()
		if err != nil {
			return nil, fmt.Errorf("obstacle %d (%s): %w", i, o.Name, err)
		}
		out = append(out, ob)
	}
	return out, nil
}
