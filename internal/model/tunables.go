package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTunables is returned by Tunables.Validate.
var ErrInvalidTunables = errors.New("invalid agent tunables")

// Tunables holds per-archetype agent parameters.
// Distances are world units, speeds and forces are world units per tick.
type Tunables struct {
	// Kinematics
	MaxSpeed          float64 `yaml:"max_speed"`
	MaxForce          float64 `yaml:"max_force"`
	DetectionDistance float64 `yaml:"detection_distance"`
	ShootingDistance  float64 `yaml:"shooting_distance"`
	KeepDistance      float64 `yaml:"keep_distance"`
	ArriveRadius      float64 `yaml:"arrive_radius"`
	SmoothingFactor   float64 `yaml:"smoothing_factor"`

	// Blend weights
	PursuitWeight    float64 `yaml:"pursuit_weight"`
	SeparationWeight float64 `yaml:"separation_weight"`
	WanderWeight     float64 `yaml:"wander_weight"`

	// Separation; the force cap is SeparationForceScale × MaxForce
	DesiredSeparation    float64 `yaml:"desired_separation"`
	SeparationForceScale float64 `yaml:"separation_force_scale"`

	// Wander circle
	WanderRadius   float64 `yaml:"wander_radius"`
	WanderDistance float64 `yaml:"wander_distance"`
	WanderChange   float64 `yaml:"wander_change"`

	// Targeting
	MinAllyDistance float64 `yaml:"min_ally_distance"` // circle instead of colliding with an allied target
	FormationSpread float64 `yaml:"formation_spread"`  // pursuit point offset along the formation angle

	// Body / navigation
	Height                  float64 `yaml:"height"`
	CollisionMargin         float64 `yaml:"collision_margin"`
	ProbeRadius             float64 `yaml:"probe_radius"`
	StuckCheckInterval      int     `yaml:"stuck_check_interval"` // ticks
	StuckThreshold          float64 `yaml:"stuck_threshold"`
	TeleportAfterStuckCount int     `yaml:"teleport_after_stuck_count"`

	// Combat
	ShootCooldown time.Duration `yaml:"shoot_cooldown"`
	DamagePerHit  int32         `yaml:"damage_per_hit"`
	MuzzleHeight  float64       `yaml:"muzzle_height"`
	MuzzleOffset  float64       `yaml:"muzzle_offset"`

	// Health
	MaxHealth       int32         `yaml:"max_health"`
	HitRecoveryTime time.Duration `yaml:"hit_recovery_time"`
}

// DefaultTunables returns the baseline infantry archetype.
func DefaultTunables() Tunables {
	return Tunables{
		MaxSpeed:          0.15,
		MaxForce:          0.1,
		DetectionDistance: 30,
		ShootingDistance:  15,
		KeepDistance:      6,
		ArriveRadius:      10,
		SmoothingFactor:   0.1,

		PursuitWeight:    1.5,
		SeparationWeight: 2.0,
		WanderWeight:     1.0,

		DesiredSeparation:    4.0,
		SeparationForceScale: 2.0,

		WanderRadius:   2,
		WanderDistance: 4,
		WanderChange:   0.3,

		MinAllyDistance: 3,
		FormationSpread: 1.5,

		Height:                  2,
		CollisionMargin:         0.5,
		ProbeRadius:             1.5,
		StuckCheckInterval:      60,
		StuckThreshold:          0.5,
		TeleportAfterStuckCount: 3,

		ShootCooldown: 2 * time.Second,
		DamagePerHit:  34,
		MuzzleHeight:  1.5,
		MuzzleOffset:  1.0,

		MaxHealth:       100,
		HitRecoveryTime: 500 * time.Millisecond,
	}
}

// Validate checks that tunables describe a movable, killable agent.
func (t Tunables) Validate() error {
	switch {
	case t.MaxSpeed <= 0:
		return fmt.Errorf("%w: max_speed must be positive, got %v", ErrInvalidTunables, t.MaxSpeed)
	case t.MaxForce <= 0:
		return fmt.Errorf("%w: max_force must be positive, got %v", ErrInvalidTunables, t.MaxForce)
	case t.SmoothingFactor <= 0 || t.SmoothingFactor > 1:
		return fmt.Errorf("%w: smoothing_factor must be in (0,1], got %v", ErrInvalidTunables, t.SmoothingFactor)
	case t.DetectionDistance < 0 || t.ShootingDistance < 0:
		return fmt.Errorf("%w: detection/shooting distance must not be negative", ErrInvalidTunables)
	case t.KeepDistance < 0 || t.ArriveRadius < 0:
		return fmt.Errorf("%w: keep_distance/arrive_radius must not be negative", ErrInvalidTunables)
	case t.StuckCheckInterval <= 0:
		return fmt.Errorf("%w: stuck_check_interval must be positive, got %d", ErrInvalidTunables, t.StuckCheckInterval)
	case t.TeleportAfterStuckCount <= 0:
		return fmt.Errorf("%w: teleport_after_stuck_count must be positive, got %d", ErrInvalidTunables, t.TeleportAfterStuckCount)
	case t.MaxHealth <= 0:
		return fmt.Errorf("%w: max_health must be positive, got %d", ErrInvalidTunables, t.MaxHealth)
	case t.ShootCooldown < 0 || t.HitRecoveryTime < 0:
		return fmt.Errorf("%w: cooldowns must not be negative", ErrInvalidTunables)
	}
	return nil
}
