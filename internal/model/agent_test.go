package model

import (
	"errors"
	"testing"
)

func TestNewAgent(t *testing.T) {
	tun := DefaultTunables()
	a := NewAgent(7, FactionHostile, "grunt", Vec3{X: 1, Y: 2, Z: 3}, tun)

	if a.CurrentHealth != tun.MaxHealth {
		t.Errorf("CurrentHealth = %d, want %d", a.CurrentHealth, tun.MaxHealth)
	}
	if a.SpawnHeight != 2 {
		t.Errorf("SpawnHeight = %v, want 2", a.SpawnHeight)
	}
	if a.State != StateWander {
		t.Errorf("State = %v, want WANDER", a.State)
	}
	if last, ok := a.Recent.Last(); !ok || last != a.Position {
		t.Errorf("Recent.Last() = %v, %v; want spawn position recorded", last, ok)
	}
	if got := a.ProbeOrigin().Y; got != 2+tun.Height/2 {
		t.Errorf("ProbeOrigin().Y = %v, want %v", got, 2+tun.Height/2)
	}
}

func TestAgent_MarkClipMissingOnce(t *testing.T) {
	a := NewAgent(1, FactionFriendly, "", Vec3{}, DefaultTunables())

	if !a.MarkClipMissing(ClipShoot) {
		t.Error("first MarkClipMissing(shoot) = false, want true")
	}
	if a.MarkClipMissing(ClipShoot) {
		t.Error("second MarkClipMissing(shoot) = true, want false")
	}
	if !a.MarkClipMissing(ClipRun) {
		t.Error("MarkClipMissing(run) = false, want true (independent slot)")
	}
}

func TestPositionRing(t *testing.T) {
	var r PositionRing
	if _, ok := r.Last(); ok {
		t.Fatal("empty ring Last() ok = true")
	}

	for i := range PositionRingSize + 3 {
		r.Push(Vec3{X: float64(i)})
	}

	if r.Len() != PositionRingSize {
		t.Errorf("Len() = %d, want %d", r.Len(), PositionRingSize)
	}
	last, _ := r.Last()
	if last.X != float64(PositionRingSize+2) {
		t.Errorf("Last().X = %v, want %d", last.X, PositionRingSize+2)
	}
	samples := r.Samples()
	if samples[0].X != 3 {
		t.Errorf("oldest sample X = %v, want 3", samples[0].X)
	}

	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", r.Len())
	}
}

func TestFaction(t *testing.T) {
	if FactionHostile.Opponent() != FactionFriendly || FactionFriendly.Opponent() != FactionHostile {
		t.Error("Opponent() is not symmetric")
	}

	var f Faction
	if err := f.UnmarshalText([]byte("Friendly")); err != nil || f != FactionFriendly {
		t.Errorf("UnmarshalText(Friendly) = %v, %v", f, err)
	}
	if err := f.UnmarshalText([]byte("neutral")); err == nil {
		t.Error("UnmarshalText(neutral) should fail")
	}
}

func TestTunables_Validate(t *testing.T) {
	if err := DefaultTunables().Validate(); err != nil {
		t.Fatalf("DefaultTunables().Validate() = %v", err)
	}

	bad := DefaultTunables()
	bad.MaxSpeed = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTunables) {
		t.Errorf("Validate() = %v, want ErrInvalidTunables", err)
	}

	bad = DefaultTunables()
	bad.SmoothingFactor = 1.5
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTunables) {
		t.Errorf("Validate() = %v, want ErrInvalidTunables", err)
	}
}
