package sensor

import (
	"math/rand"
	"testing"
)

func TestKindScaling(t *testing.T) {
	params := Params{Radius: 10.0, Lifespan: 40, MobilityFactor: 0.5, FailureProbability: 0.04}

	eco := New(0, KindEconomy, Point{}, params)
	if eco.Radius != 8.0 {
		t.Errorf("economy radius = %v, want 8.0", eco.Radius)
	}
	if eco.FailureProbability != 0.04*1.5 {
		t.Errorf("economy failure probability = %v, want %v", eco.FailureProbability, 0.04*1.5)
	}

	prem := New(1, KindPremium, Point{}, params)
	if prem.Radius != 12.0 {
		t.Errorf("premium radius = %v, want 12.0", prem.Radius)
	}
	if prem.FailureProbability != 0.04*0.5 {
		t.Errorf("premium failure probability = %v, want %v", prem.FailureProbability, 0.04*0.5)
	}
}

func TestDegradeDepletesBattery(t *testing.T) {
	s := New(0, KindEconomy, Point{}, Params{Radius: 10, Lifespan: 100, MobilityFactor: 0, FailureProbability: 0})
	deactivated := s.Degrade(1000)
	if !deactivated {
		t.Fatalf("expected depletion transition")
	}
	if s.Battery != 0 {
		t.Errorf("battery = %v, want exactly 0", s.Battery)
	}
	if s.Active {
		t.Errorf("expected sensor inactive after depletion")
	}
}

func TestDegradeProportional(t *testing.T) {
	s := New(0, KindEconomy, Point{}, Params{Radius: 10, Lifespan: 50, MobilityFactor: 0, FailureProbability: 0})
	s.Degrade(1.0)
	want := 1.0 - 1.0/50
	if diff := s.Battery - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("battery after one step = %v, want %v", s.Battery, want)
	}
	if !s.Active {
		t.Errorf("sensor should still be active")
	}
}

func TestInactiveIsTerminalNoOp(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := New(0, KindEconomy, Point{X: 3, Y: 4, Z: 5}, Params{Radius: 10, Lifespan: 40, MobilityFactor: 1, FailureProbability: 1})

	if !s.CheckFailure(rng) {
		t.Fatalf("failure probability 1 must trigger")
	}
	pos, battery := s.Position, s.Battery

	s.Move(rng, Point{X: 100, Y: 100, Z: 100})
	if s.CheckFailure(rng) {
		t.Errorf("inactive sensor must not fail again")
	}
	if s.Degrade(1.0) {
		t.Errorf("inactive sensor must not deplete")
	}
	if s.Position != pos {
		t.Errorf("inactive sensor moved: %v -> %v", pos, s.Position)
	}
	if s.Battery != battery {
		t.Errorf("inactive sensor degraded: %v -> %v", battery, s.Battery)
	}
	if s.Active {
		t.Errorf("inactive state must be terminal")
	}
}

func TestCoversRequiresActive(t *testing.T) {
	s := New(0, KindEconomy, Point{X: 1, Y: 1, Z: 1}, Params{Radius: 10, Lifespan: 40, MobilityFactor: 0, FailureProbability: 0})
	if !s.Covers(Point{X: 1, Y: 1, Z: 1}) {
		t.Fatalf("active sensor must cover its own position")
	}
	if !s.Covers(Point{X: 5, Y: 1, Z: 1}) {
		t.Errorf("point within radius must be covered")
	}
	if s.Covers(Point{X: 50, Y: 50, Z: 50}) {
		t.Errorf("point beyond radius must not be covered")
	}

	s.Active = false
	if s.Covers(s.Position) {
		t.Errorf("inactive sensor must cover nothing, not even its own position")
	}
}

func TestMoveStaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bounds := Point{X: 5, Y: 5, Z: 5}
	s := New(0, KindEconomy, Point{X: 2.5, Y: 2.5, Z: 2.5}, Params{Radius: 1, Lifespan: 1e9, MobilityFactor: 10, FailureProbability: 0})
	for i := 0; i < 200; i++ {
		s.Move(rng, bounds)
		p := s.Position
		if p.X < 0 || p.X > bounds.X || p.Y < 0 || p.Y > bounds.Y || p.Z < 0 || p.Z > bounds.Z {
			t.Fatalf("position %v escaped bounds %v at move %d", p, bounds, i)
		}
	}
}

func TestPremiumMoveSmoothing(t *testing.T) {
	seed := int64(99)
	start := Point{X: 50, Y: 50, Z: 50}
	bounds := Point{X: 100, Y: 100, Z: 100}
	params := Params{Radius: 10, Lifespan: 40, MobilityFactor: 2, FailureProbability: 0}

	// Replicate the draw with an identical generator to compute the raw
	// clamped position the premium move should blend against.
	ref := rand.New(rand.NewSource(seed))
	raw := Point{
		X: start.X + (ref.Float64()*2-1)*params.MobilityFactor,
		Y: start.Y + (ref.Float64()*2-1)*params.MobilityFactor,
		Z: start.Z + (ref.Float64()*2-1)*params.MobilityFactor,
	}
	want := Point{
		X: 0.7*raw.X + 0.3*start.X,
		Y: 0.7*raw.Y + 0.3*start.Y,
		Z: 0.7*raw.Z + 0.3*start.Z,
	}

	s := New(0, KindPremium, start, params)
	s.Move(rand.New(rand.NewSource(seed)), bounds)

	if s.Position != want {
		t.Errorf("premium first move = %v, want blended %v", s.Position, want)
	}

	// The history keeps the raw clamped position, not the blended one.
	h := s.PositionHistory()
	if len(h) != 2 {
		t.Fatalf("history length = %d, want 2", len(h))
	}
	if h[0] != start || h[1] != raw {
		t.Errorf("history = %v, want [%v %v]", h, start, raw)
	}
}

func TestEconomyMoveNotSmoothed(t *testing.T) {
	seed := int64(99)
	start := Point{X: 50, Y: 50, Z: 50}
	params := Params{Radius: 10, Lifespan: 40, MobilityFactor: 2, FailureProbability: 0}

	ref := rand.New(rand.NewSource(seed))
	raw := Point{
		X: start.X + (ref.Float64()*2-1)*params.MobilityFactor,
		Y: start.Y + (ref.Float64()*2-1)*params.MobilityFactor,
		Z: start.Z + (ref.Float64()*2-1)*params.MobilityFactor,
	}

	s := New(0, KindEconomy, start, params)
	s.Move(rand.New(rand.NewSource(seed)), Point{X: 100, Y: 100, Z: 100})
	if s.Position != raw {
		t.Errorf("economy move = %v, want raw %v", s.Position, raw)
	}
}
