// Package sensor models a single mobile, failure-prone coverage sensor.
package sensor

import (
	"math"
	"math/rand"
)

// Kind selects the capability class of a sensor. Construction-time scaling
// and the premium movement smoothing are the only behavioural differences.
type Kind string

const (
	KindEconomy Kind = "economy"
	KindPremium Kind = "premium"
)

// Construction scaling applied once per kind.
const (
	economyRadiusScale  = 0.8
	economyFailureScale = 1.5
	premiumRadiusScale  = 1.2
	premiumFailureScale = 0.5
)

// Premium movement blends the freshly drawn position with the previously
// recorded one to dampen oscillation.
const (
	smoothingNew  = 0.7
	smoothingPrev = 0.3
)

// Point is a location in the bounded 3D volume.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Params are the raw per-sensor parameters drawn from the configured ranges,
// before kind scaling is applied.
type Params struct {
	Radius             float64
	Lifespan           float64
	MobilityFactor     float64
	FailureProbability float64
}

// Sensor holds the runtime state of one sensor. All stochastic operations
// take an explicit generator; the owning network threads a single seeded
// source through every draw.
type Sensor struct {
	ID                 int
	Kind               Kind
	Position           Point
	Radius             float64
	MobilityFactor     float64
	FailureProbability float64
	Battery            float64
	Active             bool

	initialLifespan float64
	history         []Point
}

// New creates a sensor of the given kind at pos. Kind scaling is applied
// exactly once, here.
func New(id int, kind Kind, pos Point, p Params) *Sensor {
	s := &Sensor{
		ID:                 id,
		Kind:               kind,
		Position:           pos,
		Radius:             p.Radius,
		MobilityFactor:     p.MobilityFactor,
		FailureProbability: p.FailureProbability,
		Battery:            1.0,
		Active:             true,
		initialLifespan:    p.Lifespan,
		history:            []Point{pos},
	}
	switch kind {
	case KindEconomy:
		s.Radius *= economyRadiusScale
		s.FailureProbability *= economyFailureScale
	case KindPremium:
		s.Radius *= premiumRadiusScale
		s.FailureProbability *= premiumFailureScale
	}
	return s
}

// Move draws a displacement with each axis uniform in [-1,1] scaled by the
// mobility factor and clamps the result to the bounding box. Premium sensors
// additionally blend the new position with the previously recorded one; the
// history keeps the raw clamped position, not the blended one.
func (s *Sensor) Move(rng *rand.Rand, bounds Point) {
	if !s.Active {
		return
	}
	next := Point{
		X: clamp(s.Position.X+(rng.Float64()*2-1)*s.MobilityFactor, 0, bounds.X),
		Y: clamp(s.Position.Y+(rng.Float64()*2-1)*s.MobilityFactor, 0, bounds.Y),
		Z: clamp(s.Position.Z+(rng.Float64()*2-1)*s.MobilityFactor, 0, bounds.Z),
	}
	s.history = append(s.history, next)
	if s.Kind == KindPremium && len(s.history) >= 2 {
		prev := s.history[len(s.history)-2]
		next = Point{
			X: smoothingNew*next.X + smoothingPrev*prev.X,
			Y: smoothingNew*next.Y + smoothingPrev*prev.Y,
			Z: smoothingNew*next.Z + smoothingPrev*prev.Z,
		}
	}
	s.Position = next
}

// CheckFailure runs a single Bernoulli trial against the failure probability.
// It reports true only on the transition to inactive, which is terminal.
func (s *Sensor) CheckFailure(rng *rand.Rand) bool {
	if !s.Active {
		return false
	}
	if rng.Float64() < s.FailureProbability {
		s.Active = false
		return true
	}
	return false
}

// Degrade drains the battery proportionally to the elapsed time over the
// initial lifespan and reports true when depletion deactivates the sensor.
func (s *Sensor) Degrade(timeStep float64) bool {
	if !s.Active {
		return false
	}
	s.Battery = math.Max(0, s.Battery-timeStep/s.initialLifespan)
	if s.Battery <= 0 {
		s.Battery = 0
		s.Active = false
		return true
	}
	return false
}

// Covers reports whether p lies within the coverage radius. Inactive sensors
// cover nothing, including their own position.
func (s *Sensor) Covers(p Point) bool {
	return s.Active && Distance(s.Position, p) <= s.Radius
}

// PositionHistory returns a copy of the recorded positions, starting with the
// deployment position.
func (s *Sensor) PositionHistory() []Point {
	h := make([]Point, len(s.history))
	copy(h, s.history)
	return h
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
