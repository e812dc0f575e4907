package sensor

import (
	"fmt"
	"math"

	locsim "github.com/milosgajdos/go-locsim"
	"github.com/milosgajdos/go-locsim/landmark"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies in r.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

func (r Range) validate(name string) error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
		return fmt.Errorf("invalid %s range: [%v, %v]", name, r.Min, r.Max)
	}

	return nil
}

// ObsFn projects position pos into a range-bearing observation made from pose p.
// Bearing is wrapped into (-Pi, Pi].
func ObsFn(p locsim.Pose, pos orb.Point) locsim.Observation {
	dx, dy := pos[0]-p.X, pos[1]-p.Y

	return locsim.Observation{
		Range:   planar.Distance(orb.Point{p.X, p.Y}, pos),
		Bearing: locsim.WrapAngle(math.Atan2(dy, dx) - p.Theta),
	}
}

// fov is sensor field of view.
type fov struct {
	distance  Range
	direction Range
}

func newFOV(distance, direction Range) (fov, error) {
	if err := distance.validate("distance"); err != nil {
		return fov{}, err
	}

	if distance.Min < 0 {
		return fov{}, fmt.Errorf("invalid distance range: negative minimum %v", distance.Min)
	}

	if err := direction.validate("direction"); err != nil {
		return fov{}, err
	}

	return fov{distance: distance, direction: direction}, nil
}

// Visible reports whether o falls inside the field of view.
func (f fov) Visible(o locsim.Observation) bool {
	return f.distance.Contains(o.Range) && f.direction.Contains(o.Bearing)
}

// DistanceRange returns visible distance range.
func (f fov) DistanceRange() Range {
	return f.distance
}

// DirectionRange returns visible direction range.
func (f fov) DirectionRange() Range {
	return f.direction
}

// Ideal is a noise-free sensor: it projects every landmark and keeps the visible ones.
type Ideal struct {
	fov
	m        *landmark.Map
	lastData []locsim.Observation
}

// NewIdeal creates new ideal sensor observing landmarks in m within the given distance and direction ranges.
// It returns error if either range is invalid.
func NewIdeal(m *landmark.Map, distance, direction Range) (*Ideal, error) {
	f, err := newFOV(distance, direction)
	if err != nil {
		return nil, err
	}

	return &Ideal{fov: f, m: m}, nil
}

// Observe returns observations of all landmarks visible from p, in map order.
func (s *Ideal) Observe(p locsim.Pose) []locsim.Observation {
	obs := make([]locsim.Observation, 0, s.m.Len())
	for _, l := range s.m.Landmarks() {
		o := ObsFn(p, l.Pos)
		if s.Visible(o) {
			obs = append(obs, o)
		}
	}
	s.lastData = obs

	return copyObs(obs)
}

// LastData returns the most recent reading.
func (s *Ideal) LastData() []locsim.Observation {
	return copyObs(s.lastData)
}

func copyObs(obs []locsim.Observation) []locsim.Observation {
	c := make([]locsim.Observation, len(obs))
	copy(c, obs)

	return c
}
