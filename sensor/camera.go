package sensor

import (
	"fmt"
	"math"

	locsim "github.com/milosgajdos/go-locsim"
	"github.com/milosgajdos/go-locsim/landmark"
	"github.com/milosgajdos/go-locsim/rand"
	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config configures Camera.
type Config struct {
	// DistanceRange is visible distance range
	DistanceRange Range `yaml:"distance_range"`
	// DirectionRange is visible bearing range [rad]
	DirectionRange Range `yaml:"direction_range"`
	// DistanceNoiseRate scales range noise with the measured range
	DistanceNoiseRate float64 `yaml:"distance_noise_rate"`
	// DirectionNoise is bearing noise standard deviation [rad]
	DirectionNoise float64 `yaml:"direction_noise"`
	// DistanceBiasStd is standard deviation of the relative range bias
	DistanceBiasStd float64 `yaml:"distance_bias_std"`
	// DirectionBiasStd is standard deviation of the bearing bias [rad]
	DirectionBiasStd float64 `yaml:"direction_bias_std"`
	// PhantomProb is probability of replacing an observation with a phantom
	PhantomProb float64 `yaml:"phantom_prob"`
	// PhantomRegion bounds phantom positions
	PhantomRegion orb.Bound `yaml:"-"`
	// OversightProb is probability of missing an observation
	OversightProb float64 `yaml:"oversight_prob"`
	// OcclusionProb is probability of an observation being occluded
	OcclusionProb float64 `yaml:"occlusion_prob"`
}

// DefaultConfig returns default camera configuration with given visible ranges.
func DefaultConfig(distance, direction Range) Config {
	return Config{
		DistanceRange:     distance,
		DirectionRange:    direction,
		DistanceNoiseRate: 0.1,
		DirectionNoise:    math.Pi / 90.0,
		DistanceBiasStd:   0.1,
		DirectionBiasStd:  math.Pi / 90.0,
		PhantomProb:       0.0,
		PhantomRegion:     orb.Bound{Min: orb.Point{-5.0, -5.0}, Max: orb.Point{5.0, 5.0}},
		OversightProb:     0.1,
		OcclusionProb:     0.0,
	}
}

// Validate checks c and returns error if any parameter is out of its domain.
func (c Config) Validate() error {
	if _, err := newFOV(c.DistanceRange, c.DirectionRange); err != nil {
		return err
	}

	for _, p := range []struct {
		name string
		val  float64
	}{
		{"distance noise rate", c.DistanceNoiseRate},
		{"direction noise", c.DirectionNoise},
		{"distance bias std", c.DistanceBiasStd},
		{"direction bias std", c.DirectionBiasStd},
	} {
		if math.IsNaN(p.val) || math.IsInf(p.val, 0) || p.val < 0 {
			return fmt.Errorf("invalid %s: %v", p.name, p.val)
		}
	}

	for _, p := range []struct {
		name string
		val  float64
	}{
		{"phantom", c.PhantomProb},
		{"oversight", c.OversightProb},
		{"occlusion", c.OcclusionProb},
	} {
		if math.IsNaN(p.val) || p.val < 0 || p.val > 1 {
			return fmt.Errorf("invalid %s probability: %v", p.name, p.val)
		}
	}

	if c.PhantomRegion.Min[0] > c.PhantomRegion.Max[0] || c.PhantomRegion.Min[1] > c.PhantomRegion.Max[1] {
		return fmt.Errorf("invalid phantom region: %v", c.PhantomRegion)
	}

	return nil
}

// Camera is a noisy range-bearing sensor. Besides Gaussian noise and a constant bias
// it produces phantom detections, misses landmarks and reports occluded ranges.
// Occlusion extends the measured range towards the far end of the visible distance range.
type Camera struct {
	fov
	m   *landmark.Map
	cfg Config
	// distanceBias and directionBias are drawn once
	distanceBias  float64
	directionBias float64
	// dice draws event probabilities
	dice     distuv.Uniform
	phantomX distuv.Uniform
	phantomY distuv.Uniform
	// norm draws standard normal noise
	norm     distuv.Normal
	lastData []locsim.Observation
}

// NewCamera creates new Camera observing landmarks in m configured with c,
// drawing randomness from a stream seeded with seed.
// It returns error if c is invalid.
func NewCamera(m *landmark.Map, c Config, seed uint64) (*Camera, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	f, _ := newFOV(c.DistanceRange, c.DirectionRange)
	src := rand.NewSource(seed)

	return &Camera{
		fov:           f,
		m:             m,
		cfg:           c,
		distanceBias:  distuv.Normal{Mu: 0, Sigma: c.DistanceBiasStd, Src: src}.Rand(),
		directionBias: distuv.Normal{Mu: 0, Sigma: c.DirectionBiasStd, Src: src}.Rand(),
		dice:          distuv.Uniform{Min: 0, Max: 1, Src: src},
		phantomX:      distuv.Uniform{Min: c.PhantomRegion.Min[0], Max: c.PhantomRegion.Max[0], Src: src},
		phantomY:      distuv.Uniform{Min: c.PhantomRegion.Min[1], Max: c.PhantomRegion.Max[1], Src: src},
		norm:          distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}, nil
}

// Bias returns relative range bias and bearing bias of the camera.
func (c *Camera) Bias() (distance, direction float64) {
	return c.distanceBias, c.directionBias
}

// Observe returns noisy observations of landmarks in m made from pose p, in map order.
// Missed, occluded out of range and otherwise invisible landmarks are left out.
func (c *Camera) Observe(p locsim.Pose) []locsim.Observation {
	obs := make([]locsim.Observation, 0, c.m.Len())
	for _, l := range c.m.Landmarks() {
		o := c.occlusion(c.phantom(p, ObsFn(p, l.Pos)))
		if c.oversight() {
			continue
		}
		if !c.Visible(o) {
			continue
		}
		obs = append(obs, c.bias(c.noise(o)))
	}
	c.lastData = obs

	return copyObs(obs)
}

// LastData returns the most recent reading.
func (c *Camera) LastData() []locsim.Observation {
	return copyObs(c.lastData)
}

func (c *Camera) phantom(p locsim.Pose, o locsim.Observation) locsim.Observation {
	if c.dice.Rand() < c.cfg.PhantomProb {
		return ObsFn(p, orb.Point{c.phantomX.Rand(), c.phantomY.Rand()})
	}

	return o
}

func (c *Camera) occlusion(o locsim.Observation) locsim.Observation {
	if c.dice.Rand() < c.cfg.OcclusionProb {
		u := c.dice.Rand()
		o.Range += u * (c.distance.Max - o.Range)
	}

	return o
}

func (c *Camera) oversight() bool {
	return c.dice.Rand() < c.cfg.OversightProb
}

func (c *Camera) noise(o locsim.Observation) locsim.Observation {
	o.Range = math.Max(0, o.Range+c.norm.Rand()*o.Range*c.cfg.DistanceNoiseRate)
	o.Bearing += c.norm.Rand() * c.cfg.DirectionNoise

	return o
}

func (c *Camera) bias(o locsim.Observation) locsim.Observation {
	o.Range = math.Max(0, o.Range*(1+c.distanceBias))
	o.Bearing = locsim.WrapAngle(o.Bearing + c.directionBias)

	return o
}
