package scenario

import (
	"fmt"
	"math"
	"os"

	locsim "github.com/milosgajdos/go-locsim"
	"github.com/milosgajdos/go-locsim/landmark"
	"github.com/milosgajdos/go-locsim/motion"
	"github.com/milosgajdos/go-locsim/noise"
	"github.com/milosgajdos/go-locsim/particle/mcl"
	"github.com/milosgajdos/go-locsim/sensor"
	"github.com/milosgajdos/go-locsim/sim"
	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Actuator types
const (
	IdealActuator = "ideal"
	NoisyActuator = "noisy"
)

// Sensor types
const (
	NoSensor     = "none"
	IdealSensor  = "ideal"
	CameraSensor = "camera"
)

// Scenario describes a simulation run.
type Scenario struct {
	// Seed is the base seed every robot derives its random streams from
	Seed uint64 `yaml:"seed"`
	// TimeSpan is simulated time [s]
	TimeSpan float64 `yaml:"time_span"`
	// Dt is tick length [s]
	Dt float64 `yaml:"dt"`
	// Landmarks are landmark positions [x, y]
	Landmarks [][]float64 `yaml:"landmarks"`
	// Robots are simulated robots
	Robots []Robot `yaml:"robots"`
}

// Pose is robot pose.
type Pose struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Theta float64 `yaml:"theta"`
}

// Region is a rectangular region.
type Region struct {
	X sensor.Range `yaml:"x"`
	Y sensor.Range `yaml:"y"`
}

// Bound returns region as orb.Bound.
func (r Region) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{r.X.Min, r.Y.Min}, Max: orb.Point{r.X.Max, r.Y.Max}}
}

// Agent is a fixed velocity agent.
type Agent struct {
	Nu    float64 `yaml:"nu"`
	Omega float64 `yaml:"omega"`
}

// Actuator configures robot actuator.
// Parameters which are not set keep their motion.DefaultConfig values.
type Actuator struct {
	Type          string `yaml:"type"`
	motion.Config `yaml:",inline"`
	KidnapRegion  *Region `yaml:"kidnap_region"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Actuator) UnmarshalYAML(value *yaml.Node) error {
	type plain Actuator
	p := plain{Type: NoisyActuator, Config: motion.DefaultConfig()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	if p.KidnapRegion != nil {
		p.Config.KidnapRegion = p.KidnapRegion.Bound()
	}
	*a = Actuator(p)

	return nil
}

// Sensor configures robot sensor.
// Parameters which are not set keep their sensor.DefaultConfig values.
type Sensor struct {
	Type          string `yaml:"type"`
	sensor.Config `yaml:",inline"`
	PhantomRegion *Region `yaml:"phantom_region"`
}

// DefaultDistanceRange and DefaultDirectionRange are default sensor visible ranges
var (
	DefaultDistanceRange  = sensor.Range{Min: 0.5, Max: 6.0}
	DefaultDirectionRange = sensor.Range{Min: -math.Pi / 3, Max: math.Pi / 3}
)

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Sensor) UnmarshalYAML(value *yaml.Node) error {
	type plain Sensor
	p := plain{Type: CameraSensor, Config: sensor.DefaultConfig(DefaultDistanceRange, DefaultDirectionRange)}
	if err := value.Decode(&p); err != nil {
		return err
	}
	if p.PhantomRegion != nil {
		p.Config.PhantomRegion = p.PhantomRegion.Bound()
	}
	*s = Sensor(p)

	return nil
}

// DefaultMotionNoise are default standard deviations of MCL motion noise
// in order [nu-nu, nu-omega, omega-nu, omega-omega].
var DefaultMotionNoise = []float64{0.18462, 0.001, 0.02264, 0.018462}

// MCL configures robot particle belief.
type MCL struct {
	// Particles is number of particles
	Particles int `yaml:"particles"`
	// MotionNoise are standard deviations of motion noise channels
	MotionNoise []float64 `yaml:"motion_noise"`
	// InitStd are standard deviations of initial particle spread in x, y, theta
	InitStd []float64 `yaml:"init_std"`
}

// Robot configures a single robot.
type Robot struct {
	Pose     Pose      `yaml:"pose"`
	Agent    Agent     `yaml:"agent"`
	Actuator *Actuator `yaml:"actuator"`
	Sensor   *Sensor   `yaml:"sensor"`
	MCL      *MCL      `yaml:"mcl"`
}

// Load loads scenario from a YAML file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("scenario file not found: %s", path)
		}
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	return Parse(data)
}

// Parse parses YAML scenario from data and validates it.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func nonNegative(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}

	return true
}

// Validate checks s and returns error if any of its fields is invalid.
func (s *Scenario) Validate() error {
	if !(s.Dt > 0) || math.IsInf(s.Dt, 1) {
		return fmt.Errorf("dt must be positive")
	}
	if !(s.TimeSpan >= 0) || math.IsInf(s.TimeSpan, 1) {
		return fmt.Errorf("time_span must be non-negative")
	}

	for i, l := range s.Landmarks {
		if len(l) != 2 {
			return fmt.Errorf("landmarks[%d] must be [x, y]", i)
		}
	}

	if len(s.Robots) == 0 {
		return fmt.Errorf("at least one robot must be defined")
	}

	for i, r := range s.Robots {
		if r.Actuator != nil {
			switch r.Actuator.Type {
			case IdealActuator:
			case NoisyActuator:
				if err := r.Actuator.Config.Validate(); err != nil {
					return fmt.Errorf("robots[%d].actuator: %w", i, err)
				}
			default:
				return fmt.Errorf("robots[%d].actuator: unknown type %q", i, r.Actuator.Type)
			}
		}

		if r.Sensor != nil {
			switch r.Sensor.Type {
			case NoSensor, IdealSensor, CameraSensor:
				if err := r.Sensor.Config.Validate(); err != nil {
					return fmt.Errorf("robots[%d].sensor: %w", i, err)
				}
			default:
				return fmt.Errorf("robots[%d].sensor: unknown type %q", i, r.Sensor.Type)
			}
		}

		if r.MCL != nil {
			if r.MCL.Particles <= 0 {
				return fmt.Errorf("robots[%d].mcl.particles must be positive", i)
			}
			if r.MCL.MotionNoise != nil && (len(r.MCL.MotionNoise) != mcl.NoiseDim || !nonNegative(r.MCL.MotionNoise)) {
				return fmt.Errorf("robots[%d].mcl.motion_noise must be %d non-negative values", i, mcl.NoiseDim)
			}
			if r.MCL.InitStd != nil && (len(r.MCL.InitStd) != 3 || !nonNegative(r.MCL.InitStd)) {
				return fmt.Errorf("robots[%d].mcl.init_std must be 3 non-negative values", i)
			}
		}
	}

	return nil
}

// diag creates a diagonal covariance matrix from standard deviations std.
func diag(std []float64) *mat.SymDense {
	cov := mat.NewSymDense(len(std), nil)
	for i, s := range std {
		cov.SetSym(i, i, s*s)
	}

	return cov
}

// Build builds a simulation world from s.
// Every robot i draws its random streams from seeds derived from Seed and i.
func (s *Scenario) Build() (*sim.World, error) {
	m := landmark.NewMap()
	for _, l := range s.Landmarks {
		m.Append(orb.Point{l[0], l[1]})
	}

	w, err := sim.NewWorld(m, s.TimeSpan, s.Dt)
	if err != nil {
		return nil, err
	}

	for i, rc := range s.Robots {
		seed := s.Seed + 4*uint64(i)

		r, err := rc.build(m, seed)
		if err != nil {
			return nil, fmt.Errorf("robots[%d]: %w", i, err)
		}
		w.Add(r)
	}

	return w, nil
}

func (rc Robot) build(m *landmark.Map, seed uint64) (*sim.Robot, error) {
	pose := locsim.Pose{X: rc.Pose.X, Y: rc.Pose.Y, Theta: rc.Pose.Theta}

	var a locsim.Actuator = motion.NewIdeal()
	if rc.Actuator != nil && rc.Actuator.Type == NoisyActuator {
		n, err := motion.NewNoisy(rc.Actuator.Config, seed)
		if err != nil {
			return nil, err
		}
		a = n
	}

	var s locsim.Sensor
	if rc.Sensor != nil {
		switch rc.Sensor.Type {
		case IdealSensor:
			i, err := sensor.NewIdeal(m, rc.Sensor.DistanceRange, rc.Sensor.DirectionRange)
			if err != nil {
				return nil, err
			}
			s = i
		case CameraSensor:
			c, err := sensor.NewCamera(m, rc.Sensor.Config, seed+1)
			if err != nil {
				return nil, err
			}
			s = c
		}
	}

	var b locsim.Belief
	if rc.MCL != nil {
		std := rc.MCL.MotionNoise
		if std == nil {
			std = DefaultMotionNoise
		}
		q, err := noise.NewGaussian(make([]float64, mcl.NoiseDim), diag(std), seed+2)
		if err != nil {
			return nil, err
		}

		initCov := mat.NewSymDense(3, nil)
		if rc.MCL.InitStd != nil {
			initCov = diag(rc.MCL.InitStd)
		}

		f, err := mcl.New(sim.NewPoseInitCond(pose, initCov), q, rc.MCL.Particles, seed+3)
		if err != nil {
			return nil, err
		}
		b = f
	}

	return sim.NewRobot(pose, a, s, sim.NewFixed(rc.Agent.Nu, rc.Agent.Omega), b)
}
