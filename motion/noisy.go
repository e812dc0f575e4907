package motion

import (
	"fmt"
	"math"

	locsim "github.com/milosgajdos/go-locsim"
	"github.com/milosgajdos/go-locsim/rand"
	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// eps keeps exponential rates finite when an expected value is zero
	eps = 1e-100
	// TurnPenalty converts turned angle to equivalent travelled distance for odometry noise
	TurnPenalty = 0.2
)

// Config configures Noisy actuation.
// All values must be non-negative.
type Config struct {
	// NoisePerMeter parametrizes the distance between heading perturbations
	NoisePerMeter float64 `yaml:"noise_per_meter"`
	// NoiseStd is standard deviation of a heading perturbation [rad]
	NoiseStd float64 `yaml:"noise_std"`
	// BiasStdNu is standard deviation of the linear velocity bias multiplier
	BiasStdNu float64 `yaml:"bias_std_nu"`
	// BiasStdOmega is standard deviation of the angular velocity bias multiplier
	BiasStdOmega float64 `yaml:"bias_std_omega"`
	// ExpectedStuckTime is expected time between getting stuck; 0 or +Inf disables sticking
	ExpectedStuckTime float64 `yaml:"expected_stuck_time"`
	// ExpectedEscapeTime is expected time spent stuck
	ExpectedEscapeTime float64 `yaml:"expected_escape_time"`
	// ExpectedKidnapTime is expected time between kidnappings; 0 or +Inf disables kidnapping
	ExpectedKidnapTime float64 `yaml:"expected_kidnap_time"`
	// KidnapRegion bounds the positions a kidnapped robot lands on
	KidnapRegion orb.Bound `yaml:"-"`
}

// DefaultConfig returns the default noisy actuation configuration.
func DefaultConfig() Config {
	return Config{
		NoisePerMeter:      5.0,
		NoiseStd:           math.Pi / 60.0,
		BiasStdNu:          0.1,
		BiasStdOmega:       0.1,
		ExpectedStuckTime:  math.Inf(1),
		ExpectedEscapeTime: eps,
		ExpectedKidnapTime: math.Inf(1),
		KidnapRegion:       orb.Bound{Min: orb.Point{-5.0, -5.0}, Max: orb.Point{5.0, 5.0}},
	}
}

// Validate checks c and returns error if any parameter is out of its domain.
func (c Config) Validate() error {
	for _, p := range []struct {
		name string
		val  float64
	}{
		{"noise per meter", c.NoisePerMeter},
		{"noise std", c.NoiseStd},
		{"nu bias std", c.BiasStdNu},
		{"omega bias std", c.BiasStdOmega},
		{"expected stuck time", c.ExpectedStuckTime},
		{"expected escape time", c.ExpectedEscapeTime},
		{"expected kidnap time", c.ExpectedKidnapTime},
	} {
		if math.IsNaN(p.val) || p.val < 0 {
			return fmt.Errorf("invalid %s: %v", p.name, p.val)
		}
	}

	if math.IsInf(c.NoisePerMeter, 0) || math.IsInf(c.NoiseStd, 0) ||
		math.IsInf(c.BiasStdNu, 0) || math.IsInf(c.BiasStdOmega, 0) {
		return fmt.Errorf("noise and bias parameters must be finite")
	}

	if c.KidnapRegion.Min[0] > c.KidnapRegion.Max[0] || c.KidnapRegion.Min[1] > c.KidnapRegion.Max[1] {
		return fmt.Errorf("invalid kidnap region: %v", c.KidnapRegion)
	}

	return nil
}

// Noisy actuates commands subject to velocity bias, getting stuck,
// odometry heading noise and kidnapping.
type Noisy struct {
	// biasNu and biasOmega are velocity multipliers drawn once
	biasNu    float64
	biasOmega float64
	// noiseDist draws distance until the next heading perturbation
	noiseDist distuv.Exponential
	// thetaNoise draws heading perturbations
	thetaNoise distuv.Normal
	// stuckDist and escapeDist draw time spent moving and stuck
	stuckDist  distuv.Exponential
	escapeDist distuv.Exponential
	// kidnapDist draws time until the next kidnapping
	kidnapDist distuv.Exponential
	// kidnap* draw kidnapped poses
	kidnapX     distuv.Uniform
	kidnapY     distuv.Uniform
	kidnapTheta distuv.Uniform
	// stuckOn and kidnapOn are false when the effect is disabled
	stuckOn  bool
	kidnapOn bool

	distUntilNoise  float64
	timeUntilStuck  float64
	timeUntilEscape float64
	timeUntilKidnap float64
	stuck           bool
}

// NewNoisy creates new Noisy actuator with config c drawing randomness from a stream seeded with seed.
// It returns error if c is invalid.
func NewNoisy(c Config, seed uint64) (*Noisy, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	src := rand.NewSource(seed)

	n := &Noisy{
		noiseDist:   distuv.Exponential{Rate: 1.0 / (eps + c.NoisePerMeter), Src: src},
		thetaNoise:  distuv.Normal{Mu: 0, Sigma: c.NoiseStd, Src: src},
		stuckDist:   distuv.Exponential{Rate: 1.0 / (eps + c.ExpectedStuckTime), Src: src},
		escapeDist:  distuv.Exponential{Rate: 1.0 / (eps + c.ExpectedEscapeTime), Src: src},
		kidnapDist:  distuv.Exponential{Rate: 1.0 / (eps + c.ExpectedKidnapTime), Src: src},
		kidnapX:     distuv.Uniform{Min: c.KidnapRegion.Min[0], Max: c.KidnapRegion.Max[0], Src: src},
		kidnapY:     distuv.Uniform{Min: c.KidnapRegion.Min[1], Max: c.KidnapRegion.Max[1], Src: src},
		kidnapTheta: distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src},
		stuckOn:     enabled(c.ExpectedStuckTime),
		kidnapOn:    enabled(c.ExpectedKidnapTime),
	}

	n.distUntilNoise = n.noiseDist.Rand()
	n.biasNu = distuv.Normal{Mu: 1, Sigma: c.BiasStdNu, Src: src}.Rand()
	n.biasOmega = distuv.Normal{Mu: 1, Sigma: c.BiasStdOmega, Src: src}.Rand()

	n.timeUntilStuck = math.Inf(1)
	if n.stuckOn {
		n.timeUntilStuck = n.stuckDist.Rand()
	}
	n.timeUntilEscape = n.escapeDist.Rand()

	n.timeUntilKidnap = math.Inf(1)
	if n.kidnapOn {
		n.timeUntilKidnap = n.kidnapDist.Rand()
	}

	return n, nil
}

func enabled(expected float64) bool {
	return expected > 0 && !math.IsInf(expected, 1)
}

// Bias returns linear and angular velocity bias multipliers.
func (n *Noisy) Bias() (nu, omega float64) {
	return n.biasNu, n.biasOmega
}

// Stuck reports whether the robot is currently stuck.
func (n *Noisy) Stuck() bool {
	return n.stuck
}

// Step advances pose p by commanded velocities nu and omega over dt.
// The command is biased, zeroed while stuck and integrated exactly; the resulting pose is then
// subject to odometry heading noise and kidnapping.
func (n *Noisy) Step(p locsim.Pose, nu, omega, dt float64) locsim.Pose {
	nu, omega = n.bias(nu, omega)
	nu, omega = n.stick(nu, omega, dt)
	p = StateTransition(p, nu, omega, dt)
	p = n.noise(p, nu, omega, dt)

	return n.kidnap(p, dt)
}

func (n *Noisy) bias(nu, omega float64) (float64, float64) {
	return nu * n.biasNu, omega * n.biasOmega
}

func (n *Noisy) stick(nu, omega, dt float64) (float64, float64) {
	if n.stuck {
		n.timeUntilEscape -= dt
		if n.timeUntilEscape <= 0 {
			n.timeUntilEscape += n.escapeDist.Rand()
			n.stuck = false
		}
	} else {
		n.timeUntilStuck -= dt
		if n.timeUntilStuck <= 0 {
			n.timeUntilStuck += n.stuckDist.Rand()
			n.stuck = true
		}
	}

	if n.stuck {
		return 0, 0
	}

	return nu, omega
}

func (n *Noisy) noise(p locsim.Pose, nu, omega, dt float64) locsim.Pose {
	n.distUntilNoise -= math.Abs(nu)*dt + TurnPenalty*math.Abs(omega)*dt
	if n.distUntilNoise <= 0 {
		n.distUntilNoise += n.noiseDist.Rand()
		p.Theta += n.thetaNoise.Rand()
	}

	return p
}

func (n *Noisy) kidnap(p locsim.Pose, dt float64) locsim.Pose {
	if !n.kidnapOn {
		return p
	}

	n.timeUntilKidnap -= dt
	if n.timeUntilKidnap <= 0 {
		n.timeUntilKidnap += n.kidnapDist.Rand()
		return locsim.Pose{
			X:     n.kidnapX.Rand(),
			Y:     n.kidnapY.Rand(),
			Theta: n.kidnapTheta.Rand(),
		}
	}

	return p
}
