package mcl

import (
	"fmt"
	"math"

	locsim "github.com/milosgajdos/go-locsim"
	"github.com/milosgajdos/go-locsim/estimate"
	"github.com/milosgajdos/go-locsim/motion"
	"github.com/milosgajdos/go-locsim/noise"
	"github.com/milosgajdos/go-locsim/rand"
	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NoiseDim is the number of motion noise channels: [nu-nu, nu-omega, omega-nu, omega-omega]
const NoiseDim = 4

// MCL is the motion half of a Monte Carlo Localization belief.
// For more information about Monte Carlo Localization see:
// https://en.wikipedia.org/wiki/Monte_Carlo_localization
type MCL struct {
	// x stores particle poses as column vectors [x, y, theta]
	x *mat.Dense
	// q is motion noise a.k.a. process noise
	q locsim.Noise
}

// New creates new MCL belief with the following parameters and returns it:
// - ic:    initial condition: particles are drawn around ic.State() with covariance ic.Cov()
// - q:     motion noise of dimension NoiseDim; nil means no noise
// - p:     number of particles
// - seed:  seed of the random stream used to spread the initial particles
// New returns error if non-positive number of particles is given or if the particles fail to be generated.
func New(ic locsim.InitCond, q locsim.Noise, p int, seed uint64) (*MCL, error) {
	// must have at least one particle; can't be negative
	if p <= 0 {
		return nil, fmt.Errorf("invalid particle count: %d", p)
	}

	if ic == nil || ic.State().Len() != 3 || ic.Cov().SymmetricDim() != 3 {
		return nil, fmt.Errorf("invalid initial condition: expected 3D pose state")
	}

	if q != nil {
		if q.Cov().SymmetricDim() != NoiseDim {
			return nil, fmt.Errorf("invalid motion noise dimension: %d", q.Cov().SymmetricDim())
		}
	} else {
		q, _ = noise.NewZero(NoiseDim)
	}

	// draw particles from distribution with covariance ic.Cov()
	x, err := rand.WithCovN(ic.Cov(), p, rand.NewSource(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to generate particles: %v", err)
	}

	rows, cols := x.Dims()
	// center particles around initial state
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			x.Set(r, c, x.At(r, c)+ic.State().AtVec(r))
		}
	}

	return &MCL{
		x: x,
		q: q,
	}, nil
}

// MotionUpdate moves every particle by commanded velocities nu and omega over dt.
// Each particle draws its own motion noise sample which perturbs the velocities in proportion
// to sqrt(|nu|/dt) and sqrt(|omega|/dt) before the particle pose is advanced.
// It returns error if dt is not positive.
func (m *MCL) MotionUpdate(nu, omega, dt float64) error {
	if !(dt > 0) {
		return fmt.Errorf("invalid time step: %v", dt)
	}

	sNu := math.Sqrt(math.Abs(nu) / dt)
	sOmega := math.Sqrt(math.Abs(omega) / dt)

	_, cols := m.x.Dims()
	for c := 0; c < cols; c++ {
		ns := m.q.Sample()
		noisedNu := nu + ns.AtVec(0)*sNu + ns.AtVec(1)*sOmega
		noisedOmega := omega + ns.AtVec(2)*sNu + ns.AtVec(3)*sOmega

		p := motion.StateTransition(m.pose(c), noisedNu, noisedOmega, dt)
		m.x.SetCol(c, []float64{p.X, p.Y, p.Theta})
	}

	return nil
}

func (m *MCL) pose(c int) locsim.Pose {
	return locsim.Pose{X: m.x.At(0, c), Y: m.x.At(1, c), Theta: m.x.At(2, c)}
}

// Len returns number of particles.
func (m *MCL) Len() int {
	_, cols := m.x.Dims()
	return cols
}

// Poses returns particle poses.
func (m *MCL) Poses() []locsim.Pose {
	poses := make([]locsim.Pose, m.Len())
	for c := range poses {
		poses[c] = m.pose(c)
	}

	return poses
}

// Particles returns MCL particles stored in matrix columns.
func (m *MCL) Particles() mat.Matrix {
	p := &mat.Dense{}
	p.CloneFrom(m.x)

	return p
}

// Estimate returns mean particle pose and particle covariance.
// Mean heading is the circular mean wrapped into (-Pi, Pi] and heading covariance is
// computed from particle heading deviations from the circular mean.
// It returns error if the covariance fails to be computed.
func (m *MCL) Estimate() (locsim.Estimate, error) {
	return m.estimate()
}

// MeanPose returns mean particle pose.
// It returns error if the particle estimate fails to be computed.
func (m *MCL) MeanPose() (locsim.Pose, error) {
	est, err := m.estimate()
	if err != nil {
		return locsim.Pose{}, err
	}

	return est.Pose()
}

func (m *MCL) estimate() (*estimate.Base, error) {
	n := float64(m.Len())

	theta := m.x.RawRowView(2)
	sin := make([]float64, len(theta))
	cos := make([]float64, len(theta))
	for i, t := range theta {
		sin[i], cos[i] = math.Sincos(t)
	}
	meanTheta := locsim.WrapAngle(math.Atan2(floats.Sum(sin), floats.Sum(cos)))

	mean := mat.NewVecDense(3, []float64{
		floats.Sum(m.x.RawRowView(0)) / n,
		floats.Sum(m.x.RawRowView(1)) / n,
		meanTheta,
	})

	if m.Len() < 2 {
		return estimate.NewBase(mean)
	}

	// headings unwrapped around the circular mean
	x := &mat.Dense{}
	x.CloneFrom(m.x)
	for c, t := range theta {
		x.Set(2, c, meanTheta+locsim.WrapAngle(t-meanTheta))
	}

	cov, err := matrix.Cov(x, "cols")
	if err != nil {
		return nil, fmt.Errorf("failed to calculate covariance matrix: %v", err)
	}

	return estimate.NewBaseWithCov(mean, cov)
}
