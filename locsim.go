package locsim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Pose is a 2D robot pose: position and heading in radians.
// Theta is never wrapped; only bearings derived from it are.
type Pose struct {
	X     float64
	Y     float64
	Theta float64
}

// Vec returns pose as a 3 element column vector [x, y, theta].
func (p Pose) Vec() *mat.VecDense {
	return mat.NewVecDense(3, []float64{p.X, p.Y, p.Theta})
}

// String implements the Stringer interface.
func (p Pose) String() string {
	return fmt.Sprintf("Pose{X=%.4f Y=%.4f Theta=%.4f}", p.X, p.Y, p.Theta)
}

// PoseFromVec creates a Pose from the first three elements of v.
// It returns error if v has fewer than three elements.
func PoseFromVec(v mat.Vector) (Pose, error) {
	if v == nil || v.Len() < 3 {
		return Pose{}, fmt.Errorf("invalid pose vector")
	}

	return Pose{X: v.AtVec(0), Y: v.AtVec(1), Theta: v.AtVec(2)}, nil
}

// Observation is a single range-bearing reading in the sensor frame.
type Observation struct {
	// Range is distance to the observed object; never negative
	Range float64
	// Bearing is angle to the observed object in (-Pi, Pi]
	Bearing float64
}

// WrapAngle wraps a into (-Pi, Pi].
// It returns NaN if a is not finite.
func WrapAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return math.NaN()
	}

	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}

	return a
}

// Sensor observes the environment from a given pose.
type Sensor interface {
	// Observe returns the readings visible from pose p.
	// Every call replaces the previous reading.
	Observe(p Pose) []Observation
	// Visible reports whether a reading falls inside the sensor's field of view
	Visible(o Observation) bool
	// LastData returns the most recent reading
	LastData() []Observation
}

// Actuator applies velocity commands to the true robot pose.
type Actuator interface {
	// Step advances pose p by commanded velocities nu and omega over dt
	Step(p Pose, nu, omega, dt float64) Pose
}

// Agent is a decision policy mapping observations to velocity commands.
type Agent interface {
	// Decide returns commanded linear and angular velocity
	Decide(obs []Observation) (nu, omega float64)
}

// Belief is a population of pose hypotheses.
type Belief interface {
	// MotionUpdate advances every hypothesis by commanded velocities over dt
	MotionUpdate(nu, omega, dt float64) error
	// Poses returns current pose hypotheses
	Poses() []Pose
	// Len returns number of hypotheses
	Len() int
}

// InitCond is initial condition of a belief
type InitCond interface {
	// State returns initial state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}

// Estimate is a state estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Noise is process noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset()
}
