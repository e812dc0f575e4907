package motion

import (
	"math"

	locsim "github.com/milosgajdos/go-locsim"
)

// Epsilon is the angular velocity magnitude below which motion is integrated as a straight line.
const Epsilon = 1e-10

// StateTransition advances pose p by linear velocity nu and angular velocity omega over dt
// along a constant-curvature arc and returns the new pose. Heading is not wrapped.
func StateTransition(p locsim.Pose, nu, omega, dt float64) locsim.Pose {
	theta := p.Theta

	if math.Abs(omega) < Epsilon {
		return locsim.Pose{
			X:     p.X + nu*math.Cos(theta)*dt,
			Y:     p.Y + nu*math.Sin(theta)*dt,
			Theta: theta + omega*dt,
		}
	}

	return locsim.Pose{
		X:     p.X + nu/omega*(math.Sin(theta+omega*dt)-math.Sin(theta)),
		Y:     p.Y + nu/omega*(-math.Cos(theta+omega*dt)+math.Cos(theta)),
		Theta: theta + omega*dt,
	}
}

// Ideal actuates commands exactly.
type Ideal struct{}

// NewIdeal creates new ideal actuator and returns it.
func NewIdeal() *Ideal {
	return &Ideal{}
}

// Step advances pose p by nu and omega over dt without any disturbance.
func (i *Ideal) Step(p locsim.Pose, nu, omega, dt float64) locsim.Pose {
	return StateTransition(p, nu, omega, dt)
}
