package sim

import locsim "github.com/milosgajdos/go-locsim"

// Fixed is an agent which always commands the same velocities regardless of what it observes.
type Fixed struct {
	// Nu is commanded linear velocity
	Nu float64
	// Omega is commanded angular velocity
	Omega float64
}

// NewFixed creates new Fixed agent and returns it.
func NewFixed(nu, omega float64) *Fixed {
	return &Fixed{Nu: nu, Omega: omega}
}

// Decide returns the fixed velocity command.
func (f *Fixed) Decide(obs []locsim.Observation) (nu, omega float64) {
	return f.Nu, f.Omega
}
