package sim

import (
	locsim "github.com/milosgajdos/go-locsim"
	"gonum.org/v1/gonum/mat"
)

// InitCond implements locsim.InitCond
type InitCond struct {
	state *mat.VecDense
	cov   *mat.SymDense
}

// NewInitCond creates new InitCond and returns it
func NewInitCond(state mat.Vector, cov mat.Symmetric) *InitCond {
	s := &mat.VecDense{}
	s.CloneFromVec(state)

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	return &InitCond{
		state: s,
		cov:   c,
	}
}

// NewPoseInitCond creates new InitCond centered at pose p.
// If cov is nil the initial condition has zero covariance.
func NewPoseInitCond(p locsim.Pose, cov mat.Symmetric) *InitCond {
	if cov == nil {
		cov = mat.NewSymDense(3, nil)
	}

	return NewInitCond(p.Vec(), cov)
}

// State returns initial state
func (c *InitCond) State() mat.Vector {
	state := mat.NewVecDense(c.state.Len(), nil)
	state.CopyVec(c.state)

	return state
}

// Cov returns initial covariance
func (c *InitCond) Cov() mat.Symmetric {
	cov := mat.NewSymDense(c.cov.SymmetricDim(), nil)
	cov.CopySym(c.cov)

	return cov
}
