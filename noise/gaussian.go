package noise

import (
	"fmt"

	"github.com/milosgajdos/go-locsim/rand"
	rnd "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Gaussian is correlated gaussian noise drawn from its own seeded random stream.
type Gaussian struct {
	// mean is Gaussian mean
	mean []float64
	// cov is Gaussian covariance
	cov *mat.SymDense
	// l is lower Cholesky factor of cov
	l *mat.TriDense
	// seed seeds src
	seed uint64
	// src is random source
	src rnd.Source
}

// NewGaussian creates new Gaussian noise with given mean and covariance seeded with seed.
// It returns error if the size of mean does not match cov or if cov is not positive semi-definite.
func NewGaussian(mean []float64, cov mat.Symmetric, seed uint64) (*Gaussian, error) {
	l, err := rand.CholeskyL(cov)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gaussian noise: %v", err)
	}

	n, _ := cov.Dims()
	if len(mean) != n {
		return nil, fmt.Errorf("invalid Gaussian mean size: %d, expected %d", len(mean), n)
	}

	m := make([]float64, n)
	copy(m, mean)

	c := mat.NewSymDense(n, nil)
	c.CopySym(cov)

	return &Gaussian{
		mean: m,
		cov:  c,
		l:    l,
		seed: seed,
		src:  rand.NewSource(seed),
	}, nil
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() mat.Vector {
	return rand.WithL(g.mean, g.l, g.src)
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() mat.Symmetric {
	cov := mat.NewSymDense(len(g.mean), nil)
	cov.CopySym(g.cov)

	return cov
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() []float64 {
	mean := make([]float64, len(g.mean))
	copy(mean, g.mean)

	return mean
}

// Reset reseeds Gaussian noise with its original seed so the sample sequence starts over.
func (g *Gaussian) Reset() {
	g.src = rand.NewSource(g.seed)
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
