package rand

import (
	"fmt"
	"math"

	rnd "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// tol is relative tolerance below which a Cholesky pivot is treated as zero
const tol = 1e-12

// NewSource returns a new random source seeded with seed.
func NewSource(seed uint64) rnd.Source {
	return rnd.NewSource(seed)
}

// CholeskyL computes the lower triangular Cholesky factor L of cov such that cov = L*L^T.
// Positive semi-definite matrices are accepted: columns with a zero pivot are left zero.
// It fails with error if cov is not positive semi-definite.
func CholeskyL(cov mat.Symmetric) (*mat.TriDense, error) {
	if cov == nil {
		return nil, fmt.Errorf("invalid covariance matrix: nil")
	}

	n, _ := cov.Dims()
	if n == 0 {
		return nil, fmt.Errorf("invalid covariance matrix: zero size")
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); ok {
		l := mat.NewTriDense(n, mat.Lower, nil)
		chol.LTo(l)
		return l, nil
	}

	// fall back to an outer-product factorization which tolerates singular matrices
	scale := 1.0
	for i := 0; i < n; i++ {
		scale = math.Max(scale, math.Abs(cov.At(i, i)))
	}
	eps := tol * scale

	l := mat.NewTriDense(n, mat.Lower, nil)
	for j := 0; j < n; j++ {
		d := cov.At(j, j)
		for k := 0; k < j; k++ {
			d -= l.At(j, k) * l.At(j, k)
		}

		if d < -eps {
			return nil, fmt.Errorf("covariance matrix is not positive semi-definite")
		}

		if d <= eps {
			// zero pivot: the rest of the column must vanish too
			for i := j + 1; i < n; i++ {
				v := cov.At(i, j)
				for k := 0; k < j; k++ {
					v -= l.At(i, k) * l.At(j, k)
				}
				if math.Abs(v) > eps {
					return nil, fmt.Errorf("covariance matrix is not positive semi-definite")
				}
			}
			continue
		}

		d = math.Sqrt(d)
		l.SetTri(j, j, d)
		for i := j + 1; i < n; i++ {
			v := cov.At(i, j)
			for k := 0; k < j; k++ {
				v -= l.At(i, k) * l.At(j, k)
			}
			l.SetTri(i, j, v/d)
		}
	}

	return l, nil
}

// StdNormal draws n independent samples from a standard Normal distribution using src.
func StdNormal(n int, src rnd.Source) *mat.VecDense {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	z := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		z.SetVec(i, dist.Rand())
	}

	return z
}

// WithL draws a sample L*z + mean where z is a standard Normal vector.
// If mean is nil the sample has zero mean.
func WithL(mean []float64, l mat.Triangular, src rnd.Source) *mat.VecDense {
	n, _ := l.Dims()

	x := mat.NewVecDense(n, nil)
	x.MulVec(l, StdNormal(n, src))

	if mean != nil {
		x.AddVec(x, mat.NewVecDense(n, mean))
	}

	return x
}

// WithCov draws a random sample from a Normal distribution with given mean and covariance cov.
// It fails with error if the size of mean does not match cov or if cov is not positive semi-definite.
func WithCov(mean []float64, cov mat.Symmetric, src rnd.Source) (*mat.VecDense, error) {
	l, err := CholeskyL(cov)
	if err != nil {
		return nil, err
	}

	n, _ := l.Dims()
	if mean != nil && len(mean) != n {
		return nil, fmt.Errorf("invalid mean size: %d, expected %d", len(mean), n)
	}

	return WithL(mean, l, src), nil
}

// WithCovN draws n random samples from a zero-mean Normal (aka Gaussian) distribution with covariance cov.
// It returns matrix which contains the randomly generated samples stored in its columns.
// It fails with error if n is non-positive or if cov is not positive semi-definite.
func WithCovN(cov mat.Symmetric, n int, src rnd.Source) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of samples requested: %d", n)
	}

	l, err := CholeskyL(cov)
	if err != nil {
		return nil, err
	}

	rows, _ := l.Dims()
	samples := mat.NewDense(rows, n, nil)
	for c := 0; c < n; c++ {
		samples.SetCol(c, WithL(nil, l, src).RawVector().Data)
	}

	return samples, nil
}
