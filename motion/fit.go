package motion

import (
	"fmt"
	"math"

	locsim "github.com/milosgajdos/go-locsim"
	"gonum.org/v1/gonum/stat"
)

// NoiseFit holds motion noise statistics estimated from a set of final poses.
type NoiseFit struct {
	// RangeMean is mean travelled distance from the start pose
	RangeMean float64
	// ThetaVar is variance of the heading change
	ThetaVar float64
	// SigmaOmegaNu is standard deviation of angular velocity noise per unit of travelled distance
	SigmaOmegaNu float64
}

// FitNoise estimates how much heading noise a unit of travelled distance causes
// from the final poses of robots which all started at start and drove straight.
// It returns error if fewer than two poses are given or if the robots did not move.
func FitNoise(start locsim.Pose, poses []locsim.Pose) (NoiseFit, error) {
	if len(poses) < 2 {
		return NoiseFit{}, fmt.Errorf("insufficient number of poses: %d", len(poses))
	}

	r := make([]float64, len(poses))
	theta := make([]float64, len(poses))
	for i, p := range poses {
		r[i] = math.Hypot(p.X-start.X, p.Y-start.Y)
		theta[i] = p.Theta - start.Theta
	}

	rMean := stat.Mean(r, nil)
	if rMean <= 0 {
		return NoiseFit{}, fmt.Errorf("robots did not move: mean distance %v", rMean)
	}
	_, thetaVar := stat.MeanVariance(theta, nil)

	return NoiseFit{
		RangeMean:    rMean,
		ThetaVar:     thetaVar,
		SigmaOmegaNu: math.Sqrt(thetaVar / rMean),
	}, nil
}
