package particle

import (
	locsim "github.com/milosgajdos/go-locsim"
	"github.com/milosgajdos/go-locsim/landmark"
	"gonum.org/v1/gonum/mat"
)

// Particle is a particle belief over robot poses
type Particle interface {
	// locsim.Belief is a population of pose hypotheses
	locsim.Belief
	// Particles returns particles stored in matrix columns
	Particles() mat.Matrix
	// Estimate returns the belief summary
	Estimate() (locsim.Estimate, error)
	// MeanPose returns the mean pose of the belief
	MeanPose() (locsim.Pose, error)
}

// Corrector corrects a particle belief using a sensor reading.
// This is the observation step of Monte Carlo localization: weighting particles
// by observation likelihood and resampling them. No implementation is provided yet.
type Corrector interface {
	// ObservationUpdate corrects particles using observations obs of landmarks in m
	ObservationUpdate(obs []locsim.Observation, m *landmark.Map) error
}
