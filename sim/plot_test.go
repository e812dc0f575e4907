package sim

import (
	"testing"

	locsim "github.com/milosgajdos/go-locsim"
	"github.com/milosgajdos/go-locsim/landmark"
	"github.com/stretchr/testify/assert"
)

func TestNewTrajectoryPlot(t *testing.T) {
	assert := assert.New(t)

	poses := []locsim.Pose{start, {X: -1.8, Y: 3.0}}
	particles := []locsim.Pose{{X: -1.7, Y: 3.1}, {X: -1.9, Y: 2.9}}

	plt, err := NewTrajectoryPlot(lmMap, poses, particles)
	assert.NotNil(plt)
	assert.NoError(err)
	// landmarks span [-4, 3] x [-3, 3]
	assert.InDelta(-5.0, plt.X.Min, 1e-9)
	assert.InDelta(4.0, plt.X.Max, 1e-9)
	assert.InDelta(-4.0, plt.Y.Min, 1e-9)
	assert.InDelta(4.0, plt.Y.Max, 1e-9)

	plt, err = NewTrajectoryPlot(landmark.NewMap(), poses, nil)
	assert.NotNil(plt)
	assert.NoError(err)

	plt, err = NewTrajectoryPlot(nil, poses, nil)
	assert.NotNil(plt)
	assert.NoError(err)
	// without landmarks the axes follow the robot path
	assert.InDelta(-3.0, plt.X.Min, 1e-9)
	assert.InDelta(-0.8, plt.X.Max, 1e-9)
	assert.InDelta(2.0, plt.Y.Min, 1e-9)
	assert.InDelta(4.0, plt.Y.Max, 1e-9)

	// particles outside the map widen the axes
	plt, err = NewTrajectoryPlot(lmMap, poses, []locsim.Pose{{X: 10.0, Y: -10.0}})
	assert.NoError(err)
	assert.InDelta(11.0, plt.X.Max, 1e-9)
	assert.InDelta(-11.0, plt.Y.Min, 1e-9)

	plt, err = NewTrajectoryPlot(lmMap, nil, particles)
	assert.Nil(plt)
	assert.Error(err)
}
