package estimate

import (
	"testing"

	locsim "github.com/milosgajdos/go-locsim"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewBase(t *testing.T) {
	assert := assert.New(t)

	state := mat.NewVecDense(3, []float64{1.0, 1.0, 0.5})
	cov := mat.NewSymDense(3, []float64{1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0})

	b, err := NewBase(state)
	assert.NotNil(b)
	assert.NoError(err)
	assert.True(mat.Equal(b.Cov(), mat.NewSymDense(3, nil)))

	b, err = NewBase(nil)
	assert.Nil(b)
	assert.Error(err)

	b, err = NewBaseWithCov(state, cov)
	assert.NotNil(b)
	assert.NoError(err)

	b, err = NewBaseWithCov(state, mat.NewSymDense(1, []float64{1.0}))
	assert.Nil(b)
	assert.Error(err)
}

func TestValCov(t *testing.T) {
	assert := assert.New(t)

	state := mat.NewVecDense(2, []float64{1.0, 2.0})
	cov := mat.NewSymDense(2, []float64{1.0, 2.0, 2.0, 4.0})

	b, err := NewBaseWithCov(state, cov)
	assert.NotNil(b)
	assert.NoError(err)

	assert.True(mat.Equal(state, b.Val()))
	assert.True(mat.Equal(cov, b.Cov()))

	// modifying the source does not leak into the estimate
	state.SetVec(0, 100)
	assert.Equal(1.0, b.Val().AtVec(0))
}

func TestPose(t *testing.T) {
	assert := assert.New(t)

	b, err := NewBase(locsim.Pose{X: 1, Y: 2, Theta: 0.3}.Vec())
	assert.NoError(err)

	p, err := b.Pose()
	assert.NoError(err)
	assert.Equal(locsim.Pose{X: 1, Y: 2, Theta: 0.3}, p)

	b, err = NewBase(mat.NewVecDense(2, nil))
	assert.NoError(err)

	_, err = b.Pose()
	assert.Error(err)
}
