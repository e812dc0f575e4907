package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewZero(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(4)
	assert.NotNil(e)
	assert.NoError(err)

	e, err = NewZero(-10)
	assert.Nil(e)
	assert.Error(err)
}

func TestZeroMeanCov(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(2)
	assert.NoError(err)

	assert.EqualValues([]float64{0, 0}, e.Mean())

	cov := e.Cov()
	assert.Equal(2, cov.SymmetricDim())
	assert.True(mat.Equal(cov, mat.NewSymDense(2, nil)))
}

func TestZeroSample(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(4)
	assert.NoError(err)

	s1 := e.Sample()
	assert.Equal(4, s1.Len())
	assert.True(mat.Equal(s1, mat.NewVecDense(4, nil)))

	e.Reset()
	s2 := e.Sample()
	assert.True(mat.Equal(s1, s2))

	e, err = NewZero(0)
	assert.NoError(err)
	assert.Equal(0, e.Sample().Len())
}

func TestZeroString(t *testing.T) {
	assert := assert.New(t)

	str := `Zero{
Mean=[0 0]
Cov=⎡0  0⎤
    ⎣0  0⎦
}`

	e, err := NewZero(2)
	assert.NoError(err)
	assert.Equal(str, e.String())
}
