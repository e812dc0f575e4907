package sim

import (
	"fmt"
	"math"
	"testing"

	locsim "github.com/milosgajdos/go-locsim"
	"github.com/milosgajdos/go-locsim/landmark"
	"github.com/milosgajdos/go-locsim/motion"
	"github.com/milosgajdos/go-locsim/particle/mcl"
	"github.com/milosgajdos/go-locsim/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a belief which records the commands it receives.
type recorder struct {
	cmds [][2]float64
	err  error
}

func (r *recorder) MotionUpdate(nu, omega, dt float64) error {
	r.cmds = append(r.cmds, [2]float64{nu, omega})
	return r.err
}

func (r *recorder) Poses() []locsim.Pose { return nil }

func (r *recorder) Len() int { return 0 }

// echo is an agent which records what it observes.
type echo struct {
	seen [][]locsim.Observation
}

func (e *echo) Decide(obs []locsim.Observation) (float64, float64) {
	e.seen = append(e.seen, obs)
	return 0.1, 0.0
}

func TestNewRobot(t *testing.T) {
	assert := assert.New(t)

	r, err := NewRobot(start, nil, nil, NewFixed(0.2, 0), nil)
	assert.Nil(r)
	assert.Error(err)

	r, err = NewRobot(start, motion.NewIdeal(), nil, nil, nil)
	assert.Nil(r)
	assert.Error(err)

	r, err = NewRobot(start, motion.NewIdeal(), nil, NewFixed(0.2, 0), nil)
	assert.NotNil(r)
	assert.NoError(err)
	assert.Equal(start, r.Pose())
	assert.Equal([]locsim.Pose{start}, r.Poses())
	assert.Nil(r.Belief())
}

func TestOneStepStraight(t *testing.T) {
	assert := assert.New(t)

	a, err := motion.NewNoisy(quietConfig(), 1)
	require.NoError(t, err)

	s, err := sensor.NewIdeal(landmark.NewMap(), distance, direction)
	require.NoError(t, err)

	r, err := NewRobot(start, a, s, NewFixed(0.2, 0.0), nil)
	require.NoError(t, err)

	assert.NoError(r.OneStep(1.0))

	poses := r.Poses()
	assert.Len(poses, 2)
	assert.Equal(start, poses[0])
	assert.InDelta(-1.8, r.Pose().X, delta)
	assert.InDelta(3.0, r.Pose().Y, delta)
	assert.InDelta(0.0, r.Pose().Theta, delta)
	assert.Empty(r.LastObservation())
}

func TestOneStepInvalid(t *testing.T) {
	assert := assert.New(t)

	r, err := NewRobot(start, motion.NewIdeal(), nil, NewFixed(0.2, 0), nil)
	require.NoError(t, err)

	assert.Error(r.OneStep(0))
	assert.Error(r.OneStep(-0.1))
	assert.Error(r.OneStep(math.NaN()))
	assert.Len(r.Poses(), 1)
}

func TestOneStepHistory(t *testing.T) {
	assert := assert.New(t)

	r, err := NewRobot(start, motion.NewIdeal(), nil, NewFixed(0.2, 10.0/180*math.Pi), nil)
	require.NoError(t, err)

	for i := 1; i <= 25; i++ {
		require.NoError(t, r.OneStep(0.1))
		assert.Len(r.Poses(), i+1)
	}

	// history is a copy
	poses := r.Poses()
	poses[0] = locsim.Pose{X: 100}
	assert.Equal(start, r.Poses()[0])
}

func TestOneStepSensesBeforeMoving(t *testing.T) {
	assert := assert.New(t)

	s, err := sensor.NewIdeal(lmMap, distance, direction)
	require.NoError(t, err)

	ag := &echo{}
	pose := locsim.Pose{X: 0.0, Y: 0.0, Theta: math.Pi / 4}
	r, err := NewRobot(pose, motion.NewIdeal(), s, ag, nil)
	require.NoError(t, err)

	require.NoError(t, r.OneStep(1.0))
	assert.Len(ag.seen, 1)
	assert.Equal(s.Observe(pose), ag.seen[0])
	assert.Equal(ag.seen[0], r.LastObservation())
	assert.NotEmpty(r.LastObservation())
}

func TestOneStepBelief(t *testing.T) {
	assert := assert.New(t)

	c := quietConfig()
	c.BiasStdNu = 0.5
	c.BiasStdOmega = 0.5
	a, err := motion.NewNoisy(c, 3)
	require.NoError(t, err)

	b := &recorder{}
	r, err := NewRobot(start, a, nil, NewFixed(0.2, 0.1), b)
	require.NoError(t, err)
	assert.Equal(b, r.Belief())

	for i := 0; i < 3; i++ {
		require.NoError(t, r.OneStep(0.5))
	}

	// belief gets the commanded velocities, not the biased ones
	assert.Equal([][2]float64{{0.2, 0.1}, {0.2, 0.1}, {0.2, 0.1}}, b.cmds)

	b.err = fmt.Errorf("failed")
	assert.Error(r.OneStep(0.5))
}

func TestOneStepParticles(t *testing.T) {
	assert := assert.New(t)

	b, err := mcl.New(NewPoseInitCond(start, nil), nil, 20, 1)
	require.NoError(t, err)

	r, err := NewRobot(start, motion.NewIdeal(), nil, NewFixed(0.2, 0.3), b)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, r.OneStep(0.1))
	}

	// noiseless belief follows ideal robot exactly
	for _, p := range b.Poses() {
		assert.InDelta(r.Pose().X, p.X, delta)
		assert.InDelta(r.Pose().Y, p.Y, delta)
		assert.InDelta(r.Pose().Theta, p.Theta, delta)
	}
	assert.Equal(20, b.Len())
}
