package sim

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	locsim "github.com/milosgajdos/go-locsim"
	"github.com/milosgajdos/go-locsim/landmark"
	"github.com/milosgajdos/go-locsim/motion"
	"github.com/milosgajdos/go-locsim/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorld(t *testing.T) {
	assert := assert.New(t)

	testCases := []struct {
		span  float64
		dt    float64
		steps int
		ok    bool
	}{
		{1.0, 1.0, 1, true},
		{30.0, 0.1, 300, true},
		{0.0, 0.1, 0, true},
		{1.0, 0.3, 3, true},
		{1.0, 0.0, 0, false},
		{1.0, -1.0, 0, false},
		{-1.0, 1.0, 0, false},
		{math.NaN(), 1.0, 0, false},
		{1.0, math.Inf(1), 0, false},
	}

	for _, tc := range testCases {
		w, err := NewWorld(lmMap, tc.span, tc.dt)
		if !tc.ok {
			assert.Nil(w)
			assert.Error(err)
			continue
		}
		assert.NoError(err)
		assert.Equal(tc.steps, w.Steps())
		assert.Equal(tc.dt, w.Dt())
	}

	w1, err := NewWorld(nil, 1.0, 1.0)
	require.NoError(t, err)
	w2, err := NewWorld(nil, 1.0, 1.0)
	require.NoError(t, err)
	assert.NotEqual(w1.ID(), w2.ID())
	assert.Equal(0, w1.Map().Len())
}

func TestWorldRunEndToEnd(t *testing.T) {
	assert := assert.New(t)

	m := landmark.NewMap()
	w, err := NewWorld(m, 1.0, 1.0)
	require.NoError(t, err)

	a, err := motion.NewNoisy(quietConfig(), 7)
	require.NoError(t, err)

	c := sensor.Config{
		DistanceRange:  distance,
		DirectionRange: direction,
	}
	s, err := sensor.NewCamera(m, c, 7)
	require.NoError(t, err)

	r, err := NewRobot(start, a, s, NewFixed(0.2, 0.0), nil)
	require.NoError(t, err)
	w.Add(r)

	ticks := 0
	assert.NoError(w.Run(func(step int) error {
		ticks++
		assert.Equal(ticks, step)
		return nil
	}))

	assert.Equal(1, ticks)
	assert.Len(r.Poses(), 2)
	assert.InDelta(-1.8, r.Pose().X, delta)
	assert.InDelta(3.0, r.Pose().Y, delta)
	assert.InDelta(0.0, r.Pose().Theta, delta)
	assert.Empty(r.LastObservation())
}

func TestWorldRunOrder(t *testing.T) {
	assert := assert.New(t)

	w, err := NewWorld(lmMap, 2.0, 0.5)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		r, err := NewRobot(start, motion.NewIdeal(), nil, NewFixed(float64(i), 0), nil)
		require.NoError(t, err)
		w.Add(r)
	}

	assert.NoError(w.Run(nil))

	robots := w.Robots()
	assert.Len(robots, 3)
	for i, r := range robots {
		assert.Len(r.Poses(), w.Steps()+1)
		assert.InDelta(start.X+float64(i)*2.0, r.Pose().X, delta)
	}

	// callback errors stop the run
	w, err = NewWorld(lmMap, 10.0, 1.0)
	require.NoError(t, err)
	r, err := NewRobot(start, motion.NewIdeal(), nil, NewFixed(1, 0), nil)
	require.NoError(t, err)
	w.Add(r)

	err = w.Run(func(step int) error {
		if step == 3 {
			return fmt.Errorf("stop")
		}
		return nil
	})
	assert.Error(err)
	assert.Len(r.Poses(), 4)
}

func TestWorldRunDeterministic(t *testing.T) {
	run := func() ([]locsim.Pose, []locsim.Observation) {
		w, err := NewWorld(lmMap, 5.0, 0.1)
		require.NoError(t, err)

		c := motion.DefaultConfig()
		c.ExpectedStuckTime = 3.0
		c.ExpectedEscapeTime = 1.0
		c.ExpectedKidnapTime = 2.0
		a, err := motion.NewNoisy(c, 42)
		require.NoError(t, err)

		s, err := sensor.NewCamera(lmMap, sensor.DefaultConfig(distance, direction), 43)
		require.NoError(t, err)

		r, err := NewRobot(start, a, s, NewFixed(0.2, 10.0/180*math.Pi), nil)
		require.NoError(t, err)
		w.Add(r)

		require.NoError(t, w.Run(nil))

		return r.Poses(), r.LastObservation()
	}

	poses1, obs1 := run()
	poses2, obs2 := run()

	if diff := cmp.Diff(poses1, poses2); diff != "" {
		t.Errorf("pose history mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(obs1, obs2); diff != "" {
		t.Errorf("observation mismatch (-want +got):\n%s", diff)
	}
}
