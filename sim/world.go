package sim

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/milosgajdos/go-locsim/landmark"
)

// World steps robots placed on a shared landmark map.
type World struct {
	id     uuid.UUID
	m      *landmark.Map
	span   float64
	dt     float64
	robots []*Robot
}

// NewWorld creates new world simulated over timespan span in ticks of length dt and returns it.
// Every world is tagged with a unique run ID.
// It returns error if dt is not positive or if span is negative.
func NewWorld(m *landmark.Map, span, dt float64) (*World, error) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return nil, fmt.Errorf("invalid time step: %v", dt)
	}

	if !(span >= 0) || math.IsInf(span, 1) {
		return nil, fmt.Errorf("invalid time span: %v", span)
	}

	if m == nil {
		m = landmark.NewMap()
	}

	return &World{
		id:   uuid.New(),
		m:    m,
		span: span,
		dt:   dt,
	}, nil
}

// ID returns world run ID.
func (w *World) ID() uuid.UUID {
	return w.id
}

// Map returns world landmark map.
func (w *World) Map() *landmark.Map {
	return w.m
}

// Dt returns tick length.
func (w *World) Dt() float64 {
	return w.dt
}

// Steps returns the number of ticks a run takes.
func (w *World) Steps() int {
	// tolerate rounding error of span/dt
	return int(math.Floor(w.span/w.dt + 1e-9))
}

// Add adds robot r to the world.
// Robots are stepped in the order they were added.
func (w *World) Add(r *Robot) {
	w.robots = append(w.robots, r)
}

// Robots returns world robots.
func (w *World) Robots() []*Robot {
	robots := make([]*Robot, len(w.robots))
	copy(robots, w.robots)

	return robots
}

// Run runs the simulation for Steps() ticks.
// If fn is not nil it is called after every tick with the number of the tick starting from 1.
// Run stops and returns error if any robot fails to step or if fn returns error.
func (w *World) Run(fn func(step int) error) error {
	for step := 1; step <= w.Steps(); step++ {
		for i, r := range w.robots {
			if err := r.OneStep(w.dt); err != nil {
				return fmt.Errorf("robot %d step %d: %v", i, step, err)
			}
		}

		if fn != nil {
			if err := fn(step); err != nil {
				return err
			}
		}
	}

	return nil
}
