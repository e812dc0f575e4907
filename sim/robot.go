package sim

import (
	"fmt"

	locsim "github.com/milosgajdos/go-locsim"
)

// Robot is a ground truth robot.
// It owns its true pose and the history of every pose it has been in.
type Robot struct {
	pose     locsim.Pose
	poses    []locsim.Pose
	actuator locsim.Actuator
	sensor   locsim.Sensor
	agent    locsim.Agent
	belief   locsim.Belief
	obs      []locsim.Observation
}

// NewRobot creates new robot in pose p and returns it.
// Sensor s and belief b are optional: a robot without a sensor observes nothing
// and a robot without a belief does not track its pose estimate.
// It returns error if either actuator a or agent ag is nil.
func NewRobot(p locsim.Pose, a locsim.Actuator, s locsim.Sensor, ag locsim.Agent, b locsim.Belief) (*Robot, error) {
	if a == nil {
		return nil, fmt.Errorf("invalid actuator: nil")
	}

	if ag == nil {
		return nil, fmt.Errorf("invalid agent: nil")
	}

	return &Robot{
		pose:     p,
		poses:    []locsim.Pose{p},
		actuator: a,
		sensor:   s,
		agent:    ag,
		belief:   b,
	}, nil
}

// OneStep advances robot by one tick of length dt.
// The tick senses the environment from the current pose, asks the agent for a command,
// actuates the command and records the new pose. The belief, if any, is advanced
// by the commanded rather than the actuated velocities.
// It returns error if dt is not positive or if the belief fails to be updated.
func (r *Robot) OneStep(dt float64) error {
	if !(dt > 0) {
		return fmt.Errorf("invalid time step: %v", dt)
	}

	r.obs = nil
	if r.sensor != nil {
		r.obs = r.sensor.Observe(r.pose)
	}

	nu, omega := r.agent.Decide(r.obs)

	r.pose = r.actuator.Step(r.pose, nu, omega, dt)
	r.poses = append(r.poses, r.pose)

	if r.belief != nil {
		if err := r.belief.MotionUpdate(nu, omega, dt); err != nil {
			return fmt.Errorf("belief update failed: %v", err)
		}
	}

	return nil
}

// Pose returns current robot pose.
func (r *Robot) Pose() locsim.Pose {
	return r.pose
}

// Poses returns robot pose history including the initial pose.
func (r *Robot) Poses() []locsim.Pose {
	poses := make([]locsim.Pose, len(r.poses))
	copy(poses, r.poses)

	return poses
}

// LastObservation returns the observation made during the most recent tick.
func (r *Robot) LastObservation() []locsim.Observation {
	obs := make([]locsim.Observation, len(r.obs))
	copy(obs, r.obs)

	return obs
}

// Belief returns robot belief or nil if the robot has none.
func (r *Robot) Belief() locsim.Belief {
	return r.belief
}
