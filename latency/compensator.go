// Package latency implements the command-buffer forward-kinematics
// compensator (C6): it predicts the robot's pose Δs seconds into the future
// from a buffered window of issued velocity commands, to offset the
// combined actuation and observation delay between when a command is
// issued and when its effect is observed.
package latency

import (
	"math"
	"time"

	"navcore/pose"

	"github.com/pkg/errors"
)

// CommandRecord is one recorded (v_x, v_y, ω) command and the time it was
// issued, per spec.md §4.6.
type CommandRecord struct {
	Vx, Vy, Omega float64
	Stamp         time.Time
}

// Config holds the compensator's timing parameters (spec.md §4.6).
type Config struct {
	ActuationDelay   time.Duration
	ObservationDelay time.Duration
	ControlPeriod    time.Duration
}

// TotalDelay returns Δs = Δa + Δo.
func (c Config) TotalDelay() time.Duration {
	return c.ActuationDelay + c.ObservationDelay
}

// Compensator maintains a chronologically ordered command buffer and the
// timestamp of the most recent observation.
type Compensator struct {
	cfg Config

	buffer          []CommandRecord
	observationTime time.Time
	hasObservation  bool
}

// New returns a Compensator configured by cfg.
func New(cfg Config) *Compensator {
	return &Compensator{cfg: cfg}
}

// RecordNewInput appends a command issued at now to the buffer. Returns an
// error if now does not advance monotonically past the most recently
// recorded command (spec.md §4.6's "timestamps must be monotone").
func (c *Compensator) RecordNewInput(vx, vy, omega float64, now time.Time) error {
	if n := len(c.buffer); n > 0 && !now.After(c.buffer[n-1].Stamp) {
		return errors.Errorf("latency: non-monotone command timestamp %s after %s", now, c.buffer[n-1].Stamp)
	}
	c.buffer = append(c.buffer, CommandRecord{Vx: vx, Vy: vy, Omega: omega, Stamp: now})
	return nil
}

// RecordObservation stamps the time at which the most recent sensor state
// corresponds to.
func (c *Compensator) RecordObservation(at time.Time) {
	c.observationTime = at
	c.hasObservation = true
}

// PredictedState returns the pose predicted Δs into the future from input,
// by pruning commands already reflected in the observation and
// forward-integrating the remainder in time order (spec.md §4.6). If the
// buffer is empty, input is returned unchanged.
func (c *Compensator) PredictedState(input pose.Pose2D) pose.Pose2D {
	if len(c.buffer) == 0 {
		return input
	}

	if c.hasObservation {
		cutoff := c.observationTime.Add(-c.cfg.ObservationDelay)
		pruned := c.buffer[:0:0]
		for _, rec := range c.buffer {
			if rec.Stamp.After(cutoff) {
				pruned = append(pruned, rec)
			}
		}
		c.buffer = pruned
	}
	if len(c.buffer) == 0 {
		return input
	}

	dt := c.cfg.ControlPeriod.Seconds()
	x, y, theta := input.X, input.Y, input.Theta
	for _, rec := range c.buffer {
		x += (rec.Vx*math.Cos(theta) - rec.Vy*math.Sin(theta)) * dt
		y += (rec.Vx*math.Sin(theta) + rec.Vy*math.Cos(theta)) * dt
		theta += rec.Omega * dt
	}
	return pose.New(x, y, pose.WrapAngle(theta))
}
