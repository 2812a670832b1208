// Package drive maps latched commands to wheel velocity setpoints and ships
// them to a differential-drive platform over a pluggable link.
package drive

import "github.com/ayusman/mudra/internal/gesture"

// VelocityPair is one setpoint for a differential drive: target angular
// velocities for the left and right wheel joints, in radians per second.
// Positive values roll the platform forward.
type VelocityPair struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Policy holds the tuning for command-to-velocity mapping.
type Policy struct {
	// Speed is the wheel velocity used for straight-line driving.
	Speed float64

	// Turn is the wheel velocity used while pivoting in place. The turn
	// setpoint counter-rotates the wheels at this magnitude.
	Turn float64
}

// DefaultPolicy returns the stock tuning: full speed 2.0 rad/s and an
// in-place turn at half that.
func DefaultPolicy() Policy {
	return Policy{
		Speed: 2.0,
		Turn:  1.0,
	}
}

// Velocities maps a command to its wheel setpoint. Forward and reverse
// drive both wheels together; turn counter-rotates them (left wheel
// backward, right wheel forward, so the platform pivots left). Any command
// outside the known set stops the platform.
func (p Policy) Velocities(cmd gesture.Command) VelocityPair {
	switch cmd {
	case gesture.Forward:
		return VelocityPair{Left: p.Speed, Right: p.Speed}
	case gesture.Reverse:
		return VelocityPair{Left: -p.Speed, Right: -p.Speed}
	case gesture.Turn:
		return VelocityPair{Left: -p.Turn, Right: p.Turn}
	default:
		return VelocityPair{}
	}
}
