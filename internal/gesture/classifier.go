package gesture

import (
	"fmt"
	"sync"
)

// Command is a latched drive command. The zero value is Stop so an
// unconfigured pipeline never moves the platform.
type Command int

const (
	Stop Command = iota
	Forward
	Reverse
	Turn
)

// String returns the wire and storage name of the command.
func (c Command) String() string {
	switch c {
	case Stop:
		return "STOP"
	case Forward:
		return "FORWARD"
	case Reverse:
		return "REVERSE"
	case Turn:
		return "TURN"
	default:
		return fmt.Sprintf("COMMAND(%d)", int(c))
	}
}

// ParseCommand maps a storage name back to a Command.
func ParseCommand(s string) (Command, error) {
	switch s {
	case "STOP":
		return Stop, nil
	case "FORWARD":
		return Forward, nil
	case "REVERSE":
		return Reverse, nil
	case "TURN":
		return Turn, nil
	default:
		return Stop, fmt.Errorf("unknown command %q", s)
	}
}

// Classify maps a finger state to the next command given the previous one.
// A nil state means no hand was seen this frame.
//
// The mapping is by raised-finger count: a fist drives forward, one finger
// reverses, two fingers turn and an open palm stops. Three and four raised
// fingers are deliberately unmapped, as are frames without a hand; both
// hold the previous command so a half-opened hand mid-transition does not
// glitch the platform.
func Classify(state *FingerState, previous Command) Command {
	if state == nil {
		return previous
	}
	switch state.Count() {
	case 0:
		return Forward
	case 1:
		return Reverse
	case 2:
		return Turn
	case 5:
		return Stop
	default:
		return previous
	}
}

// Classifier latches the most recent command across frames. It starts at
// Stop and only moves off a command when a mapped finger count arrives.
// Safe for concurrent use; the pipeline writes while the telemetry
// surfaces read.
type Classifier struct {
	mu      sync.Mutex
	current Command
}

// NewClassifier returns a classifier latched to Stop.
func NewClassifier() *Classifier {
	return &Classifier{current: Stop}
}

// Update feeds one frame's finger state (nil when no hand was seen) into
// the latch. It returns the command now in effect and whether this frame
// changed it.
func (c *Classifier) Update(state *FingerState) (Command, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := Classify(state, c.current)
	changed := next != c.current
	c.current = next
	return next, changed
}

// Current returns the latched command.
func (c *Classifier) Current() Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Force overrides the latch, bypassing classification. Used by operator
// controls such as the tray's emergency stop.
func (c *Classifier) Force(cmd Command) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = cmd
}
