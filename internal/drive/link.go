package drive

import (
	"errors"
	"fmt"
)

// ErrLinkClosed is returned by Apply after the link has been closed.
var ErrLinkClosed = errors.New("drive link closed")

// Link delivers velocity setpoints to the platform. Implementations exist
// for a serial-attached controller and a TCP simulator endpoint, plus a
// mock for tests. Apply is fire-and-forget from the pipeline's point of
// view: callers log failures and keep going rather than abort the loop.
type Link interface {
	// Apply sends one setpoint. It may be called at frame rate with the
	// same value; implementations must tolerate that.
	Apply(v VelocityPair) error

	// Close releases the underlying transport. Callers send a stop
	// setpoint before closing so the platform is never abandoned in
	// motion.
	Close() error
}

// setpointLine renders one setpoint in the wire format shared by the
// serial and TCP links: a single text line "V <left> <right>".
func setpointLine(v VelocityPair) []byte {
	return []byte(fmt.Sprintf("V %.3f %.3f\n", v.Left, v.Right))
}
