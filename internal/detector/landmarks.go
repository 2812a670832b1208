// Package detector provides hand detection interfaces and types for gesture control.
package detector

import (
	"errors"
	"fmt"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrMalformedObservation is returned when a hand observation does not carry
// the expected 21 landmarks. Callers should log it, skip the frame and move
// on; a malformed observation is never fatal.
var ErrMalformedObservation = errors.New("malformed hand observation")

// Point is a single landmark position in pixel space. The origin is the
// top-left corner of the frame and y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Observation is one detected hand in one frame: the 21 MediaPipe landmarks
// in pixel coordinates, in anatomical index order. Observations are
// transient; a Detector builds them and they are discarded at the end of
// the frame.
type Observation struct {
	Points     []Point `json:"points"`
	Handedness string  `json:"handedness"` // "Left" or "Right"
	Score      float64 `json:"score"`
}

// Validate checks that the observation carries exactly NumLandmarks points.
// Anything else wraps ErrMalformedObservation with the actual count.
func (o *Observation) Validate() error {
	if len(o.Points) != NumLandmarks {
		return fmt.Errorf("%w: got %d landmarks, want %d", ErrMalformedObservation, len(o.Points), NumLandmarks)
	}
	return nil
}
