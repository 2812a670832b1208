// Package testutil provides canned hand observations shared by tests.
//
// All fixtures describe a right hand, palm toward the camera, fingers
// pointing up, in a 640x480 frame with the origin at the top-left corner.
// Coordinates were chosen so that the fingertip rules hold with a wide
// margin: an extended finger's tip sits well above its PIP joint and an
// extended thumb's tip sits well to the right of its IP joint.
package testutil

import "github.com/ayusman/mudra/internal/detector"

// Frame dimensions the fixture coordinates are laid out in.
const (
	FrameWidth  = 640
	FrameHeight = 480
)

// ExtendedFingers returns a right-hand observation with exactly n fingers
// extended, n in [0,5]. Fingers unfold in a fixed order: index, middle,
// ring, pinky, thumb. So n=1 is a pointing index finger, n=2 a two-finger
// V, and n=5 an open palm. n=0 is a fist.
func ExtendedFingers(n int) detector.Observation {
	points := make([]detector.Point, detector.NumLandmarks)

	points[detector.Wrist] = detector.Point{X: 320, Y: 440}

	if n >= 5 {
		// Extended thumb reaches out to the right of the palm.
		points[detector.ThumbCMC] = detector.Point{X: 350, Y: 420}
		points[detector.ThumbMCP] = detector.Point{X: 375, Y: 400}
		points[detector.ThumbIP] = detector.Point{X: 395, Y: 385}
		points[detector.ThumbTip] = detector.Point{X: 415, Y: 375}
	} else {
		// Curled thumb folds back across the palm; tip ends up left of
		// the IP joint.
		points[detector.ThumbCMC] = detector.Point{X: 350, Y: 420}
		points[detector.ThumbMCP] = detector.Point{X: 370, Y: 405}
		points[detector.ThumbIP] = detector.Point{X: 380, Y: 395}
		points[detector.ThumbTip] = detector.Point{X: 370, Y: 390}
	}

	fingers := []struct {
		mcp int
		x   float64
	}{
		{detector.IndexMCP, 350},
		{detector.MiddleMCP, 325},
		{detector.RingMCP, 300},
		{detector.PinkyMCP, 275},
	}

	for i, f := range fingers {
		if i < n {
			// Extended: tip far above the PIP joint.
			points[f.mcp] = detector.Point{X: f.x, Y: 360}
			points[f.mcp+1] = detector.Point{X: f.x, Y: 320}
			points[f.mcp+2] = detector.Point{X: f.x, Y: 285}
			points[f.mcp+3] = detector.Point{X: f.x, Y: 250}
		} else {
			// Curled: tip folded back below the PIP joint.
			points[f.mcp] = detector.Point{X: f.x, Y: 360}
			points[f.mcp+1] = detector.Point{X: f.x, Y: 330}
			points[f.mcp+2] = detector.Point{X: f.x, Y: 350}
			points[f.mcp+3] = detector.Point{X: f.x, Y: 370}
		}
	}

	return detector.Observation{
		Points:     points,
		Handedness: "Right",
		Score:      0.97,
	}
}

// Fist returns a right hand with all fingers curled.
func Fist() detector.Observation {
	return ExtendedFingers(0)
}

// OpenPalm returns a right hand with all five fingers extended.
func OpenPalm() detector.Observation {
	return ExtendedFingers(5)
}

// Mirrored flips an observation horizontally across the fixture frame and
// swaps the reported handedness, as if the same pose were struck by the
// other hand.
func Mirrored(obs detector.Observation) detector.Observation {
	out := detector.Observation{
		Points:     make([]detector.Point, len(obs.Points)),
		Handedness: obs.Handedness,
		Score:      obs.Score,
	}
	for i, p := range obs.Points {
		out.Points[i] = detector.Point{X: FrameWidth - p.X, Y: p.Y}
	}
	switch obs.Handedness {
	case "Right":
		out.Handedness = "Left"
	case "Left":
		out.Handedness = "Right"
	}
	return out
}

// Malformed returns an observation with the wrong number of landmarks.
func Malformed(points int) detector.Observation {
	return detector.Observation{
		Points:     make([]detector.Point, points),
		Handedness: "Right",
		Score:      0.51,
	}
}
