// Package gesture turns hand observations into drive commands. It has two
// halves: an Extractor that reduces 21 landmarks to five per-finger
// open/closed bits, and a Classifier that maps the count of raised fingers
// to a latched command.
package gesture

import (
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// FingerState records which fingers are extended, thumb first. A finger
// counts as extended when its tip clears the relevant joint; see Extract
// for the exact rules.
type FingerState struct {
	Thumb  bool `json:"thumb"`
	Index  bool `json:"index"`
	Middle bool `json:"middle"`
	Ring   bool `json:"ring"`
	Pinky  bool `json:"pinky"`
}

// Count returns the number of extended fingers, 0 through 5.
func (s FingerState) Count() int {
	n := 0
	for _, up := range [5]bool{s.Thumb, s.Index, s.Middle, s.Ring, s.Pinky} {
		if up {
			n++
		}
	}
	return n
}

// String renders the state as five characters, one per finger in
// thumb-to-pinky order, with a dot marking a curled finger.
func (s FingerState) String() string {
	out := make([]byte, 5)
	letters := [5]byte{'T', 'I', 'M', 'R', 'P'}
	for i, up := range [5]bool{s.Thumb, s.Index, s.Middle, s.Ring, s.Pinky} {
		if up {
			out[i] = letters[i]
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

// ExtractorConfig controls how landmark geometry is interpreted.
type ExtractorConfig struct {
	// Handedness selects the thumb rule. The thumb extends sideways, so
	// unlike the other fingers its test is on the x axis and depends on
	// which hand is shown. "Right" or "Left"; default "Right".
	Handedness string

	// MirroredInput marks frames that were flipped horizontally before
	// detection, as selfie-style camera previews usually are. Mirroring
	// swaps the thumb's apparent direction, so the rule inverts again.
	MirroredInput bool
}

// DefaultExtractorConfig assumes an un-mirrored feed of a right hand.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{Handedness: "Right"}
}

// Extractor reduces a hand observation to a FingerState.
type Extractor struct {
	config ExtractorConfig
}

// NewExtractor creates an extractor for the given geometry.
func NewExtractor(config ExtractorConfig) *Extractor {
	if config.Handedness == "" {
		config.Handedness = "Right"
	}
	return &Extractor{config: config}
}

// Extract computes the per-finger state for one observation.
//
// Index, middle, ring and pinky count as extended when the fingertip sits
// above the PIP joint two places down the chain (smaller y, since the image
// origin is top-left). The thumb counts as extended when its tip clears the
// IP joint on the x axis, toward the side the thumb naturally points for
// the configured hand.
//
// The observation must carry all 21 landmarks; anything else returns an
// error wrapping detector.ErrMalformedObservation and a zero state.
func (e *Extractor) Extract(obs *detector.Observation) (FingerState, error) {
	if err := obs.Validate(); err != nil {
		return FingerState{}, fmt.Errorf("extract fingers: %w", err)
	}

	p := obs.Points
	state := FingerState{
		Index:  p[detector.IndexTip].Y < p[detector.IndexPIP].Y,
		Middle: p[detector.MiddleTip].Y < p[detector.MiddlePIP].Y,
		Ring:   p[detector.RingTip].Y < p[detector.RingPIP].Y,
		Pinky:  p[detector.PinkyTip].Y < p[detector.PinkyPIP].Y,
	}

	// For an un-mirrored right hand facing the camera the thumb points
	// toward +x. A left hand points it the other way, and a mirrored frame
	// flips it once more.
	rightward := e.config.Handedness == "Right"
	if e.config.MirroredInput {
		rightward = !rightward
	}
	if rightward {
		state.Thumb = p[detector.ThumbTip].X > p[detector.ThumbIP].X
	} else {
		state.Thumb = p[detector.ThumbTip].X < p[detector.ThumbIP].X
	}

	return state, nil
}
