package gesture

import (
	"errors"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/testutil"
)

func TestExtractFingerCounts(t *testing.T) {
	e := NewExtractor(DefaultExtractorConfig())

	for n := 0; n <= 5; n++ {
		obs := testutil.ExtendedFingers(n)
		state, err := e.Extract(&obs)
		if err != nil {
			t.Fatalf("Extract(%d fingers) error: %v", n, err)
		}
		if got := state.Count(); got != n {
			t.Errorf("Extract(%d fingers) count = %d (%s)", n, got, state)
		}
	}
}

func TestExtractIndividualFingers(t *testing.T) {
	e := NewExtractor(DefaultExtractorConfig())

	tests := []struct {
		name string
		obs  detector.Observation
		want FingerState
	}{
		{"fist", testutil.Fist(), FingerState{}},
		{"index only", testutil.ExtendedFingers(1), FingerState{Index: true}},
		{"two finger v", testutil.ExtendedFingers(2), FingerState{Index: true, Middle: true}},
		{"open palm", testutil.OpenPalm(), FingerState{Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := e.Extract(&tt.obs)
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}
			if state != tt.want {
				t.Errorf("Extract() = %s, want %s", state, tt.want)
			}
		})
	}
}

func TestExtractThumbHandedness(t *testing.T) {
	rightPalm := testutil.OpenPalm()
	leftPalm := testutil.Mirrored(rightPalm)

	tests := []struct {
		name      string
		config    ExtractorConfig
		obs       detector.Observation
		wantThumb bool
	}{
		{"right hand, right config", ExtractorConfig{Handedness: "Right"}, rightPalm, true},
		{"left hand, left config", ExtractorConfig{Handedness: "Left"}, leftPalm, true},
		{"left hand, right config misreads thumb", ExtractorConfig{Handedness: "Right"}, leftPalm, false},
		{"right hand in mirrored frame", ExtractorConfig{Handedness: "Right", MirroredInput: true}, leftPalm, true},
		{"mirrored frame, un-mirrored config misreads thumb", ExtractorConfig{Handedness: "Right"}, leftPalm, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := NewExtractor(tt.config).Extract(&tt.obs)
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}
			if state.Thumb != tt.wantThumb {
				t.Errorf("thumb = %v, want %v", state.Thumb, tt.wantThumb)
			}
		})
	}
}

func TestExtractTipOnJointIsCurled(t *testing.T) {
	// The extended test is a strict inequality, so a tip level with its
	// joint does not count.
	e := NewExtractor(DefaultExtractorConfig())

	obs := testutil.ExtendedFingers(1)
	obs.Points[detector.IndexTip].Y = obs.Points[detector.IndexPIP].Y
	state, err := e.Extract(&obs)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if state.Index {
		t.Error("index finger level with PIP joint counted as extended")
	}

	palm := testutil.OpenPalm()
	palm.Points[detector.ThumbTip].X = palm.Points[detector.ThumbIP].X
	state, err = e.Extract(&palm)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if state.Thumb {
		t.Error("thumb level with IP joint counted as extended")
	}
}

func TestExtractMalformed(t *testing.T) {
	e := NewExtractor(DefaultExtractorConfig())

	for _, n := range []int{0, 5, 20, 22} {
		obs := testutil.Malformed(n)
		state, err := e.Extract(&obs)
		if !errors.Is(err, detector.ErrMalformedObservation) {
			t.Errorf("Extract(%d points) error = %v, want ErrMalformedObservation", n, err)
		}
		if state != (FingerState{}) {
			t.Errorf("Extract(%d points) state = %s, want zero state", n, state)
		}
	}
}

func TestFingerStateString(t *testing.T) {
	tests := []struct {
		state FingerState
		want  string
	}{
		{FingerState{}, "....."},
		{FingerState{Index: true}, ".I..."},
		{FingerState{Thumb: true, Pinky: true}, "T...P"},
		{FingerState{Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true}, "TIMRP"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
