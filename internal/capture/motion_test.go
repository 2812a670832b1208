package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector(t *testing.T) {
	md := NewMotionDetector(DefaultWakeThreshold)
	defer md.Close()

	if md.threshold != DefaultWakeThreshold {
		t.Errorf("threshold = %f, want %f", md.threshold, DefaultWakeThreshold)
	}
	if md.initialized {
		t.Error("detector initialized before the first frame")
	}
}

func TestMotionDetectorStillScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	// The first frame only seeds the baseline.
	detected, changePercent := md.Detect(&frame1)
	if detected || changePercent != 0 {
		t.Errorf("first frame: detected=%v changePercent=%f, want false, 0", detected, changePercent)
	}

	detected, changePercent = md.Detect(&frame2)
	if detected {
		t.Errorf("identical frames reported motion, changePercent = %f", changePercent)
	}
}

func TestMotionDetectorSceneChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&black)
	detected, changePercent := md.Detect(&white)
	if !detected {
		t.Errorf("black to white reported no motion, changePercent = %f", changePercent)
	}
	if changePercent < 50.0 {
		t.Errorf("changePercent = %f, want > 50 for a full-frame change", changePercent)
	}
}

func TestMotionDetectorReset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	if !md.initialized {
		t.Error("detector not initialized after first Detect")
	}

	md.Reset()
	if md.initialized {
		t.Error("detector still initialized after Reset")
	}

	// The frame after a Reset re-seeds and must not report motion.
	if detected, _ := md.Detect(&frame); detected {
		t.Error("first frame after Reset reported motion")
	}
}

func TestMotionDetectorSetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0", md.threshold)
	}

	// Non-positive values are ignored.
	md.SetThreshold(-1.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f after SetThreshold(-1), want 5.0", md.threshold)
	}
}

func TestMotionDetectorCloseIsReusable(t *testing.T) {
	md := NewMotionDetector(1.0)
	md.Close()
	md.Close()
}
