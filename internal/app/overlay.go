package app

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

var (
	landmarkColor = color.RGBA{R: 0, G: 220, B: 90}
	textColor     = color.RGBA{R: 255, G: 255, B: 255}
)

// publishFrame draws the overlay onto the frame, encodes it and stores it
// as the latest preview image for the HTTP stream.
func (a *App) publishFrame(frame *gocv.Mat, obs *detector.Observation) {
	if frame == nil || frame.Empty() {
		return
	}

	if obs != nil {
		for _, p := range obs.Points {
			gocv.Circle(frame, image.Pt(int(p.X), int(p.Y)), 4, landmarkColor, -1)
		}
	}

	a.statusMu.RLock()
	setpoint := a.setpoint
	a.statusMu.RUnlock()

	label := fmt.Sprintf("%s  L %+.1f R %+.1f", a.classifier.Current(), setpoint.Left, setpoint.Right)
	gocv.PutText(frame, label, image.Pt(10, frame.Rows()-14), gocv.FontHersheySimplex, 0.7, textColor, 2)

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return
	}
	defer buf.Close()

	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())

	var points []detector.Point
	if obs != nil {
		points = make([]detector.Point, len(obs.Points))
		copy(points, obs.Points)
	}

	a.frameMu.Lock()
	a.lastJPEG = jpeg
	a.lastPoints = points
	a.frameMu.Unlock()
}

// LatestFrame returns the most recent annotated frame as JPEG bytes.
func (a *App) LatestFrame() ([]byte, bool) {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()

	if a.lastJPEG == nil {
		return nil, false
	}
	out := make([]byte, len(a.lastJPEG))
	copy(out, a.lastJPEG)
	return out, true
}

// LatestLandmarks returns the landmarks of the hand in the most recent
// frame, or nil if the last frame had no hand.
func (a *App) LatestLandmarks() []detector.Point {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()

	if a.lastPoints == nil {
		return nil
	}
	out := make([]detector.Point, len(a.lastPoints))
	copy(out, a.lastPoints)
	return out
}
